package employee_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-foresthr/internal/employee"
	employeeerrors "go-foresthr/internal/employee/errors"
	"go-foresthr/internal/identity"
	"go-foresthr/internal/shared/clock"
	"go-foresthr/internal/transition"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeEmployeeRepository struct {
	stored         []*employee.Employee
	hasOpenAbsence bool
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository { return f }

func (f *fakeEmployeeRepository) Create(ctx context.Context, e *employee.Employee) error {
	copied := *e
	f.stored = append(f.stored, &copied)
	return nil
}

func (f *fakeEmployeeRepository) FindAll(ctx context.Context) ([]employee.Employee, error) {
	out := make([]employee.Employee, 0, len(f.stored))
	for _, e := range f.stored {
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	for _, e := range f.stored {
		if e.ID.String() == id {
			copied := *e
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) FindByIDForUpdate(ctx context.Context, id string) (*employee.Employee, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeEmployeeRepository) UpdateStatus(ctx context.Context, id string, status transition.EmployeeState) error {
	for _, e := range f.stored {
		if e.ID.String() == id {
			e.Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) Exists(ctx context.Context, id string) (bool, error) {
	for _, e := range f.stored {
		if e.ID.String() == id {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEmployeeRepository) HasOpenAbsence(ctx context.Context, employeeID string, at time.Time, excludeLeaveID, excludeSickLeaveID *string) (bool, error) {
	return f.hasOpenAbsence, nil
}

type employeeServiceDeps struct {
	sqlMock sqlmock.Sqlmock
	service employee.Service
	repo    *fakeEmployeeRepository
}

func setupEmployeeServiceTest(t *testing.T) *employeeServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := &fakeEmployeeRepository{}
	svc := employee.NewService(db, repo, nil, nil, nil, clock.Fixed(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)))

	return &employeeServiceDeps{sqlMock: sqlMock, service: svc, repo: repo}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func seedEmployee(d *employeeServiceDeps, status transition.EmployeeState) string {
	e := &employee.Employee{
		ID:       uuid.New(),
		FullName: "Marta Ilic",
		Email:    "marta@forest.example",
		Zone:     "north-ridge",
		Status:   status,
		HireDate: time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	_ = d.repo.Create(context.Background(), e)
	return e.ID.String()
}

func actor(role transition.Role) identity.Actor {
	return identity.Actor{ID: uuid.NewString(), Role: role}
}

func TestEmployeeService_CreateStartsPendingApproval(t *testing.T) {
	d := setupEmployeeServiceTest(t)

	resp, err := d.service.Create(context.Background(), actor(transition.RoleApprover), employee.CreateEmployeeRequest{
		FullName: "Ana Petros",
		Email:    "ana@forest.example",
		Zone:     "south-valley",
		HireDate: "2025-03-01",
	})
	assert.NoError(t, err)
	assert.Equal(t, string(transition.EmployeePendingApproval), resp.Status)
}

func TestEmployeeService_CreateRejectsBadHireDate(t *testing.T) {
	d := setupEmployeeServiceTest(t)

	_, err := d.service.Create(context.Background(), actor(transition.RoleApprover), employee.CreateEmployeeRequest{
		FullName: "Ana Petros",
		Email:    "ana@forest.example",
		HireDate: "01-03-2025",
	})
	assert.ErrorIs(t, err, employeeerrors.ErrInvalidHireDate)
}

func TestEmployeeService_ApproverActivatesPendingEmployee(t *testing.T) {
	d := setupEmployeeServiceTest(t)
	id := seedEmployee(d, transition.EmployeePendingApproval)

	expectTx(t, d.sqlMock, true)
	resp, err := d.service.RequestTransition(context.Background(), actor(transition.RoleApprover), id, transition.EmployeeActive, "checks passed")
	assert.NoError(t, err)
	assert.Equal(t, string(transition.EmployeeActive), resp.Status)
}

func TestEmployeeService_OperatorCannotActivatePendingEmployee(t *testing.T) {
	d := setupEmployeeServiceTest(t)
	id := seedEmployee(d, transition.EmployeePendingApproval)

	expectTx(t, d.sqlMock, false)
	_, err := d.service.RequestTransition(context.Background(), actor(transition.RoleOperator), id, transition.EmployeeActive, "")
	assert.ErrorIs(t, err, employeeerrors.ErrTransitionNotPermitted)
}

func TestEmployeeService_TerminalStatesRejectEveryRole(t *testing.T) {
	d := setupEmployeeServiceTest(t)

	for _, terminal := range []transition.EmployeeState{transition.EmployeeRetired, transition.EmployeeRejected} {
		id := seedEmployee(d, terminal)
		for _, role := range []transition.Role{transition.RoleOperator, transition.RoleApprover, transition.RoleAdministrator} {
			expectTx(t, d.sqlMock, false)
			_, err := d.service.RequestTransition(context.Background(), actor(role), id, transition.EmployeeActive, "")
			assert.ErrorIs(t, err, employeeerrors.ErrInvalidStatusTransition,
				"from %s as %s", terminal, role)
		}
	}
}

func TestEmployeeService_SuspendedReactivationIsAdministratorOnly(t *testing.T) {
	d := setupEmployeeServiceTest(t)

	id := seedEmployee(d, transition.EmployeeSuspended)
	expectTx(t, d.sqlMock, false)
	_, err := d.service.RequestTransition(context.Background(), actor(transition.RoleApprover), id, transition.EmployeeActive, "")
	assert.ErrorIs(t, err, employeeerrors.ErrTransitionNotPermitted)

	expectTx(t, d.sqlMock, true)
	resp, err := d.service.RequestTransition(context.Background(), actor(transition.RoleAdministrator), id, transition.EmployeeActive, "suspension lifted")
	assert.NoError(t, err)
	assert.Equal(t, string(transition.EmployeeActive), resp.Status)
}

func TestEmployeeService_AbsenceStatusNeedsCoveringRecord(t *testing.T) {
	d := setupEmployeeServiceTest(t)
	id := seedEmployee(d, transition.EmployeeActive)

	// No open leave or sick leave covers today.
	expectTx(t, d.sqlMock, false)
	_, err := d.service.RequestTransition(context.Background(), actor(transition.RoleOperator), id, transition.EmployeeOnVacation, "")
	assert.ErrorIs(t, err, employeeerrors.ErrNoCoveringAbsence)

	d.repo.hasOpenAbsence = true
	expectTx(t, d.sqlMock, true)
	resp, err := d.service.RequestTransition(context.Background(), actor(transition.RoleOperator), id, transition.EmployeeOnVacation, "")
	assert.NoError(t, err)
	assert.Equal(t, string(transition.EmployeeOnVacation), resp.Status)
}

func TestEmployeeService_GetCurrentStateFallsBackToRepo(t *testing.T) {
	d := setupEmployeeServiceTest(t)
	id := seedEmployee(d, transition.EmployeeActive)

	state, err := d.service.GetCurrentState(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, transition.EmployeeActive, state)

	_, err = d.service.GetCurrentState(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
}

func TestEmployeeService_ExitAbsenceKeepsStatusWhileCovered(t *testing.T) {
	d := setupEmployeeServiceTest(t)
	id := seedEmployee(d, transition.EmployeeOnLeave)
	d.repo.hasOpenAbsence = true

	err := d.service.ExitAbsence(context.Background(), nil, identity.SystemActor, id, nil, nil, time.Now())
	assert.NoError(t, err)

	stored, err := d.repo.FindByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, transition.EmployeeOnLeave, stored.Status)
}

func TestEmployeeService_ExitAbsenceReturnsToActiveWhenUncovered(t *testing.T) {
	d := setupEmployeeServiceTest(t)
	id := seedEmployee(d, transition.EmployeeOnLeave)

	err := d.service.ExitAbsence(context.Background(), nil, identity.SystemActor, id, nil, nil, time.Now())
	assert.NoError(t, err)

	stored, err := d.repo.FindByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, transition.EmployeeActive, stored.Status)
}

func TestEmployeeService_EnterAbsenceRequiresActive(t *testing.T) {
	d := setupEmployeeServiceTest(t)
	id := seedEmployee(d, transition.EmployeeSuspended)

	err := d.service.EnterAbsence(context.Background(), nil, identity.SystemActor, id, transition.EmployeeOnSickLeave)
	assert.ErrorIs(t, err, employeeerrors.ErrInvalidStatusTransition)

	err = d.service.EnterAbsence(context.Background(), nil, identity.SystemActor, id, transition.EmployeeRetired)
	assert.ErrorIs(t, err, employeeerrors.ErrInvalidTargetStatus)
}
