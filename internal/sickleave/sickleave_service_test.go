package sickleave_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-foresthr/internal/identity"
	"go-foresthr/internal/leave"
	"go-foresthr/internal/shared/clock"
	"go-foresthr/internal/sickleave"
	sickleaveerrors "go-foresthr/internal/sickleave/errors"
	"go-foresthr/internal/tracking"
	"go-foresthr/internal/transition"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeSickLeaveRepository struct {
	stored []*sickleave.SickLeave
}

func (f *fakeSickLeaveRepository) WithTx(tx *sql.Tx) sickleave.Repository { return f }

func (f *fakeSickLeaveRepository) Create(ctx context.Context, sl *sickleave.SickLeave) error {
	copied := *sl
	f.stored = append(f.stored, &copied)
	return nil
}

func (f *fakeSickLeaveRepository) FindAll(ctx context.Context) ([]sickleave.SickLeave, error) {
	out := make([]sickleave.SickLeave, 0, len(f.stored))
	for _, sl := range f.stored {
		out = append(out, *sl)
	}
	return out, nil
}

func (f *fakeSickLeaveRepository) FindByID(ctx context.Context, id string) (*sickleave.SickLeave, error) {
	for _, sl := range f.stored {
		if sl.ID.String() == id {
			copied := *sl
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSickLeaveRepository) FindByIDForUpdate(ctx context.Context, id string) (*sickleave.SickLeave, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeSickLeaveRepository) FindByEmployee(ctx context.Context, employeeID string) ([]sickleave.SickLeave, error) {
	var out []sickleave.SickLeave
	for _, sl := range f.stored {
		if sl.EmployeeID.String() == employeeID {
			out = append(out, *sl)
		}
	}
	return out, nil
}

func (f *fakeSickLeaveRepository) Update(ctx context.Context, sl *sickleave.SickLeave) error {
	for i, existing := range f.stored {
		if existing.ID == sl.ID {
			copied := *sl
			f.stored[i] = &copied
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeTrackingRepository struct {
	entries []tracking.Entry
}

func (f *fakeTrackingRepository) WithTx(tx *sql.Tx) tracking.Repository { return f }

func (f *fakeTrackingRepository) Append(ctx context.Context, e *tracking.Entry) error {
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeTrackingRepository) FindByParent(ctx context.Context, parentType, parentID string) ([]tracking.Entry, error) {
	var out []tracking.Entry
	for _, e := range f.entries {
		if e.ParentType == parentType && e.ParentID.String() == parentID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeTrackingRepository) LastActionFor(ctx context.Context, parentType, parentID string) (string, error) {
	last := ""
	for _, e := range f.entries {
		if e.ParentType == parentType && e.ParentID.String() == parentID {
			last = e.ActionType
		}
	}
	return last, nil
}

func (f *fakeTrackingRepository) actionsFor(parentID string) []string {
	var out []string
	for _, e := range f.entries {
		if e.ParentID.String() == parentID {
			out = append(out, e.ActionType)
		}
	}
	return out
}

type absenceCall struct {
	kind   string
	target transition.EmployeeState
}

type fakeEmployeeGateway struct {
	calls []absenceCall
}

func (f *fakeEmployeeGateway) Exists(ctx context.Context, id string) (bool, error) {
	return true, nil
}

func (f *fakeEmployeeGateway) EnterAbsence(ctx context.Context, tx *sql.Tx, actor identity.Actor, employeeID string, target transition.EmployeeState) error {
	f.calls = append(f.calls, absenceCall{kind: "enter", target: target})
	return nil
}

func (f *fakeEmployeeGateway) ExitAbsence(ctx context.Context, tx *sql.Tx, actor identity.Actor, employeeID string, excludeLeaveID, excludeSickLeaveID *string, now time.Time) error {
	f.calls = append(f.calls, absenceCall{kind: "exit"})
	return nil
}

type sickServiceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   sickleave.Service
	repo      *fakeSickLeaveRepository
	tracker   *fakeTrackingRepository
	employees *fakeEmployeeGateway
}

var testNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func setupSickServiceTest(t *testing.T) *sickServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := &fakeSickLeaveRepository{}
	tracker := &fakeTrackingRepository{}
	employees := &fakeEmployeeGateway{}

	svc := sickleave.NewService(db, repo, tracker, employees, nil, nil, clock.Fixed(testNow))

	return &sickServiceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		tracker:   tracker,
		employees: employees,
	}
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

func operator() identity.Actor {
	return identity.Actor{ID: uuid.NewString(), Role: transition.RoleOperator}
}

func admin() identity.Actor {
	return identity.Actor{ID: uuid.NewString(), Role: transition.RoleAdministrator}
}

func register(t *testing.T, d *sickServiceDeps, start, end string) sickleave.SickLeaveResponse {
	t.Helper()
	expectTx(t, d.sqlMock, true)
	resp, err := d.service.Create(context.Background(), operator(), sickleave.CreateSickLeaveRequest{
		EmployeeID: uuid.NewString(),
		Type:       "COMMON_ILLNESS",
		StartDate:  start,
		EndDate:    end,
	})
	assert.NoError(t, err)
	return resp
}

func TestSickLeaveService_CreateCoveringTodayMovesEmployee(t *testing.T) {
	d := setupSickServiceTest(t)

	resp := register(t, d, "2025-03-09", "2025-03-14")

	assert.Equal(t, sickleave.StatusActive, resp.Status)
	assert.Equal(t, 6, resp.TotalDays)
	assert.Equal(t, []string{tracking.ActionRegistration}, d.tracker.actionsFor(resp.ID))
	assert.Equal(t, []absenceCall{{kind: "enter", target: transition.EmployeeOnSickLeave}}, d.employees.calls)
}

func TestSickLeaveService_CreateFutureDoesNotMoveEmployee(t *testing.T) {
	d := setupSickServiceTest(t)

	register(t, d, "2025-04-01", "2025-04-05")
	assert.Empty(t, d.employees.calls)
}

func TestSickLeaveService_FullLifecycle(t *testing.T) {
	d := setupSickServiceTest(t)
	resp := register(t, d, "2025-03-09", "2025-03-10")

	expectTx(t, d.sqlMock, true)
	finished, err := d.service.Finish(context.Background(), operator(), resp.ID)
	assert.NoError(t, err)
	assert.Equal(t, sickleave.StatusFinished, finished.Status)

	expectTx(t, d.sqlMock, true)
	transcribed, err := d.service.Transcribe(context.Background(), operator(), resp.ID)
	assert.NoError(t, err)
	assert.Equal(t, sickleave.StatusTranscribed, transcribed.Status)

	expectTx(t, d.sqlMock, true)
	filed, err := d.service.File(context.Background(), operator(), resp.ID)
	assert.NoError(t, err)
	assert.Equal(t, sickleave.StatusCollected, filed.Status)

	assert.Equal(t, []string{
		tracking.ActionRegistration,
		tracking.ActionCompletion,
		tracking.ActionTranscription,
		tracking.ActionFiled,
	}, d.tracker.actionsFor(resp.ID))

	// Collected is terminal.
	expectTx(t, d.sqlMock, false)
	_, err = d.service.Cancel(context.Background(), admin(), resp.ID, "mistake")
	assert.ErrorIs(t, err, sickleaveerrors.ErrInvalidStatusTransition)
}

func TestSickLeaveService_TranscribeSkippingFinishFails(t *testing.T) {
	d := setupSickServiceTest(t)
	resp := register(t, d, "2025-03-09", "2025-03-10")

	expectTx(t, d.sqlMock, false)
	_, err := d.service.Transcribe(context.Background(), operator(), resp.ID)
	assert.ErrorIs(t, err, sickleaveerrors.ErrInvalidStatusTransition)
}

func TestSickLeaveService_CancelIsAdministratorOnly(t *testing.T) {
	d := setupSickServiceTest(t)
	resp := register(t, d, "2025-03-09", "2025-03-10")

	_, err := d.service.Cancel(context.Background(), operator(), resp.ID, "typo")
	assert.ErrorIs(t, err, sickleaveerrors.ErrCancelNotPermitted)

	expectTx(t, d.sqlMock, true)
	cancelled, err := d.service.Cancel(context.Background(), admin(), resp.ID, "typo")
	assert.NoError(t, err)
	assert.Equal(t, sickleave.StatusCancelled, cancelled.Status)
}

func TestSickLeaveService_ExtendAddsDaysWithoutStatusChange(t *testing.T) {
	d := setupSickServiceTest(t)
	resp := register(t, d, "2025-03-09", "2025-03-10")

	_, err := d.service.Extend(context.Background(), operator(), resp.ID, 0)
	assert.ErrorIs(t, err, sickleaveerrors.ErrNonPositiveDays)

	expectTx(t, d.sqlMock, true)
	extended, err := d.service.Extend(context.Background(), operator(), resp.ID, 3)
	assert.NoError(t, err)
	assert.Equal(t, sickleave.StatusActive, extended.Status)
	assert.Equal(t, "2025-03-13", extended.EndDate)
	assert.Equal(t, 5, extended.TotalDays)
	assert.Contains(t, d.tracker.actionsFor(resp.ID), tracking.ActionExtension)
}

func TestSickLeaveService_ObservationsAndDocuments(t *testing.T) {
	d := setupSickServiceTest(t)
	resp := register(t, d, "2025-03-09", "2025-03-10")

	err := d.service.AddObservation(context.Background(), operator(), resp.ID, "")
	assert.ErrorIs(t, err, sickleaveerrors.ErrNoteRequired)

	expectTx(t, d.sqlMock, true)
	assert.NoError(t, d.service.AddObservation(context.Background(), operator(), resp.ID, "patient recovering"))

	expectTx(t, d.sqlMock, true)
	assert.NoError(t, d.service.AddDocument(context.Background(), operator(), resp.ID, "cert-2025-0099"))

	actions := d.tracker.actionsFor(resp.ID)
	assert.Contains(t, actions, tracking.ActionObservation)
	assert.Contains(t, actions, tracking.ActionDocumentAdded)
}

func TestSickLeaveService_CreateFromLeaveRecordsConversion(t *testing.T) {
	d := setupSickServiceTest(t)

	sourceLeaveID := uuid.NewString()
	conv := leave.SickLeaveConversion{
		SourceLeaveID: sourceLeaveID,
		EmployeeID:    uuid.NewString(),
		SickType:      "COMMON_ILLNESS",
		StartDate:     time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
	}

	// Runs inside the leave engine's transaction, so no Begin/Commit here.
	id, err := d.service.CreateFromLeave(context.Background(), nil, admin(), conv)
	assert.NoError(t, err)
	assert.NotEmpty(t, id)

	stored, err := d.repo.FindByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, sickleave.StatusActive, stored.Status)
	assert.Equal(t, sourceLeaveID, stored.SourceLeaveID.String())

	assert.Equal(t, []string{
		tracking.ActionRegistration,
		tracking.ActionConvertedFromLeave,
	}, d.tracker.actionsFor(id))
	assert.Equal(t, []absenceCall{{kind: "enter", target: transition.EmployeeOnSickLeave}}, d.employees.calls)
}
