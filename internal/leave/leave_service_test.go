package leave_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-foresthr/internal/identity"
	"go-foresthr/internal/leave"
	leaveerrors "go-foresthr/internal/leave/errors"
	"go-foresthr/internal/leavetype"
	"go-foresthr/internal/shared/clock"
	"go-foresthr/internal/tracking"
	"go-foresthr/internal/transition"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeLeaveRepository struct {
	stored []*leave.Leave
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository { return f }

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.Leave) error {
	copied := *l
	f.stored = append(f.stored, &copied)
	return nil
}

func (f *fakeLeaveRepository) FindAll(ctx context.Context) ([]leave.Leave, error) {
	out := make([]leave.Leave, 0, len(f.stored))
	for _, l := range f.stored {
		out = append(out, *l)
	}
	return out, nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.Leave, error) {
	for _, l := range f.stored {
		if l.ID.String() == id {
			copied := *l
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) FindByIDForUpdate(ctx context.Context, id string) (*leave.Leave, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeLeaveRepository) FindByEmployee(ctx context.Context, employeeID string) ([]leave.Leave, error) {
	var out []leave.Leave
	for _, l := range f.stored {
		if l.EmployeeID.String() == employeeID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeLeaveRepository) Update(ctx context.Context, l *leave.Leave) error {
	for i, existing := range f.stored {
		if existing.ID == l.ID {
			copied := *l
			f.stored[i] = &copied
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	for _, l := range f.stored {
		if l.EmployeeID.String() != employeeID {
			continue
		}
		if excludeID != nil && l.ID.String() == *excludeID {
			continue
		}
		open := false
		for _, s := range leave.OpenStatuses {
			if l.Status == s {
				open = true
				break
			}
		}
		if !open {
			continue
		}
		if !l.StartDate.After(endDate) && !l.EndDate.Before(startDate) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLeaveRepository) FindDocumentOverdue(ctx context.Context, now time.Time) ([]leave.Leave, error) {
	var out []leave.Leave
	for _, l := range f.stored {
		if l.Status == leave.StatusApprovedPendingDocument && l.DocumentDeadline != nil && l.DocumentDeadline.Before(now) {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeLeaveRepository) FindCompensationOverdue(ctx context.Context, now time.Time) ([]leave.Leave, error) {
	var out []leave.Leave
	for _, l := range f.stored {
		owed := 0
		if l.CompensationHoursOwed != nil {
			owed = *l.CompensationHoursOwed
		}
		if l.Status == leave.StatusApprovedInCompensation && l.CompensationDeadline != nil &&
			l.CompensationDeadline.Before(now) && l.CompensationHoursCompleted < owed {
			out = append(out, *l)
		}
	}
	return out, nil
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

type fakeTypeRepository struct {
	types map[string]*leavetype.LeaveType
}

func (f *fakeTypeRepository) Create(ctx context.Context, lt *leavetype.LeaveType) error {
	if f.types == nil {
		f.types = map[string]*leavetype.LeaveType{}
	}
	f.types[lt.ID.String()] = lt
	return nil
}

func (f *fakeTypeRepository) FindAll(ctx context.Context) ([]leavetype.LeaveType, error) {
	var out []leavetype.LeaveType
	for _, lt := range f.types {
		out = append(out, *lt)
	}
	return out, nil
}

func (f *fakeTypeRepository) FindByID(ctx context.Context, id string) (*leavetype.LeaveType, error) {
	if lt, ok := f.types[id]; ok {
		return lt, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTypeRepository) FindByCode(ctx context.Context, code string) (*leavetype.LeaveType, error) {
	for _, lt := range f.types {
		if lt.Code == code {
			return lt, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTypeRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(f.types)), nil
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

type fakeSickGateway struct {
	created []leave.SickLeaveConversion
	id      string
}

func (f *fakeSickGateway) CreateFromLeave(ctx context.Context, tx *sql.Tx, actor identity.Actor, conv leave.SickLeaveConversion) (string, error) {
	f.created = append(f.created, conv)
	if f.id == "" {
		f.id = uuid.NewString()
	}
	return f.id, nil
}

type leaveServiceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   leave.Service
	repo      *fakeLeaveRepository
	tracker   *fakeTrackingRepository
	types     *fakeTypeRepository
	employees *fakeEmployeeGateway
	sick      *fakeSickGateway
	clk       clock.Clock
}

var testNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := &fakeLeaveRepository{}
	tracker := &fakeTrackingRepository{}
	types := &fakeTypeRepository{types: map[string]*leavetype.LeaveType{}}
	employees := &fakeEmployeeGateway{}
	sick := &fakeSickGateway{}
	clk := clock.Fixed(testNow)

	svc := leave.NewService(db, repo, types, tracker, employees, sick, nil, nil, clk)

	return &leaveServiceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		tracker:   tracker,
		types:     types,
		employees: employees,
		sick:      sick,
		clk:       clk,
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

func addLeaveType(d *leaveServiceDeps, lt leavetype.LeaveType) string {
	if lt.ID == uuid.Nil {
		lt.ID = uuid.New()
	}
	if lt.HoursToCompensatePerDay == 0 {
		lt.HoursToCompensatePerDay = 8
	}
	if lt.AbsenceStatus == "" {
		lt.AbsenceStatus = transition.EmployeeOnLeave
	}
	d.types.types[lt.ID.String()] = &lt
	return lt.ID.String()
}

func submitLeave(t *testing.T, d *leaveServiceDeps, employeeID, typeID, start, end string) leave.LeaveResponse {
	t.Helper()
	expectTx(t, d.sqlMock, true)
	resp, err := d.service.Submit(context.Background(), operator(), leave.SubmitLeaveRequest{
		EmployeeID:  employeeID,
		LeaveTypeID: typeID,
		StartDate:   start,
		EndDate:     end,
		Reason:      "family matters",
	})
	assert.NoError(t, err)
	return resp
}

func operator() identity.Actor {
	return identity.Actor{ID: uuid.NewString(), Role: transition.RoleOperator}
}

func approver() identity.Actor {
	return identity.Actor{ID: uuid.NewString(), Role: transition.RoleApprover}
}

func TestLeaveService_SubmitRejectsInvertedRange(t *testing.T) {
	d := setupLeaveServiceTest(t)
	typeID := addLeaveType(d, leavetype.LeaveType{Code: "ANNUAL_VACATION", DefaultResolutionType: leavetype.ResolutionPaid})

	_, err := d.service.Submit(context.Background(), operator(), leave.SubmitLeaveRequest{
		EmployeeID:  uuid.NewString(),
		LeaveTypeID: typeID,
		StartDate:   "2025-06-15",
		EndDate:     "2025-06-11",
	})
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
}

func TestLeaveService_SubmitComputesInclusiveDays(t *testing.T) {
	d := setupLeaveServiceTest(t)
	typeID := addLeaveType(d, leavetype.LeaveType{Code: "ANNUAL_VACATION", DefaultResolutionType: leavetype.ResolutionPaid})

	resp := submitLeave(t, d, uuid.NewString(), typeID, "2025-06-01", "2025-06-10")

	assert.Equal(t, leave.StatusPending, resp.Status)
	assert.Equal(t, 10, resp.TotalDays)
	assert.Equal(t, leavetype.ResolutionPendingDefinition, resp.ResolutionType)
	assert.Equal(t, []string{tracking.ActionSubmitted}, d.tracker.actionsFor(resp.ID))
}

func TestLeaveService_SubmitOverlapBoundaries(t *testing.T) {
	d := setupLeaveServiceTest(t)
	typeID := addLeaveType(d, leavetype.LeaveType{Code: "ANNUAL_VACATION", DefaultResolutionType: leavetype.ResolutionPaid})
	employeeID := uuid.NewString()

	submitLeave(t, d, employeeID, typeID, "2025-06-01", "2025-06-10")

	// Sharing the boundary day is still an overlap.
	expectTx(t, d.sqlMock, false)
	_, err := d.service.Submit(context.Background(), operator(), leave.SubmitLeaveRequest{
		EmployeeID:  employeeID,
		LeaveTypeID: typeID,
		StartDate:   "2025-06-10",
		EndDate:     "2025-06-15",
	})
	assert.ErrorIs(t, err, leaveerrors.ErrLeaveOverlap)

	// The next day is free.
	resp := submitLeave(t, d, employeeID, typeID, "2025-06-11", "2025-06-15")
	assert.Equal(t, leave.StatusPending, resp.Status)
}

func TestLeaveService_ApproveDeniedForOperator(t *testing.T) {
	d := setupLeaveServiceTest(t)
	typeID := addLeaveType(d, leavetype.LeaveType{Code: "ANNUAL_VACATION", DefaultResolutionType: leavetype.ResolutionPaid})
	resp := submitLeave(t, d, uuid.NewString(), typeID, "2025-07-01", "2025-07-05")

	_, err := d.service.Approve(context.Background(), operator(), resp.ID, nil)
	assert.ErrorIs(t, err, leaveerrors.ErrApprovalNotPermitted)
	assert.Len(t, d.tracker.actionsFor(resp.ID), 1)
}

func TestLeaveService_ApproveDocumentTypeSetsExactDeadline(t *testing.T) {
	d := setupLeaveServiceTest(t)
	typeID := addLeaveType(d, leavetype.LeaveType{
		Code:                  "MEDICAL_APPOINTMENT",
		DefaultResolutionType: leavetype.ResolutionPaid,
		RequiresDocument:      true,
		DocumentDeadlineDays:  3,
	})
	resp := submitLeave(t, d, uuid.NewString(), typeID, "2025-07-01", "2025-07-01")

	expectTx(t, d.sqlMock, true)
	approved, err := d.service.Approve(context.Background(), approver(), resp.ID, nil)
	assert.NoError(t, err)

	assert.Equal(t, leave.StatusApprovedPendingDocument, approved.Status)
	assert.NotNil(t, approved.DocumentDeadline)
	want := testNow.AddDate(0, 0, 3).Format(time.RFC3339)
	assert.Equal(t, want, *approved.DocumentDeadline)
}

func TestLeaveService_DoubleApproveFailsWithoutExtraLedgerEntry(t *testing.T) {
	d := setupLeaveServiceTest(t)
	typeID := addLeaveType(d, leavetype.LeaveType{
		Code:                  "MEDICAL_APPOINTMENT",
		DefaultResolutionType: leavetype.ResolutionPaid,
		RequiresDocument:      true,
		DocumentDeadlineDays:  3,
	})
	resp := submitLeave(t, d, uuid.NewString(), typeID, "2025-07-01", "2025-07-01")

	expectTx(t, d.sqlMock, true)
	_, err := d.service.Approve(context.Background(), approver(), resp.ID, nil)
	assert.NoError(t, err)

	entriesAfterFirst := len(d.tracker.actionsFor(resp.ID))

	expectTx(t, d.sqlMock, false)
	_, err = d.service.Approve(context.Background(), approver(), resp.ID, nil)
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
	assert.Len(t, d.tracker.actionsFor(resp.ID), entriesAfterFirst)
}

func TestLeaveService_ImmediateCompletionDrivesEmployeeRoundTrip(t *testing.T) {
	d := setupLeaveServiceTest(t)
	typeID := addLeaveType(d, leavetype.LeaveType{
		Code:                  "PERSONAL_PERMIT",
		DefaultResolutionType: leavetype.ResolutionPaid,
		AbsenceStatus:         transition.EmployeeOnLeave,
	})
	// One day covering the clock's today.
	resp := submitLeave(t, d, uuid.NewString(), typeID, "2025-03-10", "2025-03-10")

	expectTx(t, d.sqlMock, true)
	approved, err := d.service.Approve(context.Background(), approver(), resp.ID, nil)
	assert.NoError(t, err)

	assert.Equal(t, leave.StatusCompleted, approved.Status)
	assert.Equal(t, leavetype.ResolutionPaid, approved.ResolutionType)
	assert.Equal(t, []absenceCall{
		{kind: "enter", target: transition.EmployeeOnLeave},
		{kind: "exit"},
	}, d.employees.calls)
}

func TestLeaveService_ApproveFutureLeaveLeavesEmployeeAlone(t *testing.T) {
	d := setupLeaveServiceTest(t)
	typeID := addLeaveType(d, leavetype.LeaveType{
		Code:                  "PERSONAL_PERMIT",
		DefaultResolutionType: leavetype.ResolutionPaid,
	})
	resp := submitLeave(t, d, uuid.NewString(), typeID, "2025-08-01", "2025-08-02")

	expectTx(t, d.sqlMock, true)
	_, err := d.service.Approve(context.Background(), approver(), resp.ID, nil)
	assert.NoError(t, err)
	assert.Empty(t, d.employees.calls)
}

func TestLeaveService_ApproveDeductedTypeRecordsDiscount(t *testing.T) {
	d := setupLeaveServiceTest(t)
	typeID := addLeaveType(d, leavetype.LeaveType{
		Code:                  "UNPAID_PERMIT",
		DefaultResolutionType: leavetype.ResolutionDeducted,
		GeneratesDiscount:     true,
		DiscountPercentage:    100,
	})
	resp := submitLeave(t, d, uuid.NewString(), typeID, "2025-07-01", "2025-07-04")

	expectTx(t, d.sqlMock, true)
	approved, err := d.service.Approve(context.Background(), approver(), resp.ID, nil)
	assert.NoError(t, err)

	assert.Equal(t, leave.StatusCompleted, approved.Status)
	assert.NotNil(t, approved.DiscountAmount)
	assert.Equal(t, 4.0, *approved.DiscountAmount)
	assert.NotNil(t, approved.DiscountPeriod)
	assert.Equal(t, "2025-07", *approved.DiscountPeriod)
}

func TestLeaveService_RejectRequiresReason(t *testing.T) {
	d := setupLeaveServiceTest(t)
	typeID := addLeaveType(d, leavetype.LeaveType{Code: "ANNUAL_VACATION", DefaultResolutionType: leavetype.ResolutionPaid})
	resp := submitLeave(t, d, uuid.NewString(), typeID, "2025-07-01", "2025-07-05")

	_, err := d.service.Reject(context.Background(), approver(), resp.ID, "")
	assert.ErrorIs(t, err, leaveerrors.ErrReasonRequired)

	expectTx(t, d.sqlMock, true)
	rejected, err := d.service.Reject(context.Background(), approver(), resp.ID, "period already staffed")
	assert.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, rejected.Status)
	assert.Equal(t, "period already staffed", *rejected.RejectionReason)
}

func TestLeaveService_DeliverDocumentBeforeDeadlineCompletes(t *testing.T) {
	d := setupLeaveServiceTest(t)
	typeID := addLeaveType(d, leavetype.LeaveType{
		Code:                  "MEDICAL_APPOINTMENT",
		DefaultResolutionType: leavetype.ResolutionPaid,
		RequiresDocument:      true,
		DocumentDeadlineDays:  3,
	})
	resp := submitLeave(t, d, uuid.NewString(), typeID, "2025-07-01", "2025-07-01")

	expectTx(t, d.sqlMock, true)
	_, err := d.service.Approve(context.Background(), approver(), resp.ID, nil)
	assert.NoError(t, err)

	expectTx(t, d.sqlMock, true)
	done, err := d.service.DeliverDocument(context.Background(), operator(), resp.ID, "cert-2025-0042")
	assert.NoError(t, err)
	assert.Equal(t, leave.StatusCompleted, done.Status)
	assert.Equal(t, "cert-2025-0042", *done.DocumentRef)
	assert.Contains(t, d.tracker.actionsFor(resp.ID), tracking.ActionDocumentDelivered)
}

func TestLeaveService_DeliverDocumentAfterDeadlineFails(t *testing.T) {
	d := setupLeaveServiceTest(t)
	typeID := addLeaveType(d, leavetype.LeaveType{
		Code:                  "MEDICAL_APPOINTMENT",
		DefaultResolutionType: leavetype.ResolutionPaid,
		RequiresDocument:      true,
		DocumentDeadlineDays:  3,
	})
	resp := submitLeave(t, d, uuid.NewString(), typeID, "2025-07-01", "2025-07-01")

	expectTx(t, d.sqlMock, true)
	_, err := d.service.Approve(context.Background(), approver(), resp.ID, nil)
	assert.NoError(t, err)

	// Move the deadline behind the clock.
	stored, err := d.repo.FindByID(context.Background(), resp.ID)
	assert.NoError(t, err)
	past := testNow.AddDate(0, 0, -1)
	stored.DocumentDeadline = &past
	assert.NoError(t, d.repo.Update(context.Background(), stored))

	expectTx(t, d.sqlMock, false)
	_, err = d.service.DeliverDocument(context.Background(), operator(), resp.ID, "cert-late")
	assert.ErrorIs(t, err, leaveerrors.ErrDocumentDeadlinePassed)
}

func TestLeaveService_CompensationHoursAccumulateToExactCompletion(t *testing.T) {
	d := setupLeaveServiceTest(t)
	typeID := addLeaveType(d, leavetype.LeaveType{
		Code:                     "UNPAID_PERMIT",
		DefaultResolutionType:    leavetype.ResolutionCompensated,
		CompensationDeadlineDays: 30,
		HoursToCompensatePerDay:  8,
	})
	resp := submitLeave(t, d, uuid.NewString(), typeID, "2025-07-01", "2025-07-02")

	expectTx(t, d.sqlMock, true)
	approved, err := d.service.Approve(context.Background(), approver(), resp.ID, nil)
	assert.NoError(t, err)
	assert.Equal(t, leave.StatusApprovedInCompensation, approved.Status)
	assert.Equal(t, 16, *approved.CompensationHoursOwed)

	_, err = d.service.RegisterCompensationHours(context.Background(), operator(), resp.ID, 0)
	assert.ErrorIs(t, err, leaveerrors.ErrNonPositiveHours)

	expectTx(t, d.sqlMock, true)
	partial, err := d.service.RegisterCompensationHours(context.Background(), operator(), resp.ID, 8)
	assert.NoError(t, err)
	assert.Equal(t, leave.StatusApprovedInCompensation, partial.Status)
	assert.Equal(t, 8, partial.CompensationHoursCompleted)

	expectTx(t, d.sqlMock, true)
	full, err := d.service.RegisterCompensationHours(context.Background(), operator(), resp.ID, 8)
	assert.NoError(t, err)
	assert.Equal(t, leave.StatusCompleted, full.Status)
	assert.Equal(t, 16, full.CompensationHoursCompleted)
}

func TestLeaveService_ChangeResolutionAfterCompletedFails(t *testing.T) {
	d := setupLeaveServiceTest(t)
	typeID := addLeaveType(d, leavetype.LeaveType{
		Code:                  "PERSONAL_PERMIT",
		DefaultResolutionType: leavetype.ResolutionPaid,
	})
	resp := submitLeave(t, d, uuid.NewString(), typeID, "2025-08-01", "2025-08-01")

	expectTx(t, d.sqlMock, true)
	approved, err := d.service.Approve(context.Background(), approver(), resp.ID, nil)
	assert.NoError(t, err)
	assert.Equal(t, leave.StatusCompleted, approved.Status)

	expectTx(t, d.sqlMock, false)
	_, err = d.service.ChangeResolution(context.Background(), approver(), resp.ID, leavetype.ResolutionDeducted)
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
}

func TestLeaveService_ChangeResolutionRederivesCompensation(t *testing.T) {
	d := setupLeaveServiceTest(t)
	typeID := addLeaveType(d, leavetype.LeaveType{
		Code:                     "UNPAID_PERMIT",
		DefaultResolutionType:    leavetype.ResolutionCompensated,
		CompensationDeadlineDays: 30,
		HoursToCompensatePerDay:  8,
	})
	resp := submitLeave(t, d, uuid.NewString(), typeID, "2025-08-01", "2025-08-02")

	expectTx(t, d.sqlMock, true)
	approved, err := d.service.Approve(context.Background(), approver(), resp.ID, nil)
	assert.NoError(t, err)
	assert.Equal(t, leave.StatusApprovedInCompensation, approved.Status)

	// Settling as paid removes the remaining obligation.
	expectTx(t, d.sqlMock, true)
	changed, err := d.service.ChangeResolution(context.Background(), approver(), resp.ID, leavetype.ResolutionPaid)
	assert.NoError(t, err)
	assert.Equal(t, leave.StatusCompleted, changed.Status)
	assert.Equal(t, leavetype.ResolutionPaid, changed.ResolutionType)
	assert.Nil(t, changed.CompensationHoursOwed)
	assert.Nil(t, changed.CompensationDeadline)
	assert.Contains(t, d.tracker.actionsFor(resp.ID), tracking.ActionResolutionChange)
}

func TestLeaveService_ConvertToSickLeave(t *testing.T) {
	d := setupLeaveServiceTest(t)
	typeID := addLeaveType(d, leavetype.LeaveType{
		Code:                  "ANNUAL_VACATION",
		DefaultResolutionType: leavetype.ResolutionPaid,
	})
	resp := submitLeave(t, d, uuid.NewString(), typeID, "2025-03-09", "2025-03-12")

	expectTx(t, d.sqlMock, true)
	conv, err := d.service.ConvertToSickLeave(context.Background(), operator(), resp.ID, "COMMON_ILLNESS")
	assert.NoError(t, err)

	assert.Equal(t, leave.StatusCancelled, conv.LeaveStatus)
	assert.NotEmpty(t, conv.SickLeaveID)
	assert.Len(t, d.sick.created, 1)
	assert.Equal(t, resp.ID, d.sick.created[0].SourceLeaveID)
	assert.Equal(t, "COMMON_ILLNESS", d.sick.created[0].SickType)

	// The cancelled leave is terminal now.
	expectTx(t, d.sqlMock, false)
	_, err = d.service.ConvertToSickLeave(context.Background(), operator(), resp.ID, "COMMON_ILLNESS")
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
}

func TestLeaveService_CancelTerminalFails(t *testing.T) {
	d := setupLeaveServiceTest(t)
	typeID := addLeaveType(d, leavetype.LeaveType{Code: "ANNUAL_VACATION", DefaultResolutionType: leavetype.ResolutionPaid})
	resp := submitLeave(t, d, uuid.NewString(), typeID, "2025-07-01", "2025-07-05")

	expectTx(t, d.sqlMock, true)
	_, err := d.service.Reject(context.Background(), approver(), resp.ID, "not approved")
	assert.NoError(t, err)

	expectTx(t, d.sqlMock, false)
	_, err = d.service.Cancel(context.Background(), operator(), resp.ID, "changed my mind")
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
}
