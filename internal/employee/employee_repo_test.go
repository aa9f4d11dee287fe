package employee_test

import (
	"context"
	"testing"
	"time"

	"go-foresthr/internal/employee"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupEmployeeRepoTest(t *testing.T) (employee.Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)

	return employee.NewRepository(gdb), mock
}

// The absence tables hold DATE columns; coverage must hold for the whole
// of the range's last day, not just its midnight instant.
func TestEmployeeRepository_HasOpenAbsenceComparesWholeDays(t *testing.T) {
	repo, mock := setupEmployeeRepoTest(t)

	employeeID := uuid.NewString()
	at := time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC)
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "leaves"`).
		WithArgs(employeeID, "APPROVED", "APPROVED_PENDING_DOCUMENT", "APPROVED_IN_COMPENSATION", day, day).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	covered, err := repo.HasOpenAbsence(context.Background(), employeeID, at, nil, nil)
	assert.NoError(t, err)
	assert.True(t, covered)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_HasOpenAbsenceChecksSickLeavesWithSameDay(t *testing.T) {
	repo, mock := setupEmployeeRepoTest(t)

	employeeID := uuid.NewString()
	at := time.Date(2025, 6, 10, 23, 59, 0, 0, time.UTC)
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "leaves"`).
		WithArgs(employeeID, "APPROVED", "APPROVED_PENDING_DOCUMENT", "APPROVED_IN_COMPENSATION", day, day).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "sick_leaves"`).
		WithArgs(employeeID, "ACTIVE", day, day).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	covered, err := repo.HasOpenAbsence(context.Background(), employeeID, at, nil, nil)
	assert.NoError(t, err)
	assert.True(t, covered)
	assert.NoError(t, mock.ExpectationsWereMet())
}
