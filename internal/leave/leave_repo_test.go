package leave_test

import (
	"context"
	"testing"

	"go-foresthr/internal/leave"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestLeaveRepository_FindByIDForUpdateTakesRowLock(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)
	repo := leave.NewRepository(gdb)

	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "leaves" WHERE id = \$1(.|\n)*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).
			AddRow(id.String(), leave.StatusPending))

	l, err := repo.FindByIDForUpdate(context.Background(), id.String())
	assert.NoError(t, err)
	assert.Equal(t, leave.StatusPending, l.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
