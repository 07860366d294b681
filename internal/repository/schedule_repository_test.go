package repository

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScheduleRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestScheduleRepositoryFindClassroomForSlot(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery("SELECT classroom_id FROM teaching_slots").
		WithArgs("teacher-1", "mon", "slot-1").
		WillReturnRows(sqlmock.NewRows([]string{"classroom_id"}).AddRow("room-3"))

	classroom, err := repo.FindClassroomForSlot(context.Background(), "teacher-1", "mon", "slot-1")
	require.NoError(t, err)
	require.NotNil(t, classroom)
	assert.Equal(t, "room-3", *classroom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryFindClassroomForSlotNoRows(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery("SELECT classroom_id FROM teaching_slots").
		WithArgs("teacher-1", "sat", "slot-1").
		WillReturnError(sql.ErrNoRows)

	classroom, err := repo.FindClassroomForSlot(context.Background(), "teacher-1", "sat", "slot-1")
	require.NoError(t, err)
	assert.Nil(t, classroom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
