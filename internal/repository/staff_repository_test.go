package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStaffRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestStaffRepositoryListCandidates(t *testing.T) {
	db, mock, cleanup := newStaffRepoMock(t)
	defer cleanup()
	repo := NewStaffRepository(db)

	rows := sqlmock.NewRows([]string{"id", "school_id", "full_name", "email", "phone", "is_substitute", "is_flexible", "active", "created_at", "updated_at"}).
		AddRow("sub-1", "school-1", "Alice", "alice@example.com", nil, true, false, true, time.Now(), time.Now()).
		AddRow("flex-1", "school-1", "Frank", "frank@example.com", nil, false, true, true, time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM staff_members").
		WithArgs("school-1", true).
		WillReturnRows(rows)

	candidates, err := repo.ListCandidates(context.Background(), "school-1", true)
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStaffRepositoryQualifiedClassGroups(t *testing.T) {
	db, mock, cleanup := newStaffRepoMock(t)
	defer cleanup()
	repo := NewStaffRepository(db)

	rows := sqlmock.NewRows([]string{"class_group_id"}).AddRow("toddlers").AddRow("preschool")
	mock.ExpectQuery("SELECT class_group_id FROM staff_qualifications").
		WithArgs("sub-1").
		WillReturnRows(rows)

	groups, err := repo.QualifiedClassGroups(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"toddlers", "preschool"}, groups)
	assert.NoError(t, mock.ExpectationsWereMet())
}
