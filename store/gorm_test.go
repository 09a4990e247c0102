package store

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/eventdesk/backend/apperr"
	"github.com/eventdesk/backend/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestGormUserStoreFindByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewGormUserStore(db)

	rows := sqlmock.NewRows([]string{"id", "email", "name", "password_hash", "role"}).
		AddRow(1, "a@x.com", "A", "$argon2id$...", "admin")
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WithArgs("a@x.com", 1).
		WillReturnRows(rows)

	user, err := s.FindByEmail("a@x.com")
	require.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserStoreFindByEmailNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewGormUserStore(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WithArgs("missing@x.com", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "password_hash", "role"}))

	_, err := s.FindByEmail("missing@x.com")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserStoreUpdateRoleNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewGormUserStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET "role"=\$1`).
		WithArgs("admin", 42).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := s.UpdateRole(42, models.RoleAdmin)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserStoreUpdateRole(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewGormUserStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET "role"=\$1`).
		WithArgs("normal", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, s.UpdateRole(7, models.RoleNormal))
	assert.NoError(t, mock.ExpectationsWereMet())
}
