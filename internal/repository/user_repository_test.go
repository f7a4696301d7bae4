package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/awaazhq/awaaz-api/internal/models"
	"github.com/awaazhq/awaaz-api/internal/utils"
)

// setupMockUserRepo opens GORM over a sqlmock connection so tests can
// assert the exact SQL the repository issues against postgres.
func setupMockUserRepo(t *testing.T) (UserRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewUserRepository(db), mock
}

func TestFindByEmail_QueriesByEmail(t *testing.T) {
	repo, mock := setupMockUserRepo(t)

	rows := sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "role"}).
		AddRow(1, "amit", "amit@example.com", "hashed", "user")
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email`).
		WithArgs("amit@example.com", 1).
		WillReturnRows(rows)

	user, err := repo.FindByEmail("amit@example.com")
	require.NoError(t, err)
	require.Equal(t, "amit", user.Username)
	require.Equal(t, models.RoleUser, user.Role)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmail_NotFound(t *testing.T) {
	repo, mock := setupMockUserRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByEmail("nobody@example.com")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRole_NotFound(t *testing.T) {
	repo, mock := setupMockUserRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateRole(42, models.RoleAdmin)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_CountsAndPaginates(t *testing.T) {
	repo, mock := setupMockUserRepo(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))
	mock.ExpectQuery(`SELECT \* FROM "users".*LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).
			AddRow(1, "amit").
			AddRow(2, "priya"))

	users, total, err := repo.List(utils.PaginationParams{Page: 1, Limit: 10, Offset: 0})
	require.NoError(t, err)
	require.EqualValues(t, 25, total)
	require.Len(t, users, 2)

	require.NoError(t, mock.ExpectationsWereMet())
}
