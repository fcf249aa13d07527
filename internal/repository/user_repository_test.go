package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/acalderon/project-management-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupMockDB wires GORM onto a sqlmock connection so the generated SQL can
// be asserted without a live database.
func setupMockDB(t *testing.T) (UserRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return NewUserRepository(db), mock
}

func TestCountAdmins_JoinsRoleTables(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" JOIN user_roles ON user_roles\.user_id = users\.id JOIN roles ON roles\.id = user_roles\.role_id WHERE roles\.slug = \$1`).
		WithArgs(models.RoleSlugAdmin).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountAdmins()
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountAssignedTasks_FiltersOnAssignee(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "tasks" WHERE assigned_to = \$1`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountAssignedTasks(7)
	require.NoError(t, err)
	require.Equal(t, int64(3), count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByIDs_EmptySliceSkipsQuery(t *testing.T) {
	repo, mock := setupMockDB(t)

	count, err := repo.CountByIDs(nil)
	require.NoError(t, err)
	require.Zero(t, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetActive_UpdatesFlag(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET "is_active"=\$1,"updated_at"=\$2 WHERE id = \$3`).
		WithArgs(false, sqlmock.AnyArg(), uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.SetActive(5, false))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_RemovesLinksInTransaction(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM user_roles WHERE user_id = \$1`).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "project_members" WHERE user_id = \$1`).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "users" WHERE "users"\."id" = \$1`).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(5))
	require.NoError(t, mock.ExpectationsWereMet())
}
