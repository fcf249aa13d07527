package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/acalderon/project-management-api/internal/authz"
	"github.com/acalderon/project-management-api/internal/database"
	"github.com/acalderon/project-management-api/internal/models"
	"github.com/acalderon/project-management-api/internal/repository"
	"github.com/acalderon/project-management-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type adminTestEnv struct {
	db      *gorm.DB
	handler *AdminHandler
}

func setupAdminTestEnv(t *testing.T) adminTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	adminService := services.NewAdminService(
		repository.NewUserRepository(db),
		repository.NewProjectRepository(db),
		repository.NewTaskRepository(db),
	)
	handler := NewAdminHandler(adminService)

	gin.SetMode(gin.TestMode)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return adminTestEnv{db: db, handler: handler}
}

func TestAdminHandler_GetStats(t *testing.T) {
	env := setupAdminTestEnv(t)
	user := createProjectTestUser(t, env.db, "user@example.com")
	admin := createProjectTestUser(t, env.db, "admin@example.com")

	require.NoError(t, env.db.Create(&models.Project{Name: "P", OwnerID: user.ID}).Error)
	require.NoError(t, env.db.Create(&models.Task{
		Title:     "T",
		Status:    models.TaskStatusPending,
		ProjectID: 1,
		CreatorID: user.ID,
	}).Error)

	c, w := projectTestContext(http.MethodGet, "/api/admin/stats", nil,
		authz.Actor{ID: admin.ID, Admin: true}, nil)

	env.handler.GetStats(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]services.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	stats := response["stats"]
	require.Equal(t, int64(1), stats.TotalProjects)
	require.Equal(t, int64(2), stats.TotalCollaborators)
	require.Equal(t, int64(1), stats.PendingTasks)
	require.Zero(t, stats.CompletedTasks)
}

func TestAdminHandler_ListUsers(t *testing.T) {
	env := setupAdminTestEnv(t)
	createProjectTestUser(t, env.db, "first@example.com")
	admin := createProjectTestUser(t, env.db, "admin@example.com")

	c, w := projectTestContext(http.MethodGet, "/api/admin/users", nil,
		authz.Actor{ID: admin.ID, Admin: true}, nil)

	env.handler.ListUsers(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Contains(t, response, "users")

	users := response["users"].([]interface{})
	require.Len(t, users, 2)

	first := users[0].(map[string]interface{})
	require.Contains(t, first, "projects_count")
	require.Contains(t, first, "tasks_count")
	require.NotContains(t, first, "password_hash")
}

func TestAdminHandler_ToggleUserActive_Self(t *testing.T) {
	env := setupAdminTestEnv(t)
	admin := createProjectTestUser(t, env.db, "admin@example.com")

	c, w := projectTestContext(http.MethodPatch, "/api/admin/users/1/toggle-active", nil,
		authz.Actor{ID: admin.ID, Admin: true}, gin.Params{{Key: "id", Value: "1"}})

	env.handler.ToggleUserActive(c)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAdminHandler_DeleteUser(t *testing.T) {
	env := setupAdminTestEnv(t)
	admin := createProjectTestUser(t, env.db, "admin@example.com")
	target := createProjectTestUser(t, env.db, "target@example.com")

	c, w := projectTestContext(http.MethodDelete, "/api/admin/users/2", nil,
		authz.Actor{ID: admin.ID, Admin: true}, gin.Params{{Key: "id", Value: "2"}})

	env.handler.DeleteUser(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "User deleted successfully", response["message"])

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", target.ID).Count(&count).Error)
	require.Zero(t, count)
}
