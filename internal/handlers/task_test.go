package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/acalderon/project-management-api/internal/authz"
	"github.com/acalderon/project-management-api/internal/constants"
	"github.com/acalderon/project-management-api/internal/database"
	"github.com/acalderon/project-management-api/internal/dto"
	"github.com/acalderon/project-management-api/internal/models"
	"github.com/acalderon/project-management-api/internal/repository"
	"github.com/acalderon/project-management-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *TaskHandler
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	// Run migrations
	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	// Set the test DB as the default database
	database.SetDB(suite.db)

	taskService := services.NewTaskService(
		repository.NewTaskRepository(suite.db),
		repository.NewProjectRepository(suite.db),
		repository.NewUserRepository(suite.db),
	)
	suite.handler = NewTaskHandler(taskService)

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper functions to create test data
func (suite *TaskHandlerTestSuite) createTestUser(email string) *models.User {
	user := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "hashedpassword",
		IsActive:     true,
	}
	suite.db.Create(user)
	return user
}

func (suite *TaskHandlerTestSuite) createTestProject(ownerID uint64) *models.Project {
	project := &models.Project{
		Name:    "Test Project",
		OwnerID: ownerID,
	}
	suite.db.Create(project)
	suite.db.Create(&models.ProjectMember{ProjectID: project.ID, UserID: ownerID})
	return project
}

func (suite *TaskHandlerTestSuite) createTestTask(title string, projectID, creatorID uint64) *models.Task {
	task := &models.Task{
		Title:     title,
		Status:    models.TaskStatusPending,
		ProjectID: projectID,
		CreatorID: creatorID,
	}
	suite.db.Create(task)
	return task
}

// Helper function to create an authenticated context with route params
func (suite *TaskHandlerTestSuite) createAuthContext(method, url string, body []byte, actor authz.Actor, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = params
	c.Set(constants.ContextKeyUserID, actor.ID)
	c.Set(constants.ContextKeyActor, actor)

	return c, w
}

func taskParams(projectID, taskID string) gin.Params {
	params := gin.Params{{Key: "id", Value: projectID}}
	if taskID != "" {
		params = append(params, gin.Param{Key: "task_id", Value: taskID})
	}
	return params
}

// TestListTasks_Success tests successful task listing
func (suite *TaskHandlerTestSuite) TestListTasks_Success() {
	user := suite.createTestUser("test@example.com")
	project := suite.createTestProject(user.ID)
	task := suite.createTestTask("Test Task", project.ID, user.ID)

	c, w := suite.createAuthContext("GET", "/api/projects/1/tasks", nil,
		authz.Actor{ID: user.ID}, taskParams("1", ""))

	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), response, "tasks")
	assert.Contains(suite.T(), response, "pagination")

	tasks := response["tasks"].([]interface{})
	assert.Len(suite.T(), tasks, 1)

	firstTask := tasks[0].(map[string]interface{})
	assert.Equal(suite.T(), task.Title, firstTask["title"])
}

// TestListTasks_Unauthorized tests listing without authentication
func (suite *TaskHandlerTestSuite) TestListTasks_Unauthorized() {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/projects/1/tasks", nil)
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = taskParams("1", "")

	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestListTasks_NotProjectMember tests listing by a user outside the project
func (suite *TaskHandlerTestSuite) TestListTasks_NotProjectMember() {
	owner := suite.createTestUser("owner@example.com")
	stranger := suite.createTestUser("stranger@example.com")
	suite.createTestProject(owner.ID)

	c, w := suite.createAuthContext("GET", "/api/projects/1/tasks", nil,
		authz.Actor{ID: stranger.ID}, taskParams("1", ""))

	suite.handler.ListTasks(c)

	// Hidden projects look like missing projects
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestGetTask_Success tests successful task retrieval
func (suite *TaskHandlerTestSuite) TestGetTask_Success() {
	user := suite.createTestUser("test@example.com")
	project := suite.createTestProject(user.ID)
	task := suite.createTestTask("Test Task", project.ID, user.ID)

	c, w := suite.createAuthContext("GET", "/api/projects/1/tasks/1", nil,
		authz.Actor{ID: user.ID}, taskParams("1", "1"))

	suite.handler.GetTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), task.ID, response.ID)
	assert.Equal(suite.T(), task.Title, response.Title)
	assert.NotNil(suite.T(), response.Creator)
}

// TestGetTask_WrongProject tests retrieval through the wrong project
func (suite *TaskHandlerTestSuite) TestGetTask_WrongProject() {
	user := suite.createTestUser("test@example.com")
	projectA := suite.createTestProject(user.ID)
	suite.createTestProject(user.ID)
	suite.createTestTask("Test Task", projectA.ID, user.ID)

	c, w := suite.createAuthContext("GET", "/api/projects/2/tasks/1", nil,
		authz.Actor{ID: user.ID}, taskParams("2", "1"))

	suite.handler.GetTask(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestCreateTask_Success tests successful task creation
func (suite *TaskHandlerTestSuite) TestCreateTask_Success() {
	user := suite.createTestUser("test@example.com")
	suite.createTestProject(user.ID)

	requestBody := map[string]interface{}{
		"title":       "New Task",
		"description": "Task Description",
		"status":      "pending",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/projects/1/tasks", body,
		authz.Actor{ID: user.ID}, taskParams("1", ""))

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.TaskDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "New Task", response.Title)
	assert.Equal(suite.T(), user.ID, response.CreatorID)
}

// TestCreateTask_InvalidRequest tests task creation with a missing title
func (suite *TaskHandlerTestSuite) TestCreateTask_InvalidRequest() {
	user := suite.createTestUser("test@example.com")
	suite.createTestProject(user.ID)

	requestBody := map[string]interface{}{
		"status": "pending",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/projects/1/tasks", body,
		authz.Actor{ID: user.ID}, taskParams("1", ""))

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCreateTask_PastDueDate tests task creation with a due date in the past
func (suite *TaskHandlerTestSuite) TestCreateTask_PastDueDate() {
	user := suite.createTestUser("test@example.com")
	suite.createTestProject(user.ID)

	requestBody := map[string]interface{}{
		"title":    "Late Task",
		"status":   "pending",
		"due_date": time.Now().Add(-48 * time.Hour).Format(time.RFC3339),
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/projects/1/tasks", body,
		authz.Actor{ID: user.ID}, taskParams("1", ""))

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestUpdateTask_CompleteRequiresComment tests completing without a comment
func (suite *TaskHandlerTestSuite) TestUpdateTask_CompleteRequiresComment() {
	user := suite.createTestUser("test@example.com")
	project := suite.createTestProject(user.ID)
	suite.createTestTask("Test Task", project.ID, user.ID)

	requestBody := map[string]interface{}{
		"status": "completed",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("PATCH", "/api/projects/1/tasks/1", body,
		authz.Actor{ID: user.ID}, taskParams("1", "1"))

	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestUpdateTask_CompleteSuccess tests completing with a comment
func (suite *TaskHandlerTestSuite) TestUpdateTask_CompleteSuccess() {
	user := suite.createTestUser("test@example.com")
	project := suite.createTestProject(user.ID)
	suite.createTestTask("Test Task", project.ID, user.ID)

	requestBody := map[string]interface{}{
		"status":             "completed",
		"completion_comment": "all done",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("PATCH", "/api/projects/1/tasks/1", body,
		authz.Actor{ID: user.ID}, taskParams("1", "1"))

	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.TaskStatusCompleted, response.Status)
	assert.NotNil(suite.T(), response.CompletedAt)
	assert.NotNil(suite.T(), response.CompletedBy)
	assert.Equal(suite.T(), user.ID, *response.CompletedBy)
	assert.Equal(suite.T(), "all done", *response.CompletionComment)
}

// TestUpdateTask_NullDueDate tests updating due_date to null
func (suite *TaskHandlerTestSuite) TestUpdateTask_NullDueDate() {
	user := suite.createTestUser("test@example.com")
	project := suite.createTestProject(user.ID)
	task := suite.createTestTask("Task with Due Date", project.ID, user.ID)
	dueDate := time.Now().Add(24 * time.Hour)
	suite.db.Model(task).Update("due_date", dueDate)

	requestBody := map[string]interface{}{
		"due_date": nil,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("PATCH", "/api/projects/1/tasks/1", body,
		authz.Actor{ID: user.ID}, taskParams("1", "1"))

	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), response.DueDate)
}

// TestUpdateTask_AssigneeIgnoredForNonAdmin tests that a non-admin cannot
// change the assignee
func (suite *TaskHandlerTestSuite) TestUpdateTask_AssigneeIgnoredForNonAdmin() {
	user := suite.createTestUser("test@example.com")
	other := suite.createTestUser("other@example.com")
	project := suite.createTestProject(user.ID)
	suite.createTestTask("Test Task", project.ID, user.ID)

	requestBody := map[string]interface{}{
		"assigned_to": other.ID,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("PATCH", "/api/projects/1/tasks/1", body,
		authz.Actor{ID: user.ID}, taskParams("1", "1"))

	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), response.AssignedTo)
}

// TestUpdateTask_InvalidRequest tests task update with malformed JSON
func (suite *TaskHandlerTestSuite) TestUpdateTask_InvalidRequest() {
	user := suite.createTestUser("test@example.com")
	project := suite.createTestProject(user.ID)
	suite.createTestTask("Test Task", project.ID, user.ID)

	c, w := suite.createAuthContext("PATCH", "/api/projects/1/tasks/1", []byte("invalid json"),
		authz.Actor{ID: user.ID}, taskParams("1", "1"))

	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestDeleteTask_NonAdminForbidden tests task deletion by a non-admin
func (suite *TaskHandlerTestSuite) TestDeleteTask_NonAdminForbidden() {
	user := suite.createTestUser("test@example.com")
	project := suite.createTestProject(user.ID)
	suite.createTestTask("Task to Delete", project.ID, user.ID)

	c, w := suite.createAuthContext("DELETE", "/api/projects/1/tasks/1", nil,
		authz.Actor{ID: user.ID}, taskParams("1", "1"))

	suite.handler.DeleteTask(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestDeleteTask_AdminSuccess tests task deletion by an admin
func (suite *TaskHandlerTestSuite) TestDeleteTask_AdminSuccess() {
	user := suite.createTestUser("test@example.com")
	admin := suite.createTestUser("admin@example.com")
	project := suite.createTestProject(user.ID)
	task := suite.createTestTask("Task to Delete", project.ID, user.ID)

	c, w := suite.createAuthContext("DELETE", "/api/projects/1/tasks/1", nil,
		authz.Actor{ID: admin.ID, Admin: true}, taskParams("1", "1"))

	suite.handler.DeleteTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Task deleted successfully", response["message"])

	// Verify task is deleted
	var count int64
	suite.db.Model(&models.Task{}).Where("id = ?", task.ID).Count(&count)
	assert.Zero(suite.T(), count)
}

// TestSuite runs the test suite
func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
