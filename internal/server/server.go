package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"taskboard/internal/domain/errors"
	"taskboard/internal/domain/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.UserSummary, error)
}

type TaskRepository interface {
	CreateTask(ctx context.Context, task *models.Task) error
	GetTasks(ctx context.Context) ([]models.Task, error)
	SetTaskState(ctx context.Context, id int64, state string) error
	DeleteTask(ctx context.Context, id int64) error
}

// Board column states. Transitions are unconditional: any state is
// reachable from any other.
const (
	StateBacklog    = "backlog"
	StateToDo       = "to-do"
	StateInProgress = "inProgress"
	StateTesting    = "testing"
	StateDone       = "done"
)

var taskStates = []string{StateToDo, StateInProgress, StateTesting, StateDone, StateBacklog}

type TaskBoardAPI struct {
	httpSrv *http.Server
	users   UserRepository
	tasks   TaskRepository
}

func NewTaskBoardAPI(users UserRepository, tasks TaskRepository, cfg *Config) *TaskBoardAPI {
	if users == nil || tasks == nil {
		return nil
	}

	addr := ""
	if cfg != nil {
		port := cfg.Port
		if port == 0 {
			port = defaultPort
		}
		addr = fmt.Sprintf("%s:%d", cfg.Addr, port)
	}

	api := TaskBoardAPI{
		httpSrv: &http.Server{Addr: addr},
		users:   users,
		tasks:   tasks,
	}

	api.configRoutes()

	return &api
}

func (api *TaskBoardAPI) Start() error {
	if api.httpSrv == nil {
		return errors.ErrInternalServer
	}

	if api.httpSrv.Addr == "" {
		api.httpSrv.Addr = fmt.Sprintf(":%d", defaultPort)
	}

	return api.httpSrv.ListenAndServe()
}

func (api *TaskBoardAPI) Shutdown(ctx context.Context) error {
	if api.httpSrv == nil {
		return errors.ErrInternalServer
	}
	return api.httpSrv.Shutdown(ctx)
}

func (api *TaskBoardAPI) configRoutes() {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(), GzipRequestDecompress(), GzipResponseCompress())

	router.HandleMethodNotAllowed = true
	router.NoMethod(func(ctx *gin.Context) {
		ctx.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	router.POST("/register", api.register)
	router.POST("/login", api.login)
	router.GET("/users", api.listUsers)

	tasks := router.Group("/tasks")
	{
		tasks.GET("", api.listTasks)
		tasks.POST("", api.createTask)
		tasks.DELETE("/:taskID", api.deleteTask)
		for _, state := range taskStates {
			tasks.PATCH("/:taskID/move-to-"+state, api.moveTask(state))
		}
	}

	api.httpSrv.Handler = router
}

func (api *TaskBoardAPI) register(ctx *gin.Context) {
	var req models.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errors.ErrBadRequest.Error()})
		return
	}

	valid := validator.New()
	if err := valid.Struct(req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": validationErrorToErrorResponse(err).Error()})
		return
	}

	existing, err := api.users.GetUserByEmail(ctx.Request.Context(), req.Email)
	if err != nil && err != errors.ErrUserNotFound {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrStorageFailure.Error()})
		return
	}
	if existing != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errors.ErrEmailTaken.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrInternalServer.Error()})
		return
	}

	user := models.User{
		Name:           req.Name,
		Email:          req.Email,
		PasswordHash:   string(hash),
		ProfilePicture: req.ProfilePicture,
	}
	if err := api.users.CreateUser(ctx.Request.Context(), &user); err != nil {
		if err == errors.ErrEmailTaken {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": errors.ErrEmailTaken.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrStorageFailure.Error()})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "user registered successfully"})
}

func (api *TaskBoardAPI) login(ctx *gin.Context) {
	var req models.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errors.ErrBadRequest.Error()})
		return
	}

	valid := validator.New()
	if err := valid.Struct(req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": validationErrorToErrorResponse(err).Error()})
		return
	}

	// A missing user, a wrong password and a storage fault all produce the
	// same 401 so account existence cannot be probed.
	user, err := api.users.GetUserByEmail(ctx.Request.Context(), req.Email)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": errors.ErrInvalidCredentials.Error()})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": errors.ErrInvalidCredentials.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"user": gin.H{
			"id":              user.ID,
			"name":            user.Name,
			"email":           user.Email,
			"profile_picture": user.ProfilePicture,
		},
	})
}

func (api *TaskBoardAPI) listUsers(ctx *gin.Context) {
	users, err := api.users.ListUsers(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrStorageFailure.Error()})
		return
	}
	if users == nil {
		users = []models.UserSummary{}
	}
	ctx.JSON(http.StatusOK, users)
}

func (api *TaskBoardAPI) listTasks(ctx *gin.Context) {
	tasks, err := api.tasks.GetTasks(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrStorageFailure.Error()})
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	for _, task := range tasks {
		if task.DueDate == nil {
			logrus.WithField("task_id", task.ID).Warn("task has no due date")
		}
	}
	ctx.JSON(http.StatusOK, tasks)
}

func (api *TaskBoardAPI) createTask(ctx *gin.Context) {
	var req models.CreateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errors.ErrBadRequest.Error()})
		return
	}

	valid := validator.New()
	if err := valid.Struct(req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": validationErrorToErrorResponse(err).Error()})
		return
	}
	if isJSONNull(req.AssignedTo) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errors.ErrMissingTaskFields.Error()})
		return
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errors.ErrInvalidDueDate.Error()})
		return
	}

	task := models.Task{
		Title:       req.Title,
		DueDate:     &dueDate,
		Category:    req.Category,
		Urgency:     req.Urgency,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
	}
	if err := api.tasks.CreateTask(ctx.Request.Context(), &task); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrStorageFailure.Error()})
		return
	}

	ctx.JSON(http.StatusCreated, task)
}

func (api *TaskBoardAPI) moveTask(state string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id, err := strconv.ParseInt(ctx.Param("taskID"), 10, 64)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": errors.ErrInvalidTaskID.Error()})
			return
		}

		if err := api.tasks.SetTaskState(ctx.Request.Context(), id, state); err != nil {
			if err == errors.ErrTaskNotFound {
				ctx.JSON(http.StatusNotFound, gin.H{"error": errors.ErrTaskNotFound.Error()})
				return
			}
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrStorageFailure.Error()})
			return
		}

		ctx.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("task moved to %q", state)})
	}
}

func (api *TaskBoardAPI) deleteTask(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("taskID"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errors.ErrInvalidTaskID.Error()})
		return
	}

	if err := api.tasks.DeleteTask(ctx.Request.Context(), id); err != nil {
		if err == errors.ErrTaskNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"error": errors.ErrTaskNotFound.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrStorageFailure.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "task deleted"})
}

func isJSONNull(raw []byte) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func validationErrorToErrorResponse(err error) error {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, verr := range verrs {
			switch verr.Field() {
			case "Email":
				return errors.ErrInvalidEmail
			case "Password":
				return errors.ErrInvalidPassword
			case "Title":
				return errors.ErrInvalidTitle
			case "DueDate", "Category", "Urgency", "Description", "AssignedTo":
				return errors.ErrMissingTaskFields
			}
		}
	}
	return errors.ErrValidationFailed
}
