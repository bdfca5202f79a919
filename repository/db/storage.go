package db

import (
	"context"
	stderrors "errors"
	"time"

	"taskboard/internal/domain/errors"
	"taskboard/internal/domain/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const queryTimeout = 15 * time.Second

// uniqueViolation is the Postgres error code raised by the users.email
// unique constraint.
const uniqueViolation = "23505"

type Storage struct {
	pool *pgxpool.Pool

	queryCreateUser     string
	queryGetUserByEmail string
	queryListUsers      string
	queryCreateTask     string
	queryGetTasks       string
	querySetTaskState   string
	queryDeleteTask     string
}

func NewStorage(connStr string) (*Storage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		logrus.WithError(err).Error("failed to parse database connection string")
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		logrus.WithError(err).Error("failed to reach the database")
		pool.Close()
		return nil, err
	}

	s := &Storage{
		pool: pool,
		queryCreateUser: `INSERT INTO users (name, email, password_hash, profile_picture)
			VALUES ($1, $2, $3, $4) RETURNING id`,
		queryGetUserByEmail: `SELECT id, name, email, password_hash, profile_picture
			FROM users WHERE email = $1`,
		queryListUsers: `SELECT id, name, profile_picture FROM users ORDER BY id`,
		queryCreateTask: `INSERT INTO tasks (title, due_date, category, urgency, description, assigned_to)
			VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, state`,
		queryGetTasks: `SELECT id, title, due_date, category, urgency, description, assigned_to, state
			FROM tasks ORDER BY id`,
		querySetTaskState: `UPDATE tasks SET state = $1 WHERE id = $2`,
		queryDeleteTask:   `DELETE FROM tasks WHERE id = $1`,
	}
	logrus.Info("database connection established")
	return s, nil
}

func (s *Storage) Close() {
	s.pool.Close()
}

func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	row := s.pool.QueryRow(ctx, s.queryCreateUser, user.Name, user.Email, user.PasswordHash, user.ProfilePicture)
	if err := row.Scan(&user.ID); err != nil {
		var pgErr *pgconn.PgError
		if stderrors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			logrus.WithField("email", user.Email).Warn("duplicate email on registration")
			return errors.ErrEmailTaken
		}
		logrus.WithError(err).Error("failed to insert user")
		return errors.ErrStorageFailure
	}
	logrus.WithField("user_id", user.ID).Info("user created")
	return nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	row := s.pool.QueryRow(ctx, s.queryGetUserByEmail, email)
	user := &models.User{}
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.ProfilePicture); err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.ErrUserNotFound
		}
		logrus.WithError(err).Error("failed to look up user by email")
		return nil, errors.ErrStorageFailure
	}
	return user, nil
}

func (s *Storage) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	rows, err := s.pool.Query(ctx, s.queryListUsers)
	if err != nil {
		logrus.WithError(err).Error("failed to list users")
		return nil, errors.ErrStorageFailure
	}
	defer rows.Close()

	users := []models.UserSummary{}
	for rows.Next() {
		u := models.UserSummary{}
		if err := rows.Scan(&u.ID, &u.Name, &u.ProfilePicture); err != nil {
			logrus.WithError(err).Error("failed to scan user row")
			return nil, errors.ErrStorageFailure
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		logrus.WithError(err).Error("failed to read user rows")
		return nil, errors.ErrStorageFailure
	}
	return users, nil
}

func (s *Storage) CreateTask(ctx context.Context, task *models.Task) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	row := s.pool.QueryRow(ctx, s.queryCreateTask,
		task.Title, task.DueDate, task.Category, task.Urgency, task.Description, task.AssignedTo)
	if err := row.Scan(&task.ID, &task.State); err != nil {
		logrus.WithError(err).Error("failed to insert task")
		return errors.ErrStorageFailure
	}
	logrus.WithField("task_id", task.ID).Info("task created")
	return nil
}

func (s *Storage) GetTasks(ctx context.Context) ([]models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	rows, err := s.pool.Query(ctx, s.queryGetTasks)
	if err != nil {
		logrus.WithError(err).Error("failed to list tasks")
		return nil, errors.ErrStorageFailure
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t := models.Task{}
		if err := rows.Scan(&t.ID, &t.Title, &t.DueDate, &t.Category, &t.Urgency,
			&t.Description, &t.AssignedTo, &t.State); err != nil {
			logrus.WithError(err).Error("failed to scan task row")
			return nil, errors.ErrStorageFailure
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		logrus.WithError(err).Error("failed to read task rows")
		return nil, errors.ErrStorageFailure
	}
	return tasks, nil
}

func (s *Storage) SetTaskState(ctx context.Context, id int64, state string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	ct, err := s.pool.Exec(ctx, s.querySetTaskState, state, id)
	if err != nil {
		logrus.WithError(err).WithField("task_id", id).Error("failed to update task state")
		return errors.ErrStorageFailure
	}
	if ct.RowsAffected() == 0 {
		logrus.WithField("task_id", id).Warn("no task matched state update")
		return errors.ErrTaskNotFound
	}
	logrus.WithFields(logrus.Fields{"task_id": id, "state": state}).Info("task state updated")
	return nil
}

func (s *Storage) DeleteTask(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	ct, err := s.pool.Exec(ctx, s.queryDeleteTask, id)
	if err != nil {
		logrus.WithError(err).WithField("task_id", id).Error("failed to delete task")
		return errors.ErrStorageFailure
	}
	if ct.RowsAffected() == 0 {
		logrus.WithField("task_id", id).Warn("no task matched delete")
		return errors.ErrTaskNotFound
	}
	logrus.WithField("task_id", id).Info("task deleted")
	return nil
}
