package models

import (
	"encoding/json"
	"time"
)

type User struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email" validate:"required,email"`
	PasswordHash   string `json:"-"`
	ProfilePicture string `json:"profile_picture"`
}

// UserSummary is the projection returned by GET /users. Credential fields
// never pass through this view.
type UserSummary struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profile_picture"`
}

type RegisterRequest struct {
	Name           string `json:"name" validate:"omitempty,max=100"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required"`
	ProfilePicture string `json:"profile_picture" validate:"omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type Task struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	DueDate     *time.Time      `json:"due_date"`
	Category    string          `json:"category"`
	Urgency     string          `json:"urgency"`
	Description string          `json:"description"`
	AssignedTo  json.RawMessage `json:"assigned_to"`
	State       string          `json:"state" validate:"omitempty,oneof=backlog to-do inProgress testing done"`
}

type CreateTaskRequest struct {
	Title       string          `json:"title" validate:"required"`
	DueDate     string          `json:"due_date" validate:"required"`
	Category    string          `json:"category" validate:"required"`
	Urgency     string          `json:"urgency" validate:"required"`
	Description string          `json:"description" validate:"required"`
	AssignedTo  json.RawMessage `json:"assigned_to" validate:"required"`
}
