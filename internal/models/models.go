package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"teamtasks/internal/domain"
	"teamtasks/internal/service"
)

// Deadline parses a deadline from JSON as either date-only ("2006-01-02") or
// RFC3339. Date-only values are stored as the start of that day in UTC.
type Deadline struct{ t *time.Time }

// UnmarshalJSON accepts null or an empty string as no deadline.
func (d *Deadline) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("deadline: %w", err)
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		d.t = nil
		return nil
	}
	s := strings.TrimSpace(*raw)
	layouts := []string{
		"2006-01-02",
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			if layout == "2006-01-02" {
				parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
			}
			d.t = &parsed
			return nil
		}
	}
	return fmt.Errorf("deadline: use date (YYYY-MM-DD) or RFC3339 datetime")
}

// Ptr returns the parsed time, nil when absent.
func (d *Deadline) Ptr() *time.Time {
	if d == nil {
		return nil
	}
	return d.t
}

// RegisterRequest is the body of POST /api/register and POST /api/users.
type RegisterRequest struct {
	Name       string  `json:"name"`
	Surname    string  `json:"surname"`
	Patronymic *string `json:"patronymic"`
	Login      string  `json:"login"`
	Password   string  `json:"password"`
	Role       string  `json:"role"`
	LeaderID   *int    `json:"leaderId"`
}

// Input converts the body into the registration contract.
func (r RegisterRequest) Input() service.RegisterInput {
	return service.RegisterInput{
		Name:       r.Name,
		Surname:    r.Surname,
		Patronymic: r.Patronymic,
		Login:      r.Login,
		Password:   r.Password,
		Role:       domain.Role(r.Role),
		LeaderID:   r.LeaderID,
	}
}

// LoginRequest is the body of POST /api/auth.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// CreateTaskRequest is the body of POST /api/tasks.
type CreateTaskRequest struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	Deadline    Deadline `json:"deadline"`
	Priority    string   `json:"priority"`
	Status      string   `json:"status"`
	UserID      *int     `json:"userId"`
}

// Input converts the body into a creation request.
func (r CreateTaskRequest) Input() service.CreateTaskInput {
	return service.CreateTaskInput{
		Title:       r.Title,
		Description: r.Description,
		Deadline:    r.Deadline.Ptr(),
		Priority:    domain.Priority(r.Priority),
		Status:      domain.Status(r.Status),
		UserID:      r.UserID,
	}
}

// UpdateTaskRequest holds the submitted fields of PUT /api/tasks/{id}; nil
// means the field was not sent.
type UpdateTaskRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Deadline    *Deadline `json:"deadline"`
	Priority    *string   `json:"priority"`
	Status      *string   `json:"status"`
	UserID      *int      `json:"userId"`
}

// Patch converts the submitted fields into a domain patch.
func (r UpdateTaskRequest) Patch() domain.TaskPatch {
	patch := domain.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
		Deadline:    r.Deadline.Ptr(),
		UserID:      r.UserID,
	}
	if r.Priority != nil {
		p := domain.Priority(*r.Priority)
		patch.Priority = &p
	}
	if r.Status != nil {
		s := domain.Status(*r.Status)
		patch.Status = &s
	}
	return patch
}

// UserResponse never carries the password hash.
type UserResponse struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Surname    string    `json:"surname"`
	Patronymic *string   `json:"patronymic"`
	Login      string    `json:"login"`
	Role       string    `json:"role"`
	LeaderID   *int      `json:"leaderId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NewUserResponse drops the password hash.
func NewUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Surname:    u.Surname,
		Patronymic: u.Patronymic,
		Login:      u.Login,
		Role:       string(u.Role),
		LeaderID:   u.LeaderID,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// LeaderSummary is one entry of GET /api/leaders.
type LeaderSummary struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Surname    string  `json:"surname"`
	Patronymic *string `json:"patronymic"`
}

// UserListItem is one entry of GET /api/users.
type UserListItem struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Surname    string  `json:"surname"`
	Patronymic *string `json:"patronymic"`
	Login      string  `json:"login"`
	LeaderID   *int    `json:"leaderId"`
}

// SubordinateItem is one entry of GET /api/users/subordinates.
type SubordinateItem struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Login   string `json:"login"`
}

// NewLeaderSummaries - leaders in signup form shape.
func NewLeaderSummaries(users []domain.User) []LeaderSummary {
	out := make([]LeaderSummary, 0, len(users))
	for _, u := range users {
		out = append(out, LeaderSummary{ID: u.ID, Name: u.Name, Surname: u.Surname, Patronymic: u.Patronymic})
	}
	return out
}

// NewUserList - directory entries without roles or hashes.
func NewUserList(users []domain.User) []UserListItem {
	out := make([]UserListItem, 0, len(users))
	for _, u := range users {
		out = append(out, UserListItem{
			ID: u.ID, Name: u.Name, Surname: u.Surname, Patronymic: u.Patronymic,
			Login: u.Login, LeaderID: u.LeaderID,
		})
	}
	return out
}

// NewSubordinateList - subordinates in dropdown shape.
func NewSubordinateList(users []domain.User) []SubordinateItem {
	out := make([]SubordinateItem, 0, len(users))
	for _, u := range users {
		out = append(out, SubordinateItem{ID: u.ID, Name: u.Name, Surname: u.Surname, Login: u.Login})
	}
	return out
}

// AuthResponse carries a session token and its user.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// RegisteredResponse is the answer to POST /api/register.
type RegisteredResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every error answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

// TaskResponse is the JSON form of a task.
type TaskResponse struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Deadline    time.Time `json:"deadline"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	UserID      int       `json:"userId"`
	CreatedBy   int       `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewTaskResponse - task in JSON shape.
func NewTaskResponse(t domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Deadline:    t.Deadline,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		UserID:      t.UserID,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// NewTaskList never returns nil so empty lists encode as [].
func NewTaskList(tasks []domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, NewTaskResponse(t))
	}
	return out
}

// DeadlineGroupsResponse is GET /api/tasks?group=deadline.
type DeadlineGroupsResponse struct {
	Today  []TaskResponse `json:"today"`
	Week   []TaskResponse `json:"week"`
	Future []TaskResponse `json:"future"`
}

// NewDeadlineGroups - deadline buckets in JSON shape.
func NewDeadlineGroups(g service.DeadlineGroups) DeadlineGroupsResponse {
	return DeadlineGroupsResponse{
		Today:  NewTaskList(g.Today),
		Week:   NewTaskList(g.Week),
		Future: NewTaskList(g.Future),
	}
}

// AssigneeGroupResponse is one element of GET /api/tasks?group=assignee.
type AssigneeGroupResponse struct {
	UserID int            `json:"userId"`
	Tasks  []TaskResponse `json:"tasks"`
}

// NewAssigneeGroups - assignee buckets in JSON shape.
func NewAssigneeGroups(groups []service.AssigneeGroup) []AssigneeGroupResponse {
	out := make([]AssigneeGroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, AssigneeGroupResponse{UserID: g.UserID, Tasks: NewTaskList(g.Tasks)})
	}
	return out
}
