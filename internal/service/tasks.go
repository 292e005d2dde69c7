package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"teamtasks/internal/access"
	"teamtasks/internal/domain"
)

// CreateTaskInput is a task creation request. Zero Priority and Status take
// the defaults.
type CreateTaskInput struct {
	Title       string
	Description *string
	Deadline    *time.Time
	Priority    domain.Priority
	Status      domain.Status
	UserID      *int
}

// Tasks is the task use-case layer: scoping, validation and the edit policy.
type Tasks struct {
	tasks TaskStore
	users UserStore
	log   *slog.Logger
}

// NewTasks - task service; users is consulted for subordinates and assignees.
func NewTasks(tasks TaskStore, users UserStore, log *slog.Logger) *Tasks {
	return &Tasks{tasks: tasks, users: users, log: log}
}

// VisibleUserIDs returns the assignee ids requester may see.
func (s *Tasks) VisibleUserIDs(ctx context.Context, requester domain.User) ([]int, error) {
	if !requester.IsLeader() {
		return access.VisibleUserIDs(requester, nil), nil
	}
	subs, err := s.users.ListSubordinates(ctx, requester.ID)
	if err != nil {
		return nil, fmt.Errorf("list subordinates: %w", err)
	}
	ids := make([]int, 0, len(subs))
	for _, u := range subs {
		ids = append(ids, u.ID)
	}
	return access.VisibleUserIDs(requester, ids), nil
}

// List returns every task assigned to someone in requester's visible set,
// most recently updated first.
func (s *Tasks) List(ctx context.Context, requester domain.User) ([]domain.Task, error) {
	visible, err := s.VisibleUserIDs(ctx, requester)
	if err != nil {
		return nil, err
	}
	list, err := s.tasks.ListByAssignees(ctx, visible)
	if err != nil {
		return nil, err
	}
	SortByUpdated(list)
	return list, nil
}

// Create validates in and stores a task authored by requester.
func (s *Tasks) Create(ctx context.Context, requester domain.User, in CreateTaskInput) (domain.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || in.Deadline == nil || in.UserID == nil {
		return domain.Task{}, fmt.Errorf("%w: title, deadline and userId are required", domain.ErrValidation)
	}

	if in.Status == "" {
		in.Status = domain.StatusPending
	}
	if in.Priority == "" {
		in.Priority = domain.PriorityMedium
	}
	if err := validateEnums(&in.Priority, &in.Status); err != nil {
		return domain.Task{}, err
	}

	if err := s.checkAssignee(ctx, requester, *in.UserID); err != nil {
		return domain.Task{}, err
	}

	t, err := s.tasks.Create(ctx, domain.Task{
		Title:       title,
		Description: trimOptional(in.Description),
		Deadline:    *in.Deadline,
		Priority:    in.Priority,
		Status:      in.Status,
		UserID:      *in.UserID,
		CreatedBy:   requester.ID,
	})
	if err != nil {
		return domain.Task{}, err
	}

	s.log.InfoContext(ctx, "task created", "task_id", t.ID, "assignee", t.UserID, "created_by", t.CreatedBy)
	return t, nil
}

// Update applies patch to task id within the scope requester is allowed.
func (s *Tasks) Update(ctx context.Context, requester domain.User, id int, patch domain.TaskPatch) (domain.Task, error) {
	existing, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}

	if err := validateEnums(patch.Priority, patch.Status); err != nil {
		return domain.Task{}, err
	}

	decision := access.EvaluateUpdate(requester, existing, patch)
	switch decision {
	case access.Forbidden:
		return domain.Task{}, fmt.Errorf("%w: insufficient permissions to edit this task", domain.ErrAuthorization)
	case access.StatusOnly:
		t, err := s.tasks.UpdateStatus(ctx, id, *patch.Status)
		if err != nil {
			return domain.Task{}, err
		}
		s.log.InfoContext(ctx, "task status updated", "task_id", id, "by", requester.ID, "status", t.Status)
		return t, nil
	}

	updated, err := s.applyPatch(ctx, requester, existing, patch)
	if err != nil {
		return domain.Task{}, err
	}
	t, err := s.tasks.Update(ctx, updated)
	if err != nil {
		return domain.Task{}, err
	}
	s.log.InfoContext(ctx, "task updated", "task_id", id, "by", requester.ID, "scope", decision.String())
	return t, nil
}

// Delete removes task id. Any authenticated requester may delete any task;
// the requester and creator are logged so deletions stay traceable.
func (s *Tasks) Delete(ctx context.Context, requester domain.User, id int) error {
	existing, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "task deleted",
		"task_id", id, "by", requester.ID, "created_by", existing.CreatedBy, "assignee", existing.UserID)
	return nil
}

func (s *Tasks) applyPatch(ctx context.Context, requester domain.User, t domain.Task, patch domain.TaskPatch) (domain.Task, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return domain.Task{}, fmt.Errorf("%w: title must not be empty", domain.ErrValidation)
		}
		t.Title = title
	}
	if patch.Description != nil {
		t.Description = trimOptional(patch.Description)
	}
	if patch.Deadline != nil {
		t.Deadline = *patch.Deadline
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.UserID != nil && *patch.UserID != t.UserID {
		if err := s.checkAssignee(ctx, requester, *patch.UserID); err != nil {
			return domain.Task{}, err
		}
		t.UserID = *patch.UserID
	}
	return t, nil
}

// checkAssignee requires assigneeID to exist and to be requester itself or,
// for a leader, one of its subordinates.
func (s *Tasks) checkAssignee(ctx context.Context, requester domain.User, assigneeID int) error {
	if _, err := s.users.GetByID(ctx, assigneeID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: assignee %d does not exist", domain.ErrValidation, assigneeID)
		}
		return fmt.Errorf("load assignee: %w", err)
	}
	visible, err := s.VisibleUserIDs(ctx, requester)
	if err != nil {
		return err
	}
	if !access.CanAssign(visible, assigneeID) {
		return fmt.Errorf("%w: cannot assign tasks to user %d", domain.ErrAuthorization, assigneeID)
	}
	return nil
}

func validateEnums(p *domain.Priority, st *domain.Status) error {
	if p != nil && !p.Valid() {
		return fmt.Errorf("%w: invalid priority value %q (valid: high, medium, low)", domain.ErrValidation, *p)
	}
	if st != nil && !st.Valid() {
		return fmt.Errorf("%w: invalid status value %q (valid: pending, in_progress, completed, cancelled)", domain.ErrValidation, *st)
	}
	return nil
}
