package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"teamtasks/internal/domain"
)

// MemoryStore keeps users and tasks in process memory. It mirrors the
// PostgreSQL constraints that matter to callers: unique logins, existing
// leaders, and tasks that reference existing users. Used with STORE=memory
// and by tests.
type MemoryStore struct {
	mu     sync.RWMutex
	users  map[int]domain.User
	tasks  map[int]domain.Task
	nextID struct{ user, task int }
	now    func() time.Time
}

// NewMemoryStore returns an empty store on the wall clock.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[int]domain.User),
		tasks: make(map[int]domain.Task),
		now:   time.Now,
	}
}

// SetClock replaces the timestamp source.
func (m *MemoryStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Users returns the account view of the store.
func (m *MemoryStore) Users() *MemoryUsers { return &MemoryUsers{m} }

// Tasks returns the task view of the store.
func (m *MemoryStore) Tasks() *MemoryTasks { return &MemoryTasks{m} }

// MemoryUsers implements service.UserStore over a MemoryStore.
type MemoryUsers struct{ m *MemoryStore }

// Create stores u under the next id. Logins are unique.
func (r *MemoryUsers) Create(_ context.Context, u domain.User) (domain.User, error) {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Login == u.Login {
			return domain.User{}, fmt.Errorf("%w: login %q is already taken", domain.ErrConflict, u.Login)
		}
	}
	if u.LeaderID != nil {
		if _, ok := m.users[*u.LeaderID]; !ok {
			return domain.User{}, fmt.Errorf("%w: leader %d does not exist", domain.ErrValidation, *u.LeaderID)
		}
	}

	m.nextID.user++
	u.ID = m.nextID.user
	u.CreatedAt = m.now()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = u
	return u, nil
}

// GetByID returns ErrNotFound for an unknown id.
func (r *MemoryUsers) GetByID(_ context.Context, id int) (domain.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	u, ok := r.m.users[id]
	if !ok {
		return domain.User{}, fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
	}
	return u, nil
}

// GetByLogin looks a user up by exact login.
func (r *MemoryUsers) GetByLogin(_ context.Context, login string) (domain.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	for _, u := range r.m.users {
		if u.Login == login {
			return u, nil
		}
	}
	return domain.User{}, fmt.Errorf("%w: user with login %q", domain.ErrNotFound, login)
}

// List returns every user ordered by id.
func (r *MemoryUsers) List(_ context.Context) ([]domain.User, error) {
	return r.filter(func(domain.User) bool { return true }), nil
}

// ListLeaders returns the users with RoleLeader.
func (r *MemoryUsers) ListLeaders(_ context.Context) ([]domain.User, error) {
	return r.filter(domain.User.IsLeader), nil
}

// ListSubordinates returns the users whose leader is leaderID.
func (r *MemoryUsers) ListSubordinates(_ context.Context, leaderID int) ([]domain.User, error) {
	return r.filter(func(u domain.User) bool {
		return u.LeaderID != nil && *u.LeaderID == leaderID
	}), nil
}

func (r *MemoryUsers) filter(keep func(domain.User) bool) []domain.User {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	out := []domain.User{}
	for _, u := range r.m.users {
		if keep(u) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MemoryTasks implements service.TaskStore over a MemoryStore.
type MemoryTasks struct{ m *MemoryStore }

// Create stores t under the next id and stamps both timestamps.
func (r *MemoryTasks) Create(_ context.Context, t domain.Task) (domain.Task, error) {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkRefs(t); err != nil {
		return domain.Task{}, err
	}
	m.nextID.task++
	t.ID = m.nextID.task
	t.CreatedAt = m.now()
	t.UpdatedAt = t.CreatedAt
	m.tasks[t.ID] = t
	return t, nil
}

// GetByID returns ErrNotFound for an unknown id.
func (r *MemoryTasks) GetByID(_ context.Context, id int) (domain.Task, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	t, ok := r.m.tasks[id]
	if !ok {
		return domain.Task{}, fmt.Errorf("%w: task %d", domain.ErrNotFound, id)
	}
	return t, nil
}

// ListByAssignees returns the tasks assigned to any of userIDs, by id.
func (r *MemoryTasks) ListByAssignees(_ context.Context, userIDs []int) ([]domain.Task, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	want := make(map[int]struct{}, len(userIDs))
	for _, id := range userIDs {
		want[id] = struct{}{}
	}
	out := []domain.Task{}
	for _, t := range r.m.tasks {
		if _, ok := want[t.UserID]; ok {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Update replaces the mutable fields of t. Author and creation time stay.
func (r *MemoryTasks) Update(_ context.Context, t domain.Task) (domain.Task, error) {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.tasks[t.ID]
	if !ok {
		return domain.Task{}, fmt.Errorf("%w: task %d", domain.ErrNotFound, t.ID)
	}
	if err := m.checkRefs(t); err != nil {
		return domain.Task{}, err
	}
	t.CreatedBy = existing.CreatedBy
	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = m.now()
	m.tasks[t.ID] = t
	return t, nil
}

// UpdateStatus changes only the status of task id.
func (r *MemoryTasks) UpdateStatus(_ context.Context, id int, status domain.Status) (domain.Task, error) {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[id]
	if !ok {
		return domain.Task{}, fmt.Errorf("%w: task %d", domain.ErrNotFound, id)
	}
	t.Status = status
	t.UpdatedAt = m.now()
	m.tasks[id] = t
	return t, nil
}

// Delete removes task id.
func (r *MemoryTasks) Delete(_ context.Context, id int) error {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return fmt.Errorf("%w: task %d", domain.ErrNotFound, id)
	}
	delete(m.tasks, id)
	return nil
}

// checkRefs is the in-memory stand-in for the tasks foreign keys.
func (m *MemoryStore) checkRefs(t domain.Task) error {
	if _, ok := m.users[t.UserID]; !ok {
		return fmt.Errorf("%w: assignee %d does not exist", domain.ErrValidation, t.UserID)
	}
	if _, ok := m.users[t.CreatedBy]; !ok {
		return fmt.Errorf("%w: creator %d does not exist", domain.ErrValidation, t.CreatedBy)
	}
	return nil
}
