package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"teamtasks/internal/domain"
)

func seedUsers(t *testing.T, m *MemoryStore) (leader, sub domain.User) {
	t.Helper()
	ctx := context.Background()
	leader, err := m.Users().Create(ctx, domain.User{Name: "L", Surname: "L", Login: "lead", Role: domain.RoleLeader})
	if err != nil {
		t.Fatalf("create leader: %v", err)
	}
	sub, err = m.Users().Create(ctx, domain.User{Name: "S", Surname: "S", Login: "sub", Role: domain.RoleUser, LeaderID: &leader.ID})
	if err != nil {
		t.Fatalf("create sub: %v", err)
	}
	return leader, sub
}

func TestMemoryUsersUniqueLogin(t *testing.T) {
	m := NewMemoryStore()
	seedUsers(t, m)

	_, err := m.Users().Create(context.Background(), domain.User{Login: "lead", Role: domain.RoleLeader})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestMemoryUsersUnknownLeader(t *testing.T) {
	m := NewMemoryStore()
	missing := 42
	_, err := m.Users().Create(context.Background(), domain.User{Login: "x", Role: domain.RoleUser, LeaderID: &missing})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestMemoryUsersQueries(t *testing.T) {
	m := NewMemoryStore()
	leader, sub := seedUsers(t, m)
	ctx := context.Background()

	leaders, _ := m.Users().ListLeaders(ctx)
	if len(leaders) != 1 || leaders[0].ID != leader.ID {
		t.Fatalf("leaders = %+v", leaders)
	}
	subs, _ := m.Users().ListSubordinates(ctx, leader.ID)
	if len(subs) != 1 || subs[0].ID != sub.ID {
		t.Fatalf("subordinates = %+v", subs)
	}
	all, _ := m.Users().List(ctx)
	if len(all) != 2 || all[0].ID > all[1].ID {
		t.Fatalf("list = %+v", all)
	}
	if _, err := m.Users().GetByLogin(ctx, "nobody"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByLogin err = %v", err)
	}
}

func TestMemoryTasksLifecycle(t *testing.T) {
	m := NewMemoryStore()
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	clock := start
	m.SetClock(func() time.Time { return clock })
	leader, sub := seedUsers(t, m)
	ctx := context.Background()

	created, err := m.Tasks().Create(ctx, domain.Task{
		Title: "t", Deadline: start, Priority: domain.PriorityLow, Status: domain.StatusPending,
		UserID: sub.ID, CreatedBy: leader.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created.CreatedAt.Equal(start) || !created.UpdatedAt.Equal(start) {
		t.Fatalf("timestamps = %v / %v", created.CreatedAt, created.UpdatedAt)
	}

	clock = start.Add(time.Hour)
	updated, err := m.Tasks().UpdateStatus(ctx, created.ID, domain.StatusCompleted)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != domain.StatusCompleted || !updated.UpdatedAt.Equal(clock) {
		t.Fatalf("updated = %+v", updated)
	}

	list, _ := m.Tasks().ListByAssignees(ctx, []int{leader.ID})
	if len(list) != 0 {
		t.Fatalf("leader list = %+v, want empty", list)
	}
	list, _ = m.Tasks().ListByAssignees(ctx, []int{leader.ID, sub.ID})
	if len(list) != 1 {
		t.Fatalf("scoped list = %+v", list)
	}

	if err := m.Tasks().Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := m.Tasks().Delete(ctx, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
}

func TestMemoryTasksUpdateKeepsAuthor(t *testing.T) {
	m := NewMemoryStore()
	leader, sub := seedUsers(t, m)
	ctx := context.Background()

	created, _ := m.Tasks().Create(ctx, domain.Task{Title: "t", UserID: sub.ID, CreatedBy: leader.ID})
	changed := created
	changed.Title = "renamed"
	changed.CreatedBy = sub.ID

	got, err := m.Tasks().Update(ctx, changed)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Title != "renamed" || got.CreatedBy != leader.ID {
		t.Fatalf("got = %+v", got)
	}
}

func TestMemoryTasksRejectUnknownAssignee(t *testing.T) {
	m := NewMemoryStore()
	leader, _ := seedUsers(t, m)
	_, err := m.Tasks().Create(context.Background(), domain.Task{Title: "t", UserID: 99, CreatedBy: leader.ID})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}
