package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"teamtasks/internal/auth"
	"teamtasks/internal/domain"
	"teamtasks/internal/repository"
)

type fixture struct {
	store *repository.MemoryStore
	creds *Credentials
	tasks *Tasks
	clock time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &fixture{
		store: repository.NewMemoryStore(),
		clock: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	f.store.SetClock(func() time.Time { return f.clock })
	f.creds = NewCredentials(f.store.Users(), auth.NewTokenIssuer("test-secret", time.Hour), log)
	f.tasks = NewTasks(f.store.Tasks(), f.store.Users(), log)
	return f
}

func (f *fixture) tick() { f.clock = f.clock.Add(time.Minute) }

func (f *fixture) leader(t *testing.T, login string) domain.User {
	t.Helper()
	u, err := f.creds.Register(context.Background(), RegisterInput{
		Name: "Lead", Surname: "Er", Login: login, Password: "secret", Role: domain.RoleLeader,
	})
	if err != nil {
		t.Fatalf("register leader %s: %v", login, err)
	}
	return u
}

func (f *fixture) subordinate(t *testing.T, login string, leaderID int) domain.User {
	t.Helper()
	u, err := f.creds.Register(context.Background(), RegisterInput{
		Name: "Sub", Surname: "Ordinate", Login: login, Password: "secret", Role: domain.RoleUser, LeaderID: &leaderID,
	})
	if err != nil {
		t.Fatalf("register subordinate %s: %v", login, err)
	}
	return u
}

func (f *fixture) task(t *testing.T, by domain.User, assignee int, title string) domain.Task {
	t.Helper()
	deadline := f.clock.Add(48 * time.Hour)
	task, err := f.tasks.Create(context.Background(), by, CreateTaskInput{
		Title: title, Deadline: &deadline, UserID: &assignee,
	})
	if err != nil {
		t.Fatalf("create task %q: %v", title, err)
	}
	f.tick()
	return task
}

func ptr[T any](v T) *T { return &v }
