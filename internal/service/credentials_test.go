package service

import (
	"context"
	"errors"
	"testing"

	"teamtasks/internal/domain"
)

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	lead := f.leader(t, "lead")
	missing := 999

	cases := []struct {
		name string
		in   RegisterInput
	}{
		{"missing login", RegisterInput{Name: "a", Surname: "b", Password: "p", Role: domain.RoleLeader}},
		{"missing password", RegisterInput{Name: "a", Surname: "b", Login: "x", Role: domain.RoleLeader}},
		{"blank name", RegisterInput{Name: "  ", Surname: "b", Login: "x", Password: "p", Role: domain.RoleLeader}},
		{"unknown role", RegisterInput{Name: "a", Surname: "b", Login: "x", Password: "p", Role: "subordinate"}},
		{"user without leader", RegisterInput{Name: "a", Surname: "b", Login: "x", Password: "p", Role: domain.RoleUser}},
		{"leader does not exist", RegisterInput{Name: "a", Surname: "b", Login: "x", Password: "p", Role: domain.RoleUser, LeaderID: &missing}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.creds.Register(context.Background(), tc.in)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
		})
	}

	sub := f.subordinate(t, "sub", lead.ID)
	_, err := f.creds.Register(context.Background(), RegisterInput{
		Name: "a", Surname: "b", Login: "y", Password: "p", Role: domain.RoleUser, LeaderID: &sub.ID,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("leader that is not a leader: err = %v, want ErrValidation", err)
	}
}

func TestRegisterStoresHashAndDropsLeaderForLeaders(t *testing.T) {
	f := newFixture(t)
	lead := f.leader(t, "lead")

	other, err := f.creds.Register(context.Background(), RegisterInput{
		Name: "B", Surname: "C", Patronymic: ptr("  "), Login: " boss ", Password: "pw",
		Role: domain.RoleLeader, LeaderID: &lead.ID,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if other.LeaderID != nil {
		t.Errorf("leader stored with leaderId %d", *other.LeaderID)
	}
	if other.Patronymic != nil {
		t.Errorf("blank patronymic stored as %q", *other.Patronymic)
	}
	if other.Login != "boss" {
		t.Errorf("login = %q, want trimmed", other.Login)
	}
	if other.PasswordHash == "" || other.PasswordHash == "pw" {
		t.Errorf("password stored as %q", other.PasswordHash)
	}
}

func TestRegisterDuplicateLogin(t *testing.T) {
	f := newFixture(t)
	f.leader(t, "lead")

	_, err := f.creds.Register(context.Background(), RegisterInput{
		Name: "a", Surname: "b", Login: "lead", Password: "p", Role: domain.RoleLeader,
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	lead := f.leader(t, "lead")
	ctx := context.Background()

	token, u, err := f.creds.Authenticate(ctx, "lead", "secret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if u.ID != lead.ID {
		t.Fatalf("user = %d, want %d", u.ID, lead.ID)
	}

	current, err := f.creds.CurrentUser(ctx, token)
	if err != nil || current.ID != lead.ID {
		t.Fatalf("CurrentUser = %+v, %v", current, err)
	}

	if _, _, err := f.creds.Authenticate(ctx, "lead", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("bad password err = %v", err)
	}
	if _, _, err := f.creds.Authenticate(ctx, "ghost", "secret"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown login err = %v", err)
	}
	if _, err := f.creds.CurrentUser(ctx, "garbage"); !errors.Is(err, domain.ErrAuthentication) {
		t.Fatalf("garbage token err = %v", err)
	}
}

func TestCurrentUserUnknown(t *testing.T) {
	f := newFixture(t)
	token, err := f.creds.IssueToken(domain.User{ID: 999, Role: domain.RoleLeader})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := f.creds.CurrentUser(context.Background(), token); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestLeadersAndSubordinates(t *testing.T) {
	f := newFixture(t)
	a := f.leader(t, "a")
	b := f.leader(t, "b")
	s1 := f.subordinate(t, "s1", a.ID)
	f.subordinate(t, "s2", b.ID)
	ctx := context.Background()

	leaders, err := f.creds.Leaders(ctx)
	if err != nil || len(leaders) != 2 {
		t.Fatalf("leaders = %+v, %v", leaders, err)
	}
	subs, err := f.creds.Subordinates(ctx, a.ID)
	if err != nil || len(subs) != 1 || subs[0].ID != s1.ID {
		t.Fatalf("subordinates = %+v, %v", subs, err)
	}
	all, err := f.creds.Users(ctx)
	if err != nil || len(all) != 4 {
		t.Fatalf("users = %+v, %v", all, err)
	}
}
