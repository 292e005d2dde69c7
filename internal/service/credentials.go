package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"teamtasks/internal/auth"
	"teamtasks/internal/domain"
)

// RegisterInput is the single registration contract shared by every signup
// endpoint.
type RegisterInput struct {
	Name       string
	Surname    string
	Patronymic *string
	Login      string
	Password   string
	Role       domain.Role
	LeaderID   *int
}

// Credentials registers accounts, checks passwords and resolves tokens.
type Credentials struct {
	users  UserStore
	tokens *auth.TokenIssuer
	log    *slog.Logger
}

// NewCredentials - credentials service over users, signing with tokens.
func NewCredentials(users UserStore, tokens *auth.TokenIssuer, log *slog.Logger) *Credentials {
	return &Credentials{users: users, tokens: tokens, log: log}
}

// Register validates in, hashes the password and stores the account.
func (s *Credentials) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Surname = strings.TrimSpace(in.Surname)
	in.Login = strings.TrimSpace(in.Login)
	in.Patronymic = trimOptional(in.Patronymic)

	if in.Login == "" || in.Password == "" || in.Name == "" || in.Surname == "" || in.Role == "" {
		return domain.User{}, fmt.Errorf("%w: login, password, name, surname and role are required", domain.ErrValidation)
	}
	if !in.Role.Valid() {
		return domain.User{}, fmt.Errorf("%w: role must be %q or %q", domain.ErrValidation, domain.RoleUser, domain.RoleLeader)
	}

	var leaderID *int
	if in.Role == domain.RoleUser {
		if in.LeaderID == nil {
			return domain.User{}, fmt.Errorf("%w: leaderId is required for role %q", domain.ErrValidation, domain.RoleUser)
		}
		leader, err := s.users.GetByID(ctx, *in.LeaderID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.User{}, fmt.Errorf("%w: leader %d does not exist", domain.ErrValidation, *in.LeaderID)
			}
			return domain.User{}, fmt.Errorf("load leader: %w", err)
		}
		if !leader.IsLeader() {
			return domain.User{}, fmt.Errorf("%w: user %d is not a leader", domain.ErrValidation, leader.ID)
		}
		leaderID = &leader.ID
	}

	if _, err := s.users.GetByLogin(ctx, in.Login); err == nil {
		return domain.User{}, fmt.Errorf("%w: login %q is already taken", domain.ErrConflict, in.Login)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, fmt.Errorf("check login: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(ctx, domain.User{
		Name:         in.Name,
		Surname:      in.Surname,
		Patronymic:   in.Patronymic,
		Login:        in.Login,
		PasswordHash: hash,
		Role:         in.Role,
		LeaderID:     leaderID,
	})
	if err != nil {
		return domain.User{}, err
	}

	s.log.InfoContext(ctx, "user registered", "user_id", u.ID, "login", u.Login, "role", u.Role)
	return u, nil
}

// Authenticate checks a login/password pair and issues a session token.
func (s *Credentials) Authenticate(ctx context.Context, login, password string) (string, domain.User, error) {
	u, err := s.users.GetByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.User{}, fmt.Errorf("%w: user not found", domain.ErrNotFound)
		}
		return "", domain.User{}, err
	}

	if !auth.CheckPassword(password, u.PasswordHash) {
		s.log.WarnContext(ctx, "password mismatch", "login", u.Login)
		return "", domain.User{}, domain.ErrInvalidCredentials
	}

	token, err := s.IssueToken(u)
	if err != nil {
		return "", domain.User{}, err
	}
	return token, u, nil
}

// IssueToken signs a session token for u.
func (s *Credentials) IssueToken(u domain.User) (string, error) {
	token, err := s.tokens.GenerateToken(u.ID, u.Role)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Resolve returns the id bound to token.
func (s *Credentials) Resolve(token string) (int, error) {
	return s.tokens.Resolve(token)
}

// CurrentUser resolves token and loads the account it belongs to.
func (s *Credentials) CurrentUser(ctx context.Context, token string) (domain.User, error) {
	id, err := s.Resolve(token)
	if err != nil {
		return domain.User{}, err
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, fmt.Errorf("%w: current user not found", domain.ErrNotFound)
		}
		return domain.User{}, err
	}
	return u, nil
}

// Leaders lists every leader, for the signup form.
func (s *Credentials) Leaders(ctx context.Context) ([]domain.User, error) {
	return s.users.ListLeaders(ctx)
}

// Users lists every account.
func (s *Credentials) Users(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// Subordinates lists the direct reports of leaderID.
func (s *Credentials) Subordinates(ctx context.Context, leaderID int) ([]domain.User, error) {
	return s.users.ListSubordinates(ctx, leaderID)
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
