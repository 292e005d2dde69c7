package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"teamtasks/internal/domain"
)

const userColumns = `id, name, surname, patronymic, login, password_hash, role, leader_id, created_at, updated_at`

// UserRepository stores accounts in PostgreSQL.
type UserRepository struct {
	base
}

// NewUserRepository bounds every call by timeout.
func NewUserRepository(db *sql.DB, timeout time.Duration) *UserRepository {
	return &UserRepository{base{db: db, timeout: timeout}}
}

// Create inserts u and returns the stored row.
func (r *UserRepository) Create(ctx context.Context, u domain.User) (domain.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO users (name, surname, patronymic, login, password_hash, role, leader_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns

	row := r.db.QueryRowContext(ctx, query,
		u.Name, u.Surname, nullString(u.Patronymic), u.Login, u.PasswordHash, string(u.Role), nullInt(u.LeaderID),
	)
	out, err := scanUser(row)
	if err != nil {
		return domain.User{}, translate(err, "user")
	}
	return out, nil
}

// GetByID returns ErrNotFound for an unknown id.
func (r *UserRepository) GetByID(ctx context.Context, id int) (domain.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, translate(err, fmt.Sprintf("user %d", id))
	}
	return u, nil
}

// GetByLogin looks a user up by exact login.
func (r *UserRepository) GetByLogin(ctx context.Context, login string) (domain.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE login = $1`, login)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, translate(err, fmt.Sprintf("user with login %q", login))
	}
	return u, nil
}

// List returns every user ordered by id.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
}

// ListLeaders returns the users with the leader role.
func (r *UserRepository) ListLeaders(ctx context.Context) ([]domain.User, error) {
	return r.query(ctx, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY id`, string(domain.RoleLeader))
}

// ListSubordinates returns the users whose leader is leaderID.
func (r *UserRepository) ListSubordinates(ctx context.Context, leaderID int) ([]domain.User, error) {
	return r.query(ctx, `SELECT `+userColumns+` FROM users WHERE leader_id = $1 ORDER BY id`, leaderID)
}

func (r *UserRepository) query(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (domain.User, error) {
	var (
		u          domain.User
		patronymic sql.NullString
		leaderID   sql.NullInt64
		role       string
	)
	err := s.Scan(&u.ID, &u.Name, &u.Surname, &patronymic, &u.Login, &u.PasswordHash,
		&role, &leaderID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, err
	}
	u.Patronymic = stringPtr(patronymic)
	u.LeaderID = intPtr(leaderID)
	u.Role = domain.Role(role)
	return u, nil
}
