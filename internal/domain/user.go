package domain

import "time"

// Role is the closed set of account roles.
type Role string

const (
	RoleUser   Role = "user"
	RoleLeader Role = "leader"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleLeader
}

// User is an account. A RoleUser account may reference its leader through
// LeaderID; leaders never have one.
type User struct {
	ID           int
	Name         string
	Surname      string
	Patronymic   *string
	Login        string
	PasswordHash string
	Role         Role
	LeaderID     *int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsLeader reports whether u supervises subordinates.
func (u User) IsLeader() bool {
	return u.Role == RoleLeader
}
