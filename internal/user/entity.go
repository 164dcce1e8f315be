// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

type User struct {
	ID        int64     `db:"id"         json:"id"`
	Email     string    `db:"email"      json:"email"`
	Username  string    `db:"username"   json:"username"`
	Role      string    `db:"role"       json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

func Roles() []string {
	return []string{RoleAdmin, RoleStudent}
}
