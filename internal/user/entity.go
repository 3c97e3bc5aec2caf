// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

type User struct {
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}
