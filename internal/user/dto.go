// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

type UserResponse struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}
