package dto

import (
	"time"

	"github.com/Badsnus/campus-events/internal/domain/entity"
)

type UserResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	Bio            string    `json:"bio"`
	TelegramLinked bool      `json:"telegram_linked"`
	CreatedAt      time.Time `json:"created_at"`
}

func ToUserResponse(u *entity.User) *UserResponse {
	return &UserResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           string(u.Role),
		Bio:            u.Bio,
		TelegramLinked: u.TelegramID != nil,
		CreatedAt:      u.CreatedAt,
	}
}

func ToUserResponses(users []entity.User) []*UserResponse {
	result := make([]*UserResponse, 0, len(users))
	for i := range users {
		result = append(result, ToUserResponse(&users[i]))
	}
	return result
}

type UpdateProfileRequest struct {
	Name string `json:"name" binding:"required"`
	Bio  string `json:"bio"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}
