package converter

import (
	"car-rental-admin/internal/delivery/dto"
	"car-rental-admin/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	return &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      entity.RoleName(user.RoleID),
		Avatar:    user.Avatar,
		Language:  user.Language,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func UserToSummary(user *entity.User) *dto.UserSummary {
	if user == nil {
		return nil
	}
	return &dto.UserSummary{ID: user.ID, FullName: user.FullName, Avatar: user.Avatar}
}

func UsersToSummaries(users []entity.User) []dto.UserSummary {
	summaries := make([]dto.UserSummary, len(users))
	for i := range users {
		summaries[i] = *UserToSummary(&users[i])
	}
	return summaries
}
