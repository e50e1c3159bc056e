package dto

import "github.com/google/uuid"

type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Image *string   `json:"image,omitempty"`
	Bio   string    `json:"bio"`
}

type UpdateBioRequest struct {
	Bio string `json:"bio" binding:"max=500"`
}
