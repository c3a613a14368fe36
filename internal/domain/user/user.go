package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already in use")
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	Age          *int      `json:"age,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// New builds a user ready for persistence. Users are immutable after
// registration, so UpdatedAt only ever equals CreatedAt in this core.
func New(name, email, passwordHash string, age *int) User {
	now := time.Now().UTC()

	return User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Age:          age,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
