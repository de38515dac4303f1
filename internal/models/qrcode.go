package models

import (
	"time"

	"github.com/google/uuid"
)

// QRCode is a versioned payment QR image. At most one row is active.
type QRCode struct {
	ID        uuid.UUID `json:"id"`
	ImageURL  string    `json:"imageUrl"`
	PublicID  string    `json:"publicId"`
	Version   int       `json:"version"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"created_at"`
}
