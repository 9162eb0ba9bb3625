package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Person is a notable public figure (curator) whose book citations are
// tracked. Persons have no derived fields; citation counts live on books.
type Person struct {
	ID       uuid.UUID      `json:"id" db:"id"`
	Name     string         `json:"name" db:"name"`
	Slug     string         `json:"slug" db:"slug"`
	Bio      *string        `json:"bio" db:"bio"`
	ImageURL *string        `json:"image_url" db:"image_url"`
	Country  *string        `json:"country" db:"country"`
	Tags     pq.StringArray `json:"tags" db:"tags"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
