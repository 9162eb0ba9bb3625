package model

import "github.com/google/uuid"

// Asynq task types for the book domain.
const (
	TypeMirrorCover = "book:mirror_cover"
)

// MirrorCoverPayload asks the worker to copy an external cover image into
// our object storage and point the book at the mirrored URL.
type MirrorCoverPayload struct {
	BookID   uuid.UUID `json:"book_id"`
	CoverURL string    `json:"cover_url"`
}
