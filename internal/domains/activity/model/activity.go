package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ActivityKind discriminates the payload variant of a feed entry.
type ActivityKind string

const (
	KindStatusUpdate        ActivityKind = "status_update"
	KindGoalSet             ActivityKind = "goal_set"
	KindTextPost            ActivityKind = "text_post"
	KindBatchRecommendation ActivityKind = "batch_recommendation"
)

func (k ActivityKind) IsValid() bool {
	switch k {
	case KindStatusUpdate, KindGoalSet, KindTextPost, KindBatchRecommendation:
		return true
	}
	return false
}

// Payload is the kind-specific body of an activity. Each variant carries
// only its own fields; the kind tag lives on the Activity row.
type Payload interface {
	Kind() ActivityKind
}

// StatusUpdatePayload records a reading-status change for a book.
type StatusUpdatePayload struct {
	BookID    uuid.UUID `json:"book_id"`
	BookTitle string    `json:"book_title"`
	Status    string    `json:"status"`
}

func (StatusUpdatePayload) Kind() ActivityKind { return KindStatusUpdate }

// GoalSetPayload records a yearly reading goal.
type GoalSetPayload struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

func (GoalSetPayload) Kind() ActivityKind { return KindGoalSet }

// TextPostPayload is a free-form post.
type TextPostPayload struct {
	Text string `json:"text"`
}

func (TextPostPayload) Kind() ActivityKind { return KindTextPost }

// BatchRecommendationPayload records a batch of citations assigned to a
// person through the import pipeline.
type BatchRecommendationPayload struct {
	PersonID   uuid.UUID   `json:"person_id"`
	PersonName string      `json:"person_name"`
	BookIDs    []uuid.UUID `json:"book_ids"`
}

func (BatchRecommendationPayload) Kind() ActivityKind { return KindBatchRecommendation }

// Activity is one feed entry: a kind tag plus its variant payload,
// stored as a jsonb log row.
type Activity struct {
	ID        uuid.UUID    `json:"id"`
	UserName  string       `json:"user_name"`
	Kind      ActivityKind `json:"kind"`
	Payload   Payload      `json:"payload"`
	Likes     int          `json:"likes"`
	Comments  int          `json:"comments"`
	CreatedAt time.Time    `json:"created_at"`
}

// UnmarshalPayload decodes a raw jsonb payload into the variant named by
// kind.
func UnmarshalPayload(kind ActivityKind, raw []byte) (Payload, error) {
	switch kind {
	case KindStatusUpdate:
		var p StatusUpdatePayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("failed to decode status_update payload: %w", err)
		}
		return p, nil
	case KindGoalSet:
		var p GoalSetPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("failed to decode goal_set payload: %w", err)
		}
		return p, nil
	case KindTextPost:
		var p TextPostPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("failed to decode text_post payload: %w", err)
		}
		return p, nil
	case KindBatchRecommendation:
		var p BatchRecommendationPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("failed to decode batch_recommendation payload: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
