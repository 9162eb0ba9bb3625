package model

import (
	"time"

	"github.com/google/uuid"
)

// ImportCandidate is an extracted (title, author, relevance) tuple held
// in memory between extraction and confirmation. Never persisted.
type ImportCandidate struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Relevance string    `json:"relevance"`
}

// AssignmentEntry is a confirmed book awaiting curator assignment. It
// carries the extraction relevance forward to seed the citation's quote
// excerpt.
type AssignmentEntry struct {
	ID        uuid.UUID `json:"id"`
	BookID    uuid.UUID `json:"book_id"`
	BookTitle string    `json:"book_title"`
	Relevance string    `json:"relevance"`
	SourceURL string    `json:"source_url"`
}

// Session is one operator's pipeline state: the review queue plus the
// assignment stage. Sessions live in memory only.
type Session struct {
	ID         uuid.UUID         `json:"id"`
	SourceURL  string            `json:"source_url"`
	Candidates []ImportCandidate `json:"candidates"`
	Entries    []AssignmentEntry `json:"entries"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// BatchFailure describes one item that failed during a batch operation.
type BatchFailure struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	Reason string    `json:"reason"`
}

// BatchReport summarizes a confirm-all or assign-all run. Failed items
// stay in their queue so the operator can retry them.
type BatchReport struct {
	Total     int            `json:"total"`
	Succeeded int            `json:"succeeded"`
	Failed    []BatchFailure `json:"failed"`
}
