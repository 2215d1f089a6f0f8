// Package store is the persistence boundary consumed by action executors.
// Records are keyed by (user_id, id); classification and completion never
// touch it.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned for lookups and updates against a missing record.
var ErrNotFound = errors.New("store: record not found")

// Content statuses.
const (
	StatusGenerated = "generated"
	StatusScheduled = "scheduled"
	StatusPublished = "published"
)

type ContentRecord struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Channel     string     `json:"channel"`
	Platform    string     `json:"platform"`
	ContentType string     `json:"content_type"`
	PostType    string     `json:"post_type,omitempty"`
	Idea        string     `json:"idea"`
	Body        string     `json:"body,omitempty"`
	MediaURL    string     `json:"media_url,omitempty"`
	Status      string     `json:"status"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type LeadRecord struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone,omitempty"`
	Source     string     `json:"source"`
	Status     string     `json:"status"`
	Remarks    string     `json:"remarks,omitempty"`
	FollowUpAt *time.Time `json:"follow_up_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ContentFilter narrows a content listing. Query is free-text matching over
// idea and body; empty fields do not filter.
type ContentFilter struct {
	Status   string
	Platform string
	Query    string
	Since    *time.Time
	Until    *time.Time
	Limit    int
}

// LeadFilter narrows a lead listing. Query matches name, email and remarks.
type LeadFilter struct {
	Status string
	Query  string
	Limit  int
}

type ContentStore interface {
	InsertContent(ctx context.Context, rec ContentRecord) error
	UpdateContent(ctx context.Context, rec ContentRecord) error
	DeleteContent(ctx context.Context, userID, id string) error
	ListContent(ctx context.Context, userID string, f ContentFilter) ([]ContentRecord, error)
}

type LeadStore interface {
	InsertLead(ctx context.Context, rec LeadRecord) error
	UpdateLead(ctx context.Context, rec LeadRecord) error
	DeleteLead(ctx context.Context, userID, id string) error
	ListLeads(ctx context.Context, userID string, f LeadFilter) ([]LeadRecord, error)
}

// Store bundles both record families; implementations provide each.
type Store interface {
	ContentStore
	LeadStore
}
