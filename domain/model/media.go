package model

import "time"

// ApprovalState of a synced media item. Items pulled by the sync pipeline
// are auto-approved on creation and the state never changes afterwards.
type ApprovalState string

const (
	ApprovalAutoApproved ApprovalState = "auto_approved"
)

// MediaItem is a media record synced from an external platform catalog.
// Unique on (external_id, owner_id) - the natural key used by reconciliation.
// Only display fields (title, description, thumbnail, view count) are mutable
// after creation; duration, classification, source URL and approval state are
// fixed at first sync. Items are never deleted by the sync pipeline.
type MediaItem struct {
	ID                int64         `json:"id"`
	ExternalID        string        `json:"external_id"`
	OwnerID           string        `json:"owner_id"`
	Title             string        `json:"title"`
	Description       string        `json:"description"`
	SourceURL         string        `json:"source_url"`
	ThumbnailURL      string        `json:"thumbnail_url"`
	DurationSeconds   int64         `json:"duration_seconds"`
	DurationFormatted string        `json:"duration_formatted"`
	ViewCount         int64         `json:"view_count"`
	PublishedAt       time.Time     `json:"published_at"`
	IsShort           bool          `json:"is_short"`
	SourcePlatform    Platform      `json:"source_platform"`
	ApprovalState     ApprovalState `json:"approval_state"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// RemoteMediaItem is one entry of a remote catalog page before enrichment.
type RemoteMediaItem struct {
	ExternalID   string
	Title        string
	Description  string
	SourceURL    string
	ThumbnailURL string
	PublishedAt  time.Time
}

// RemoteMediaDetail carries the per-item fields only available from the
// batched detail lookup.
type RemoteMediaDetail struct {
	DurationRaw string
	ViewCount   int64
}

// SyncRun holds the counters of one reconciliation pass. It is returned to
// the caller and never persisted.
type SyncRun struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Total   int `json:"total"`
}
