package dto

import (
	"time"

	"artist-hub/domain/model"
)

// SyncResult is returned by the sync trigger.
type SyncResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Synced  int    `json:"synced,omitempty"`
	Skipped int    `json:"skipped,omitempty"`
	Total   int    `json:"total,omitempty"`
}

// PlatformStatus describes one platform connection for the presentation layer.
type PlatformStatus struct {
	Connected       bool       `json:"connected"`
	DisplayIdentity string     `json:"display_identity,omitempty"`
	ConnectedAt     *time.Time `json:"connected_at,omitempty"`
}

// IntegrationStatus is the per-owner status projection.
type IntegrationStatus struct {
	YouTube   PlatformStatus `json:"youtube"`
	Instagram PlatformStatus `json:"instagram"`
	Counts    MediaCounts    `json:"counts"`
}

// MediaCounts aggregates synced items grouped by short-form classification.
type MediaCounts struct {
	Shorts int64 `json:"shorts"`
	Videos int64 `json:"videos"`
	Total  int64 `json:"total"`
}

// SyncEvent is published after a completed reconciliation run.
type SyncEvent struct {
	OwnerID    string    `json:"owner_id"`
	Platform   string    `json:"platform"`
	Created    int       `json:"created"`
	Updated    int       `json:"updated"`
	Total      int       `json:"total"`
	OccurredAt time.Time `json:"occurred_at"`
}

// CatalogListRequest is the filterable catalog read.
// Filter is one of "all", "shorts", "videos" (default "all").
type CatalogListRequest struct {
	Filter   string `json:"filter,omitempty"`
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
}

// CatalogPage is one page of the local catalog ordered by published_at desc.
type CatalogPage struct {
	Items    []model.MediaItem `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}
