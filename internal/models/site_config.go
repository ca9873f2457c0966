package models

import "time"

// SiteConfig is the single persisted configuration row (id 'main'). Data is a
// JSON blob merged over in-code defaults on read; writes merge-and-replace the
// whole blob.
type SiteConfig struct {
	ID        string                 `json:"id"`
	Data      map[string]interface{} `json:"data"`
	UpdatedAt time.Time              `json:"updated_at"`
}
