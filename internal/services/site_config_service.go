package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"engrave-backend/internal/cache"
)

const siteConfigID = "main"

// siteConfigDefaults are the in-code fallbacks the stored blob is merged over.
// Missing keys always resolve; an empty database still renders a working site.
var siteConfigDefaults = map[string]interface{}{
	"businessName":  "Veteran Engraving",
	"tagline":       "Custom laser engraving",
	"contactEmail":  "",
	"contactPhone":  "",
	"heroText":      "Quality laser engraving for cards, pens, tumblers, and signs.",
	"turnaroundMin": "3 business days",
	"showPricing":   false,
}

// SiteConfigService serves the public site configuration blob with a Redis
// read-through cache.
type SiteConfigService struct {
	Store SiteConfigStore
}

func NewSiteConfigService(store SiteConfigStore) *SiteConfigService {
	return &SiteConfigService{Store: store}
}

// Get returns the effective config: stored values merged over the defaults.
func (s *SiteConfigService) Get(ctx context.Context) (map[string]interface{}, error) {
	if raw, ok := cache.GetCached(ctx, cache.SiteConfigKey); ok {
		var data map[string]interface{}
		if err := json.Unmarshal(raw, &data); err == nil {
			return data, nil
		}
		log.Printf("[Config] Corrupt cache entry ignored")
	}

	stored, err := s.Store.Get(ctx, siteConfigID)
	if err != nil {
		return nil, fmt.Errorf("config read failed: %w", err)
	}

	merged := make(map[string]interface{}, len(siteConfigDefaults)+len(stored))
	for k, v := range siteConfigDefaults {
		merged[k] = v
	}
	for k, v := range stored {
		merged[k] = v
	}

	if raw, err := json.Marshal(merged); err == nil {
		cache.SetCached(ctx, cache.SiteConfigKey, raw, 10*time.Minute)
	}

	return merged, nil
}

// Update merges the submitted keys over the stored blob and replaces it,
// then drops the cache entry so the next read sees the new values.
func (s *SiteConfigService) Update(ctx context.Context, updates map[string]interface{}) (map[string]interface{}, error) {
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no config keys submitted", ErrValidation)
	}

	stored, err := s.Store.Get(ctx, siteConfigID)
	if err != nil {
		return nil, fmt.Errorf("config read failed: %w", err)
	}
	if stored == nil {
		stored = make(map[string]interface{})
	}
	for k, v := range updates {
		stored[k] = v
	}

	if err := s.Store.Upsert(ctx, siteConfigID, stored); err != nil {
		return nil, fmt.Errorf("config write failed: %w", err)
	}

	cache.InvalidateKeys(ctx, cache.SiteConfigKey)

	return s.Get(ctx)
}
