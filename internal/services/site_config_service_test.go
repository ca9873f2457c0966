package services

import (
	"context"
	"errors"
	"testing"
)

func TestSiteConfigGetMergesDefaults(t *testing.T) {
	store := &fakeSiteConfig{data: map[string]interface{}{
		"businessName": "Custom Shop",
		"extraKey":     "kept",
	}}
	svc := NewSiteConfigService(store)

	cfg, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if cfg["businessName"] != "Custom Shop" {
		t.Errorf("stored value should win: %v", cfg["businessName"])
	}
	if cfg["extraKey"] != "kept" {
		t.Errorf("unknown stored keys should survive: %v", cfg["extraKey"])
	}
	if _, ok := cfg["heroText"]; !ok {
		t.Error("missing keys should resolve from defaults")
	}
}

func TestSiteConfigGetEmptyStore(t *testing.T) {
	svc := NewSiteConfigService(&fakeSiteConfig{})

	cfg, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if cfg["businessName"] == "" || cfg["businessName"] == nil {
		t.Error("defaults should fill an empty store")
	}
}

func TestSiteConfigUpdateMerges(t *testing.T) {
	store := &fakeSiteConfig{data: map[string]interface{}{
		"businessName": "Custom Shop",
		"tagline":      "old tagline",
	}}
	svc := NewSiteConfigService(store)

	cfg, err := svc.Update(context.Background(), map[string]interface{}{"tagline": "new tagline"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if cfg["tagline"] != "new tagline" {
		t.Errorf("tagline = %v", cfg["tagline"])
	}
	if cfg["businessName"] != "Custom Shop" {
		t.Errorf("untouched stored keys must survive a partial update: %v", cfg["businessName"])
	}
	if store.data["tagline"] != "new tagline" {
		t.Errorf("store not updated: %v", store.data)
	}
}

func TestSiteConfigUpdateRejectsEmpty(t *testing.T) {
	svc := NewSiteConfigService(&fakeSiteConfig{})

	if _, err := svc.Update(context.Background(), map[string]interface{}{}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
