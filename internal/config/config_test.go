package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "RECEIPT_BACKEND", "ORDER_ID_STRATEGY", "CATALOG_CACHE_TTL", "CORS_ORIGINS", "PUBLIC_APP_URL"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8081" {
		t.Errorf("Port: got %q", cfg.Port)
	}
	if cfg.CatalogCacheTTL != 5*time.Minute {
		t.Errorf("CatalogCacheTTL: got %v", cfg.CatalogCacheTTL)
	}
	if cfg.OrderIDStrategy != "sequential" || cfg.ReceiptBackend != "local" {
		t.Errorf("strategy/backend: got %q/%q", cfg.OrderIDStrategy, cfg.ReceiptBackend)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:5173" {
		t.Errorf("CORSOrigins: got %v", cfg.CORSOrigins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ORDER_ID_STRATEGY", "random")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("PUBLIC_APP_URL", "https://pedidos.example/")
	t.Setenv("RECEIPT_BACKEND", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9000" || cfg.OrderIDStrategy != "random" {
		t.Errorf("got port %q strategy %q", cfg.Port, cfg.OrderIDStrategy)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins: got %v", cfg.CORSOrigins)
	}
	if cfg.PublicAppURL != "https://pedidos.example" {
		t.Errorf("PublicAppURL: got %q", cfg.PublicAppURL)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"imgbb without key": {"RECEIPT_BACKEND": "imgbb", "IMGBB_API_KEY": ""},
		"unknown backend":   {"RECEIPT_BACKEND": "drive"},
		"unknown strategy":  {"RECEIPT_BACKEND": "", "ORDER_ID_STRATEGY": "uuid"},
		"bad ttl":           {"RECEIPT_BACKEND": "", "CATALOG_CACHE_TTL": "soon"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("expected error")
			}
		})
	}
}
