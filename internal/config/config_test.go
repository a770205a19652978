package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/btmxh/mediaview/internal/gallery"
	"github.com/btmxh/mediaview/internal/services"
)

func TestDefaults(t *testing.T) {
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}

	if cfg.Addr != "localhost:6972" || cfg.MediaFetchTimeout != 0 || cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.GalleryColumns != gallery.DefaultColumns || cfg.ThumbnailConcurrency != gallery.DefaultThumbnailConcurrency {
		t.Fatalf("gallery defaults out of sync: %+v", cfg)
	}
	if cfg.GalleryPageSize != services.DefaultPagingLimit || cfg.SessionTTL != services.DefaultSessionTTL {
		t.Fatalf("session defaults out of sync: %+v", cfg)
	}
	if cfg.TLS() || !cfg.UseCDN {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestOverrides(t *testing.T) {
	t.Setenv("MEDIAVIEW_ADDR", ":8000")
	t.Setenv("MEDIA_API_URL", "http://backend:3000")
	t.Setenv("MEDIA_FETCH_TIMEOUT", "5s")
	t.Setenv("GALLERY_COLUMNS", "4")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("USE_CDN", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("HTTPS_CERT_FILE", "cert.pem")
	t.Setenv("HTTPS_KEY_FILE", "key.pem")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}

	if cfg.Addr != ":8000" || cfg.MediaAPIURL != "http://backend:3000" || cfg.MediaFetchTimeout != 5*time.Second {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.GalleryColumns != 4 || cfg.SessionTTL != time.Hour || cfg.UseCDN || !cfg.TLS() || cfg.LogLevel != slog.LevelWarn {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", cfg.CORSOrigins)
	}
}

func TestInvalidNumber(t *testing.T) {
	t.Setenv("GZIP_MODE", "fast")

	if _, err := FromEnv(); err == nil || !strings.Contains(err.Error(), "GZIP_MODE") {
		t.Fatalf("expected error naming GZIP_MODE, got %v", err)
	}
}

func TestValidation(t *testing.T) {
	t.Setenv("GALLERY_COLUMNS", "0")
	t.Setenv("MEDIA_FETCH_TIMEOUT", "-1s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "example.com")

	_, err := FromEnv()
	if err == nil {
		t.Fatalf("expected an error")
	}
	for _, name := range []string{"GALLERY_COLUMNS", "MEDIA_FETCH_TIMEOUT", "CORS_ALLOWED_ORIGINS"} {
		if !strings.Contains(err.Error(), name) {
			t.Fatalf("error should mention %s: %v", name, err)
		}
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("GALLERY_PAGE_SIZE=12\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	// restored on cleanup; godotenv only fills variables that are unset
	t.Setenv("GALLERY_PAGE_SIZE", "")
	os.Unsetenv("GALLERY_PAGE_SIZE")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.GalleryPageSize != 12 {
		t.Fatalf("expected page size from .env, got %d", cfg.GalleryPageSize)
	}
}

func TestLoadMissingDotEnv(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("missing .env should be ignored, got %v", err)
	}
}
