// Package config reads the server settings from the environment, after
// loading an optional .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Addr                 string        `envconfig:"MEDIAVIEW_ADDR"        default:"localhost:6972"`
	MediaAPIURL          string        `envconfig:"MEDIA_API_URL"         default:"http://localhost:8080"`
	MediaPublicURL       string        `envconfig:"MEDIA_PUBLIC_URL"`
	MediaFetchTimeout    time.Duration `envconfig:"MEDIA_FETCH_TIMEOUT"`
	DatabaseURL          string        `envconfig:"DATABASE_URL"`
	GzipMode             int           `envconfig:"GZIP_MODE"             default:"0"`
	GalleryColumns       int           `envconfig:"GALLERY_COLUMNS"       default:"3"`
	GalleryPageSize      int           `envconfig:"GALLERY_PAGE_SIZE"     default:"24"`
	ThumbnailConcurrency int           `envconfig:"THUMBNAIL_CONCURRENCY" default:"8"`
	SessionTTL           time.Duration `envconfig:"SESSION_TTL"           default:"30m"`
	UseCDN               bool          `envconfig:"USE_CDN"               default:"true"`
	CORSOrigins          []string      `envconfig:"CORS_ALLOWED_ORIGINS"`
	CertFile             string        `envconfig:"HTTPS_CERT_FILE"`
	KeyFile              string        `envconfig:"HTTPS_KEY_FILE"`
	LogLevel             slog.Level    `envconfig:"LOG_LEVEL"             default:"debug"`
}

// Load reads .env files (missing ones are fine) and then the environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{LogLevel: slog.LevelInfo}, fmt.Errorf("Unable to load .env file: %w", err)
	}

	return FromEnv()
}

func FromEnv() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return c, err
	}

	return c, c.validate()
}

func (c Config) validate() error {
	var errs []error
	if c.GalleryColumns <= 0 {
		errs = append(errs, fmt.Errorf("GALLERY_COLUMNS must be positive, got %d", c.GalleryColumns))
	}
	if c.GalleryPageSize <= 0 {
		errs = append(errs, fmt.Errorf("GALLERY_PAGE_SIZE must be positive, got %d", c.GalleryPageSize))
	}
	if c.ThumbnailConcurrency <= 0 {
		errs = append(errs, fmt.Errorf("THUMBNAIL_CONCURRENCY must be positive, got %d", c.ThumbnailConcurrency))
	}
	if c.MediaFetchTimeout < 0 {
		errs = append(errs, fmt.Errorf("MEDIA_FETCH_TIMEOUT must not be negative, got %s", c.MediaFetchTimeout))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL))
	}
	for _, origin := range c.CORSOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			errs = append(errs, fmt.Errorf("CORS_ALLOWED_ORIGINS entry %q needs an http(s) scheme", origin))
		}
	}
	return errors.Join(errs...)
}

// TLS reports whether both certificate and key are configured.
func (c Config) TLS() bool {
	return c.CertFile != "" && c.KeyFile != ""
}
