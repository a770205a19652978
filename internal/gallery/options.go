package gallery

import (
	"github.com/btmxh/mediaview/internal/media"
	"github.com/btmxh/mediaview/internal/player"
)

const DefaultColumns = 3
const DefaultThumbnailConcurrency = 8

type config struct {
	columns              int
	showThumbnails       bool
	enableLightbox       bool
	onItemClick          func(media.Descriptor)
	thumbnailConcurrency int
	playerOptions        []player.Option
}

func defaultConfig() config {
	return config{
		columns:              DefaultColumns,
		showThumbnails:       true,
		enableLightbox:       true,
		thumbnailConcurrency: DefaultThumbnailConcurrency,
	}
}

type Option func(*config)

func WithColumns(columns int) Option {
	return func(c *config) {
		if columns > 0 {
			c.columns = columns
		}
	}
}

func WithThumbnails(show bool) Option {
	return func(c *config) { c.showThumbnails = show }
}

func WithLightbox(enable bool) Option {
	return func(c *config) { c.enableLightbox = enable }
}

// WithItemClick replaces the lightbox with a custom selection handler.
func WithItemClick(onItemClick func(media.Descriptor)) Option {
	return func(c *config) { c.onItemClick = onItemClick }
}

func WithThumbnailConcurrency(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.thumbnailConcurrency = n
		}
	}
}

// WithPlayerOptions adds options for the lightbox player. Controls and
// autoplay are always forced on.
func WithPlayerOptions(opts ...player.Option) Option {
	return func(c *config) { c.playerOptions = append(c.playerOptions, opts...) }
}
