package routes

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/btmxh/mediaview/internal/config"
	"github.com/btmxh/mediaview/internal/errs"
	"github.com/btmxh/mediaview/internal/html"
	"github.com/btmxh/mediaview/internal/media"
	"github.com/btmxh/mediaview/internal/mediaapi"
	"github.com/btmxh/mediaview/internal/middlewares"
	"github.com/btmxh/mediaview/internal/services"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

type Deps struct {
	Config   config.Config
	Client   *mediaapi.Client
	Sessions *services.SessionManager
	// AssetsDir holds the scripts/ and styles/ directories.
	AssetsDir string
}

func CreateMainRouter(deps Deps) (http.Handler, error) {
	backend, err := url.Parse(deps.Config.MediaAPIURL)
	if err != nil {
		return nil, fmt.Errorf("Invalid MEDIA_API_URL: %w", err)
	}

	html.SetUseCDN(deps.Config.UseCDN)

	router := gin.New()
	router.UseRawPath = true
	router.Use(gin.Recovery())
	router.Use(middlewares.LogMiddleware())
	router.Use(gzip.Gzip(deps.Config.GzipMode, gzip.WithExcludedPaths([]string{media.APIPrefix, "/ws"})))
	router.Use(middlewares.TokenMiddleware())

	api := router.Group(media.APIPrefix)
	if len(deps.Config.CORSOrigins) > 0 {
		api.Use(middlewares.CORSMiddleware(deps.Config.CORSOrigins))
	}
	api.Any("/*path", MediaProxy(backend))

	if deps.AssetsDir != "" {
		router.Static("/scripts", deps.AssetsDir+"/scripts")
		router.Static("/styles", deps.AssetsDir+"/styles")
	}

	app := router.Group("")
	app.Use(middlewares.ErrorMiddleware(renderError))
	app.Use(middlewares.SessionMiddleware(deps.Sessions, deps.Config.SessionTTL))

	app.GET("/", HomeRouter(deps.Client, deps.Config.GalleryPageSize))
	GalleryRouter(app.Group("/gallery"))
	PlayerRouter(app.Group("/players"))
	WebSocketRouter(app.Group("/ws"))

	return router, nil
}

// renderError shows errors as a toast for htmx requests and as an error page
// otherwise.
func renderError(c *gin.Context, title, description template.HTML) {
	if errs.IsHtmx(c) {
		HxNoswap(c)
		if err := html.ErrorToast(title, description).Render(c.Writer); err != nil {
			slog.Warn("Unable to render error toast", "err", err)
		}
		return
	}

	html.RenderErrorPage(c, title, description)
}

func HxRedirect(c *gin.Context, route string) {
	c.Header("Hx-Redirect", route)
}

func HxNoswap(c *gin.Context) {
	c.Header("Hx-Reswap", "none")
}
