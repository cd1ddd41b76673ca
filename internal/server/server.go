package server

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"FXDashboard/internal/charts"
	"FXDashboard/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options configures the dashboard surface.
type Options struct {
	Title          string
	Windows        []string // radio options, e.g. "10-day"
	DefaultWindow  string
	Benchmarks     []string // instrument keys plotted against the primary
	AllowedOrigins []string
	RateLimit      int
}

// Handler serves the dashboard page, chart images and the JSON API.
type Handler struct {
	opts     Options
	store    *store.Store
	renderer *charts.Renderer
}

// NewRouter builds the gin engine with all routes and middleware.
func NewRouter(opts Options, st *store.Store, renderer *charts.Renderer) *gin.Engine {
	h := &Handler{opts: opts, store: st, renderer: renderer}

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  opts.AllowedOrigins,
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}))
	router.Use(RateLimit(opts.RateLimit))
	router.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	router.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "Route not found", nil)
	})

	router.GET("/health", h.Health)
	router.GET("/", h.Dashboard)

	chartGroup := router.Group("/charts")
	{
		chartGroup.GET("/price.svg", h.PriceChart)
		chartGroup.GET("/range.svg", h.RangeChart)
		chartGroup.GET("/correlation.svg", h.CorrelationChart)
	}

	api := router.Group("/api/v1")
	{
		api.GET("/instruments", h.ListInstruments)
		api.GET("/instruments/:key/bars", h.InstrumentBars)
		api.GET("/range", h.RangeSeries)
	}

	return router
}
