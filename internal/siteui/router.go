package siteui

import (
	"log/slog"
	"net/http"

	"empowerorphansweb/internal/service"
)

type Opts struct {
	Logger *slog.Logger

	Carousel  *service.CarouselService
	Events    *service.EventsService
	Donations *service.DonationService
	Cache     *PageCache
	PublicURL string
}

func New(opts Opts) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if opts.Carousel == nil || opts.Events == nil || opts.Donations == nil {
		logger.Warn("siteui: missing services",
			"carousel", opts.Carousel != nil,
			"events", opts.Events != nil,
			"donations", opts.Donations != nil)
	}

	app := &app{
		logger:      logger,
		carouselSvc: opts.Carousel,
		eventsSvc:   opts.Events,
		donationSvc: opts.Donations,
		cache:       opts.Cache,
		publicURL:   opts.PublicURL,
	}

	t, err := parseTemplates()
	if err != nil {
		logger.Error("siteui: parse templates failed", "err", err)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal server error", http.StatusInternalServerError)
		})
	}
	app.templates = t

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", app.cached("/", app.handleHome))
	mux.HandleFunc("GET /about", app.cached("/about", app.handleAbout))
	mux.HandleFunc("GET /chapters", app.cached("/chapters", app.handleChapters))
	mux.HandleFunc("GET /donate", app.cached("/donate", app.handleDonate))
	mux.HandleFunc("GET /events", app.cached("/events", app.handleEvents))
	mux.HandleFunc("GET /robots.txt", app.handleRobots)
	mux.HandleFunc("GET /sitemap.xml", app.handleSitemap)
	mux.HandleFunc("GET /healthz", app.handleHealthz)
	mux.HandleFunc("/", app.handleNotFound)

	return mux
}

type app struct {
	logger *slog.Logger

	carouselSvc *service.CarouselService
	eventsSvc   *service.EventsService
	donationSvc *service.DonationService

	cache     *PageCache
	publicURL string

	templates *templates
}
