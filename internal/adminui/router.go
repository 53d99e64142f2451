package adminui

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"empowerorphansweb/internal/auth"
	"empowerorphansweb/internal/domain"
	"empowerorphansweb/internal/httpapi"
	"empowerorphansweb/internal/ratelimit"
	"empowerorphansweb/internal/service"
)

type Opts struct {
	Logger *slog.Logger

	Auth      *service.AuthService
	Roles     service.RolesStore
	Carousel  *service.CarouselService
	Events    *service.EventsService
	Donations *service.DonationService
	Guard     *ratelimit.LoginGuard

	CookieCodec  auth.CookieCodec
	CookieSecure bool
	SessionTTL   time.Duration
}

func New(opts Opts) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if opts.Auth == nil || opts.Roles == nil {
		return http.NotFoundHandler()
	}

	app := &app{
		logger:       logger,
		authSvc:      opts.Auth,
		roles:        opts.Roles,
		carouselSvc:  opts.Carousel,
		eventsSvc:    opts.Events,
		donationSvc:  opts.Donations,
		guard:        opts.Guard,
		cookieCodec:  opts.CookieCodec,
		cookieSecure: opts.CookieSecure,
		sessionTTL:   opts.SessionTTL,
	}

	t, err := parseTemplates()
	if err != nil {
		logger.Error("adminui: parse templates failed", "err", err)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal server error", http.StatusInternalServerError)
		})
	}
	app.templates = t

	mux := http.NewServeMux()
	mux.HandleFunc("GET /admin", app.redirectAdmin)
	mux.HandleFunc("GET /admin/{$}", app.requirePage(app.handleDashboard))
	mux.HandleFunc("GET /admin/login", app.handleLoginGet)
	mux.HandleFunc("POST /admin/login", app.handleLoginPost)
	mux.HandleFunc("POST /admin/logout", app.handleLogoutPost)

	mux.HandleFunc("GET /admin/api/carousel", app.requireAPI(app.handleCarouselList))
	mux.HandleFunc("POST /admin/api/carousel", app.requireAPI(app.handleCarouselUpload))
	mux.HandleFunc("POST /admin/api/carousel/reorder", app.requireAPI(app.handleCarouselReorder))
	mux.HandleFunc("PUT /admin/api/carousel/{id}/position", app.requireAPI(app.handleCarouselPosition))
	mux.HandleFunc("DELETE /admin/api/carousel/{id}", app.requireAPI(app.handleCarouselDelete))
	mux.HandleFunc("GET /admin/api/events", app.requireAPI(app.handleEventsList))
	mux.HandleFunc("POST /admin/api/events", app.requireAPI(app.handleEventCreate))
	mux.HandleFunc("PUT /admin/api/events/{id}", app.requireAPI(app.handleEventUpdate))
	mux.HandleFunc("DELETE /admin/api/events/{id}", app.requireAPI(app.handleEventDelete))
	mux.HandleFunc("GET /admin/api/donations", app.requireAPI(app.handleDonationGet))
	mux.HandleFunc("PUT /admin/api/donations", app.requireAPI(app.handleDonationUpdate))

	return mux
}

type app struct {
	logger *slog.Logger

	authSvc     *service.AuthService
	roles       service.RolesStore
	carouselSvc *service.CarouselService
	eventsSvc   *service.EventsService
	donationSvc *service.DonationService
	guard       *ratelimit.LoginGuard

	cookieCodec  auth.CookieCodec
	cookieSecure bool
	sessionTTL   time.Duration

	templates *templates
}

func (a *app) redirectAdmin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/admin/", http.StatusFound)
}

type adminHandler func(w http.ResponseWriter, r *http.Request, caller service.Caller)

// requirePage gates dashboard pages. Visitors without a session are sent to
// the login form with the original path preserved; signed-in users without
// the admin role get a plain 404 so the dashboard's existence is not
// advertised.
func (a *app) requirePage(next adminHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, _, ok := a.currentUser(r)
		if !ok {
			http.Redirect(w, r, loginURL(r.URL.Path), http.StatusFound)
			return
		}
		isAdmin, err := a.roles.IsAdmin(r.Context(), u.ID)
		if err != nil {
			a.logger.Error("admin role lookup failed", "err", err)
			http.NotFound(w, r)
			return
		}
		if !isAdmin {
			http.NotFound(w, r)
			return
		}
		next(w, r, service.Caller{UserID: u.ID, IP: ratelimit.ClientIP(r)})
	}
}

// requireAPI gates the JSON endpoints. The admin-role and rate-limit checks
// live in the services; this only establishes who is calling.
func (a *app) requireAPI(next adminHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, _, ok := a.currentUser(r)
		if !ok {
			httpapi.WriteFailure(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(w, r, service.Caller{UserID: u.ID, IP: ratelimit.ClientIP(r)})
	}
}

func (a *app) currentUser(r *http.Request) (domain.User, string, bool) {
	c, err := r.Cookie(auth.SessionCookieName)
	if err != nil || c.Value == "" {
		return domain.User{}, "", false
	}
	sessID, ok := a.cookieCodec.DecodeSessionID(c.Value)
	if !ok {
		return domain.User{}, "", false
	}
	u, err := a.authSvc.GetUserForSession(r.Context(), sessID)
	if err != nil {
		return domain.User{}, "", false
	}
	return u, sessID, true
}

func loginURL(target string) string {
	if target == "" {
		return "/admin/login"
	}
	return "/admin/login?redirectTo=" + url.QueryEscape(target)
}

// safeRedirect keeps post-login redirects inside the admin area.
func safeRedirect(target string) string {
	if strings.HasPrefix(target, "/admin") && !strings.HasPrefix(target, "//") {
		return target
	}
	return "/admin/"
}
