package adminui

import (
	"net/http"

	"empowerorphansweb/internal/auth"
	"empowerorphansweb/internal/ratelimit"
	"empowerorphansweb/internal/service"
)

func (a *app) handleLoginGet(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := a.currentUser(r); ok {
		http.Redirect(w, r, "/admin/", http.StatusFound)
		return
	}
	a.templates.renderLogin(w, http.StatusOK, loginViewData{
		Title:      "Admin Login",
		RedirectTo: r.URL.Query().Get("redirectTo"),
	})
}

func (a *app) handleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		a.templates.renderLogin(w, http.StatusBadRequest, loginViewData{
			Title: "Admin Login",
			Error: "Invalid form submission",
		})
		return
	}

	email := r.PostFormValue("email")
	password := r.PostFormValue("password")
	redirectTo := r.PostFormValue("redirectTo")

	data := loginViewData{
		Title:      "Admin Login",
		Email:      email,
		RedirectTo: redirectTo,
	}

	if a.guard != nil && !a.guard.Allow(r.Context(), ratelimit.ClientIP(r)) {
		data.Error = ratelimit.LoginMessage
		a.templates.renderLogin(w, http.StatusTooManyRequests, data)
		return
	}

	_, sessID, err := a.authSvc.Login(r.Context(), email, password, ratelimit.ClientIP(r), r.UserAgent())
	if err != nil {
		// All login failures read the same so the form cannot be used to
		// probe accounts.
		data.Error = "Invalid email or password"
		a.templates.renderLogin(w, http.StatusUnauthorized, data)
		return
	}

	auth.SetSessionCookie(w, a.cookieCodec.EncodeSessionID(sessID), a.sessionTTL, a.cookieSecure)
	http.Redirect(w, r, safeRedirect(redirectTo), http.StatusFound)
}

func (a *app) handleLogoutPost(w http.ResponseWriter, r *http.Request) {
	if _, sessID, ok := a.currentUser(r); ok {
		if err := a.authSvc.Logout(r.Context(), sessID); err != nil {
			a.logger.Error("logout failed", "err", err)
		}
	}
	auth.ClearSessionCookie(w, a.cookieSecure)
	http.Redirect(w, r, "/admin/login", http.StatusFound)
}

func (a *app) handleDashboard(w http.ResponseWriter, r *http.Request, caller service.Caller) {
	data := dashboardViewData{Title: "Admin Dashboard"}

	slides, err := a.carouselSvc.List(r.Context(), caller)
	if err != nil {
		data.Error = userMessage(err)
	} else {
		data.Slides = slides
	}

	events, err := a.eventsSvc.List(r.Context(), caller)
	if err != nil {
		if data.Error == "" {
			data.Error = userMessage(err)
		}
	} else {
		data.Events = events
	}

	progress, err := a.donationSvc.Get(r.Context(), caller)
	if err != nil {
		if data.Error == "" {
			data.Error = userMessage(err)
		}
	} else {
		data.Progress = progress
	}

	a.templates.renderDashboard(w, http.StatusOK, data)
}
