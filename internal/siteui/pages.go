package siteui

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"empowerorphansweb/internal/domain"
	"empowerorphansweb/internal/service"
)

func (a *app) handleHome(w http.ResponseWriter, r *http.Request) {
	data := homeViewData{Title: "Empower Orphans"}

	if a.carouselSvc != nil {
		slides, err := a.carouselSvc.HomeSlides(r.Context())
		if err != nil {
			a.logger.Error("load hero slides failed", "err", err)
		} else {
			data.Slides = slides
		}
	}
	data.Progress = a.loadProgress(r.Context())

	a.templates.renderHome(w, http.StatusOK, data)
}

func (a *app) handleAbout(w http.ResponseWriter, r *http.Request) {
	a.templates.renderAbout(w, http.StatusOK, viewData{Title: "About - Empower Orphans"})
}

func (a *app) handleChapters(w http.ResponseWriter, r *http.Request) {
	a.templates.renderChapters(w, http.StatusOK, viewData{Title: "Chapters - Empower Orphans"})
}

func (a *app) handleDonate(w http.ResponseWriter, r *http.Request) {
	data := donateViewData{Title: "Donate - Empower Orphans"}
	data.Progress = a.loadProgress(r.Context())

	a.templates.renderDonate(w, http.StatusOK, data)
}

func (a *app) handleEvents(w http.ResponseWriter, r *http.Request) {
	data := eventsViewData{Title: "Events - Empower Orphans"}

	if a.eventsSvc != nil {
		events, err := a.eventsSvc.PublicList(r.Context())
		if err != nil {
			a.logger.Error("load events failed", "err", err)
		} else {
			data.Upcoming, data.Past = splitEvents(events, time.Now())
		}
	}

	a.templates.renderEvents(w, http.StatusOK, data)
}

func (a *app) handleNotFound(w http.ResponseWriter, r *http.Request) {
	a.templates.renderNotFound(w, viewData{Title: "Page Not Found - Empower Orphans"})
}

func (a *app) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
}

func (a *app) handleRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "User-agent: *\nAllow: /\nDisallow: /admin\n\nSitemap: %s/sitemap.xml\n", strings.TrimSuffix(a.publicURL, "/"))
}

var sitemapPaths = []string{"/", "/about", "/chapters", "/donate", "/events"}

func (a *app) handleSitemap(w http.ResponseWriter, r *http.Request) {
	base := strings.TrimSuffix(a.publicURL, "/")

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?>`+"\n")
	fmt.Fprint(w, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`+"\n")
	for _, p := range sitemapPaths {
		fmt.Fprintf(w, "  <url><loc>%s%s</loc></url>\n", base, p)
	}
	fmt.Fprint(w, "</urlset>\n")
}

// splitEvents partitions events around now: upcoming soonest-first, past
// most-recent-first.
func splitEvents(events []domain.Event, now time.Time) (upcoming, past []eventView) {
	for _, ev := range events {
		v := eventView{
			Title:       ev.Title,
			Description: ev.Description,
			When:        ev.Date.Format("January 2, 2006"),
			Location:    ev.Location,
			Link:        ev.Link,
			Chapter:     chapterLabel(ev.Chapter),
			date:        ev.Date,
		}
		if ev.Date.Before(now) {
			past = append(past, v)
		} else {
			upcoming = append(upcoming, v)
		}
	}
	// ListEvents returns newest-first, which is already right for past.
	sort.SliceStable(upcoming, func(i, j int) bool { return upcoming[i].date.Before(upcoming[j].date) })
	return upcoming, past
}

func chapterLabel(c domain.Chapter) string {
	switch c {
	case domain.ChapterCarleton:
		return "Carleton"
	case domain.ChapterUOttawa:
		return "uOttawa"
	default:
		return "Both chapters"
	}
}

func (a *app) loadProgress(ctx context.Context) donationView {
	if a.donationSvc == nil {
		return donationView{}
	}
	p, err := a.donationSvc.Progress(ctx)
	if err != nil {
		a.logger.Error("load donation progress failed", "err", err)
		return donationView{Goal: p.Goal}
	}
	return progressView(p)
}

func progressView(p service.Progress) donationView {
	v := donationView{Amount: p.Amount, Goal: p.Goal}
	if p.Goal > 0 {
		pct := p.Amount * 100 / p.Goal
		if pct > 100 {
			pct = 100
		}
		v.Percent = pct
	}
	return v
}
