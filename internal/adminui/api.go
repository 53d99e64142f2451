package adminui

import (
	"errors"
	"net/http"
	"time"

	"empowerorphansweb/internal/domain"
	"empowerorphansweb/internal/httpapi"
	"empowerorphansweb/internal/service"
)

func (a *app) handleCarouselList(w http.ResponseWriter, r *http.Request, caller service.Caller) {
	slides, err := a.carouselSvc.List(r.Context(), caller)
	if err != nil {
		httpapi.WriteDomainError(w, err)
		return
	}
	httpapi.WriteData(w, slideRows(slides))
}

func (a *app) handleCarouselUpload(w http.ResponseWriter, r *http.Request, caller service.Caller) {
	if err := r.ParseMultipartForm(service.MaxUploadBytes); err != nil {
		httpapi.WriteFailure(w, http.StatusBadRequest, "Invalid upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpapi.WriteFailure(w, http.StatusBadRequest, "An image file is required")
		return
	}
	defer file.Close()

	slide, err := a.carouselSvc.UploadImage(r.Context(), caller, service.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
		Alt:         r.PostFormValue("alt"),
	})
	if err != nil {
		httpapi.WriteDomainError(w, err)
		return
	}
	httpapi.WriteData(w, slideRow(slide))
}

func (a *app) handleCarouselReorder(w http.ResponseWriter, r *http.Request, caller service.Caller) {
	var req struct {
		Order []service.SlideOrder `json:"order"`
	}
	if err := httpapi.DecodeJSON(w, r, &req); err != nil {
		httpapi.WriteFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := a.carouselSvc.Reorder(r.Context(), caller, req.Order); err != nil {
		httpapi.WriteDomainError(w, err)
		return
	}
	httpapi.WriteSuccess(w)
}

func (a *app) handleCarouselPosition(w http.ResponseWriter, r *http.Request, caller service.Caller) {
	var req struct {
		Position *int `json:"position"`
	}
	if err := httpapi.DecodeJSON(w, r, &req); err != nil {
		httpapi.WriteFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := a.carouselSvc.SetPosition(r.Context(), caller, r.PathValue("id"), req.Position); err != nil {
		httpapi.WriteDomainError(w, err)
		return
	}
	httpapi.WriteSuccess(w)
}

func (a *app) handleCarouselDelete(w http.ResponseWriter, r *http.Request, caller service.Caller) {
	if err := a.carouselSvc.DeleteImage(r.Context(), caller, r.PathValue("id")); err != nil {
		httpapi.WriteDomainError(w, err)
		return
	}
	httpapi.WriteSuccess(w)
}

type eventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	Link        string `json:"link"`
	Chapter     string `json:"chapter"`
}

func (req eventRequest) toInput() (service.EventInput, error) {
	in := service.EventInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Link:        req.Link,
		Chapter:     domain.Chapter(req.Chapter),
	}
	if req.Date != "" {
		d, err := parseEventDate(req.Date)
		if err != nil {
			return service.EventInput{}, domain.NewValidationError(map[string]string{"date": "must be an ISO date"})
		}
		in.Date = d
	}
	return in, nil
}

func parseEventDate(s string) (time.Time, error) {
	if d, err := time.Parse(time.RFC3339, s); err == nil {
		return d, nil
	}
	return time.Parse("2006-01-02", s)
}

func (a *app) handleEventsList(w http.ResponseWriter, r *http.Request, caller service.Caller) {
	events, err := a.eventsSvc.List(r.Context(), caller)
	if err != nil {
		httpapi.WriteDomainError(w, err)
		return
	}
	httpapi.WriteData(w, eventRows(events))
}

func (a *app) handleEventCreate(w http.ResponseWriter, r *http.Request, caller service.Caller) {
	var req eventRequest
	if err := httpapi.DecodeJSON(w, r, &req); err != nil {
		httpapi.WriteFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	in, err := req.toInput()
	if err != nil {
		httpapi.WriteDomainError(w, err)
		return
	}

	ev, err := a.eventsSvc.Create(r.Context(), caller, in)
	if err != nil {
		httpapi.WriteDomainError(w, err)
		return
	}
	httpapi.WriteData(w, eventRow(ev))
}

func (a *app) handleEventUpdate(w http.ResponseWriter, r *http.Request, caller service.Caller) {
	var req eventRequest
	if err := httpapi.DecodeJSON(w, r, &req); err != nil {
		httpapi.WriteFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	in, err := req.toInput()
	if err != nil {
		httpapi.WriteDomainError(w, err)
		return
	}

	ev, err := a.eventsSvc.Update(r.Context(), caller, r.PathValue("id"), in)
	if err != nil {
		httpapi.WriteDomainError(w, err)
		return
	}
	httpapi.WriteData(w, eventRow(ev))
}

func (a *app) handleEventDelete(w http.ResponseWriter, r *http.Request, caller service.Caller) {
	if err := a.eventsSvc.Delete(r.Context(), caller, r.PathValue("id")); err != nil {
		httpapi.WriteDomainError(w, err)
		return
	}
	httpapi.WriteSuccess(w)
}

func (a *app) handleDonationGet(w http.ResponseWriter, r *http.Request, caller service.Caller) {
	p, err := a.donationSvc.Get(r.Context(), caller)
	if err != nil {
		httpapi.WriteDomainError(w, err)
		return
	}
	httpapi.WriteData(w, p)
}

func (a *app) handleDonationUpdate(w http.ResponseWriter, r *http.Request, caller service.Caller) {
	var req struct {
		Amount int `json:"amount"`
	}
	if err := httpapi.DecodeJSON(w, r, &req); err != nil {
		httpapi.WriteFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p, err := a.donationSvc.Update(r.Context(), caller, req.Amount)
	if err != nil {
		httpapi.WriteDomainError(w, err)
		return
	}
	httpapi.WriteData(w, p)
}

// userMessage turns a service error into dashboard-safe text.
func userMessage(err error) string {
	var rl *domain.RateLimitedError
	if errors.As(err, &rl) {
		return rl.Error()
	}
	if errors.Is(err, domain.ErrUnauthorized) {
		return "Unauthorized"
	}
	return "Something went wrong loading the dashboard"
}
