package adminui

import (
	"time"

	"empowerorphansweb/internal/domain"
)

type slideJSON struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Alt      string `json:"alt"`
	Order    int    `json:"order"`
	Position *int   `json:"position,omitempty"`
}

func slideRow(s domain.HeroSlide) slideJSON {
	return slideJSON{ID: s.ID, URL: s.URL, Alt: s.Alt, Order: s.Order, Position: s.Position}
}

func slideRows(slides []domain.HeroSlide) []slideJSON {
	out := make([]slideJSON, 0, len(slides))
	for _, s := range slides {
		out = append(out, slideRow(s))
	}
	return out
}

type eventJSON struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
	Location    string `json:"location,omitempty"`
	Link        string `json:"link,omitempty"`
	Chapter     string `json:"chapter"`
}

func eventRow(ev domain.Event) eventJSON {
	return eventJSON{
		ID:          ev.ID,
		Title:       ev.Title,
		Description: ev.Description,
		Date:        ev.Date.Format(time.RFC3339),
		Location:    ev.Location,
		Link:        ev.Link,
		Chapter:     string(ev.Chapter),
	}
}

func eventRows(events []domain.Event) []eventJSON {
	out := make([]eventJSON, 0, len(events))
	for _, ev := range events {
		out = append(out, eventRow(ev))
	}
	return out
}
