package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"empowerorphansweb/internal/domain"
	"empowerorphansweb/internal/ratelimit"
	"empowerorphansweb/internal/storage"

	"github.com/google/uuid"
)

// MaxUploadBytes caps carousel image uploads at 25 MiB.
const MaxUploadBytes = 25 << 20

type HeroSlidesStore interface {
	ListSlides(ctx context.Context) ([]domain.HeroSlide, error)
	NextOrder(ctx context.Context) (int, error)
	CreateSlide(ctx context.Context, url, alt string, order int) (domain.HeroSlide, error)
	GetSlide(ctx context.Context, id string) (domain.HeroSlide, error)
	DeleteSlide(ctx context.Context, id string) error
	SetSlideOrder(ctx context.Context, id string, order int) error
	SetSlidePosition(ctx context.Context, id string, position *int) error
}

type CarouselService struct {
	Roles  RolesStore
	Slides HeroSlidesStore
	Media  storage.MediaStore
	Limits RateLimiter
	Cache  Invalidator
	Logger *slog.Logger
}

func (s *CarouselService) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// HomeSlides is the ungated read used by the public homepage.
func (s *CarouselService) HomeSlides(ctx context.Context) ([]domain.HeroSlide, error) {
	return s.Slides.ListSlides(ctx)
}

func (s *CarouselService) List(ctx context.Context, caller Caller) ([]domain.HeroSlide, error) {
	if err := gate(ctx, s.Roles, s.Limits, caller, ratelimit.ActionRead); err != nil {
		return nil, err
	}
	return s.Slides.ListSlides(ctx)
}

// Upload describes one incoming carousel image.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
	Alt         string
}

// UploadImage stores the image and appends it to the carousel. If the DB
// insert fails after the object was written, the object is removed again so
// no orphan is left in storage.
func (s *CarouselService) UploadImage(ctx context.Context, caller Caller, up Upload) (domain.HeroSlide, error) {
	if err := gate(ctx, s.Roles, s.Limits, caller, ratelimit.ActionUpload); err != nil {
		return domain.HeroSlide{}, err
	}

	if up.Body == nil {
		return domain.HeroSlide{}, domain.NewValidationError(map[string]string{"file": "required"})
	}
	if !strings.HasPrefix(up.ContentType, "image/") {
		return domain.HeroSlide{}, domain.NewValidationError(map[string]string{"file": "only image files are allowed"})
	}
	if up.Size > MaxUploadBytes {
		return domain.HeroSlide{}, domain.NewValidationError(map[string]string{"file": "file size must be less than 25MB"})
	}

	objectPath := "carousel/" + uuid.NewString() + strings.ToLower(path.Ext(up.Filename))
	if err := s.Media.Save(ctx, objectPath, io.LimitReader(up.Body, MaxUploadBytes)); err != nil {
		return domain.HeroSlide{}, fmt.Errorf("save carousel image: %w", err)
	}

	order, err := s.Slides.NextOrder(ctx)
	if err != nil {
		s.compensate(ctx, objectPath)
		return domain.HeroSlide{}, err
	}

	slide, err := s.Slides.CreateSlide(ctx, s.Media.PublicURL(objectPath), up.Alt, order)
	if err != nil {
		s.compensate(ctx, objectPath)
		return domain.HeroSlide{}, err
	}

	s.invalidate()
	return slide, nil
}

// DeleteImage removes the DB row first, then the stored object. A failed
// object removal is logged and swallowed: the slide is already gone from the
// site, and the sweep of orphans is an operational task.
func (s *CarouselService) DeleteImage(ctx context.Context, caller Caller, id string) error {
	if err := gate(ctx, s.Roles, s.Limits, caller, ratelimit.ActionWrite); err != nil {
		return err
	}

	slide, err := s.Slides.GetSlide(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Slides.DeleteSlide(ctx, id); err != nil {
		return err
	}

	if objectPath, ok := strings.CutPrefix(slide.URL, "/media/"); ok {
		if err := s.Media.Remove(ctx, objectPath); err != nil {
			s.logger().Error("remove carousel object failed", "path", objectPath, "err", err)
		}
	}

	s.invalidate()
	return nil
}

type SlideOrder struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

func (s *CarouselService) Reorder(ctx context.Context, caller Caller, orders []SlideOrder) error {
	if err := gate(ctx, s.Roles, s.Limits, caller, ratelimit.ActionWrite); err != nil {
		return err
	}
	if len(orders) == 0 {
		return domain.NewValidationError(map[string]string{"order": "required"})
	}

	for _, o := range orders {
		if err := s.Slides.SetSlideOrder(ctx, o.ID, o.Order); err != nil {
			return err
		}
	}

	s.invalidate()
	return nil
}

// SetPosition adjusts the vertical crop of one slide. Position is a 0-100
// percentage; nil resets to centered.
func (s *CarouselService) SetPosition(ctx context.Context, caller Caller, id string, position *int) error {
	if err := gate(ctx, s.Roles, s.Limits, caller, ratelimit.ActionWrite); err != nil {
		return err
	}
	if position != nil && (*position < 0 || *position > 100) {
		return domain.NewValidationError(map[string]string{"position": "must be between 0 and 100"})
	}

	if err := s.Slides.SetSlidePosition(ctx, id, position); err != nil {
		return err
	}

	s.invalidate()
	return nil
}

func (s *CarouselService) compensate(ctx context.Context, objectPath string) {
	if err := s.Media.Remove(ctx, objectPath); err != nil {
		s.logger().Error("rollback carousel upload failed", "path", objectPath, "err", err)
	}
}

func (s *CarouselService) invalidate() {
	if s.Cache != nil {
		s.Cache.Invalidate("/", "/admin")
	}
}
