package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"empowerorphansweb/internal/domain"
	"empowerorphansweb/internal/ratelimit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCaller() Caller {
	return Caller{UserID: "user-1", IP: "203.0.113.9"}
}

func pngUpload(body string) Upload {
	return Upload{
		Filename:    "hero.png",
		ContentType: "image/png",
		Size:        int64(len(body)),
		Body:        strings.NewReader(body),
		Alt:         "volunteers at the shelter",
	}
}

func TestCarouselUploadStoresObjectAndSlide(t *testing.T) {
	media := &stubMedia{}
	var gotURL string
	var gotOrder int
	slides := &stubSlides{
		nextFn: func(ctx context.Context) (int, error) { return 4, nil },
		createFn: func(ctx context.Context, url, alt string, order int) (domain.HeroSlide, error) {
			gotURL, gotOrder = url, order
			return domain.HeroSlide{ID: "slide-1", URL: url, Alt: alt, Order: order}, nil
		},
	}
	cache := &stubInvalidator{}
	svc := &CarouselService{
		Roles:  &stubRoles{},
		Slides: slides,
		Media:  media,
		Cache:  cache,
		Logger: slog.New(slog.DiscardHandler),
	}

	slide, err := svc.UploadImage(context.Background(), testCaller(), pngUpload("png bytes"))
	require.NoError(t, err)

	require.Len(t, media.saved, 1)
	assert.True(t, strings.HasPrefix(media.saved[0], "carousel/"), "object path %q", media.saved[0])
	assert.True(t, strings.HasSuffix(media.saved[0], ".png"), "object path %q", media.saved[0])
	assert.Equal(t, "/media/"+media.saved[0], gotURL)
	assert.Equal(t, 4, gotOrder)
	assert.Equal(t, 4, slide.Order)
	assert.Empty(t, media.removed)
	assert.Contains(t, cache.all(), "/")
}

func TestCarouselUploadRemovesObjectWhenInsertFails(t *testing.T) {
	media := &stubMedia{}
	slides := &stubSlides{
		createFn: func(ctx context.Context, url, alt string, order int) (domain.HeroSlide, error) {
			return domain.HeroSlide{}, errors.New("insert failed")
		},
	}
	cache := &stubInvalidator{}
	svc := &CarouselService{
		Roles:  &stubRoles{},
		Slides: slides,
		Media:  media,
		Cache:  cache,
		Logger: slog.New(slog.DiscardHandler),
	}

	_, err := svc.UploadImage(context.Background(), testCaller(), pngUpload("png bytes"))
	require.Error(t, err)

	require.Len(t, media.saved, 1)
	require.Len(t, media.removed, 1, "exactly one rollback removal")
	assert.Equal(t, media.saved[0], media.removed[0])
	assert.Empty(t, cache.paths)
}

func TestCarouselUploadRemovesObjectWhenOrderLookupFails(t *testing.T) {
	media := &stubMedia{}
	slides := &stubSlides{
		nextFn: func(ctx context.Context) (int, error) { return 0, errors.New("db down") },
	}
	svc := &CarouselService{
		Roles:  &stubRoles{},
		Slides: slides,
		Media:  media,
		Logger: slog.New(slog.DiscardHandler),
	}

	_, err := svc.UploadImage(context.Background(), testCaller(), pngUpload("png bytes"))
	require.Error(t, err)
	require.Len(t, media.removed, 1)
	assert.Equal(t, media.saved[0], media.removed[0])
}

func TestCarouselUploadRejectsBadInput(t *testing.T) {
	svc := &CarouselService{Roles: &stubRoles{}, Media: &stubMedia{}}

	tests := []struct {
		name  string
		up    Upload
		field string
	}{
		{
			name:  "missing body",
			up:    Upload{Filename: "a.png", ContentType: "image/png"},
			field: "file",
		},
		{
			name:  "not an image",
			up:    Upload{Filename: "a.pdf", ContentType: "application/pdf", Size: 10, Body: strings.NewReader("x")},
			field: "file",
		},
		{
			name:  "too large",
			up:    Upload{Filename: "a.png", ContentType: "image/png", Size: MaxUploadBytes + 1, Body: strings.NewReader("x")},
			field: "file",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UploadImage(context.Background(), testCaller(), tt.up)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestCarouselDeleteRemovesRowThenObject(t *testing.T) {
	media := &stubMedia{}
	var deleted []string
	slides := &stubSlides{
		getFn: func(ctx context.Context, id string) (domain.HeroSlide, error) {
			return domain.HeroSlide{ID: id, URL: "/media/carousel/abc.png"}, nil
		},
		deleteFn: func(ctx context.Context, id string) error {
			deleted = append(deleted, id)
			return nil
		},
	}
	svc := &CarouselService{
		Roles:  &stubRoles{},
		Slides: slides,
		Media:  media,
		Logger: slog.New(slog.DiscardHandler),
	}

	err := svc.DeleteImage(context.Background(), testCaller(), "slide-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"slide-1"}, deleted)
	assert.Equal(t, []string{"carousel/abc.png"}, media.removed)
}

func TestCarouselDeleteSwallowsObjectRemovalFailure(t *testing.T) {
	media := &stubMedia{removeErr: errors.New("fs error")}
	slides := &stubSlides{
		getFn: func(ctx context.Context, id string) (domain.HeroSlide, error) {
			return domain.HeroSlide{ID: id, URL: "/media/carousel/abc.png"}, nil
		},
		deleteFn: func(ctx context.Context, id string) error { return nil },
	}
	svc := &CarouselService{
		Roles:  &stubRoles{},
		Slides: slides,
		Media:  media,
		Logger: slog.New(slog.DiscardHandler),
	}

	err := svc.DeleteImage(context.Background(), testCaller(), "slide-1")
	assert.NoError(t, err)
}

func TestCarouselReorderRequiresEntries(t *testing.T) {
	svc := &CarouselService{Roles: &stubRoles{}}

	err := svc.Reorder(context.Background(), testCaller(), nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCarouselReorderAppliesEachEntry(t *testing.T) {
	applied := map[string]int{}
	slides := &stubSlides{
		setOrderFn: func(ctx context.Context, id string, order int) error {
			applied[id] = order
			return nil
		},
	}
	cache := &stubInvalidator{}
	svc := &CarouselService{Roles: &stubRoles{}, Slides: slides, Cache: cache}

	err := svc.Reorder(context.Background(), testCaller(), []SlideOrder{
		{ID: "a", Order: 2},
		{ID: "b", Order: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 2, "b": 1}, applied)
	assert.NotEmpty(t, cache.paths)
}

func TestCarouselSetPositionValidatesRange(t *testing.T) {
	svc := &CarouselService{Roles: &stubRoles{}}

	bad := 140
	err := svc.SetPosition(context.Background(), testCaller(), "slide-1", &bad)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "position")
}

func TestCarouselSetPositionAcceptsNilReset(t *testing.T) {
	var gotID string
	var gotPos *int
	slides := &stubSlides{
		setPositionFn: func(ctx context.Context, id string, position *int) error {
			gotID, gotPos = id, position
			return nil
		},
	}
	cache := &stubInvalidator{}
	svc := &CarouselService{Roles: &stubRoles{}, Slides: slides, Cache: cache}

	require.NoError(t, svc.SetPosition(context.Background(), testCaller(), "slide-1", nil))
	assert.Equal(t, "slide-1", gotID)
	assert.Nil(t, gotPos)
	assert.NotEmpty(t, cache.paths)
}

func TestAdminGateRejectsNonAdmins(t *testing.T) {
	roles := &stubRoles{
		isAdminFn: func(ctx context.Context, userID string) (bool, error) { return false, nil },
	}
	limits := &stubLimiter{}
	svc := &CarouselService{Roles: roles, Limits: limits}

	_, err := svc.List(context.Background(), testCaller())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Empty(t, limits.calls, "non-admins must not consume rate-limit quota")
}

func TestAdminGateRejectsAnonymousCallers(t *testing.T) {
	roles := &stubRoles{}
	svc := &CarouselService{Roles: roles}

	_, err := svc.List(context.Background(), Caller{IP: "203.0.113.9"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Zero(t, roles.calls)
}

func TestAdminGateReturnsRateLimitedError(t *testing.T) {
	limits := &stubLimiter{decision: ratelimit.Decision{
		Limited: true,
		Message: "Too many upload requests. Please try again in 10 minutes.",
	}}
	media := &stubMedia{}
	svc := &CarouselService{Roles: &stubRoles{}, Limits: limits, Media: media}

	_, err := svc.UploadImage(context.Background(), testCaller(), pngUpload("png bytes"))

	var rl *domain.RateLimitedError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, "Too many upload requests. Please try again in 10 minutes.", rl.Message)
	assert.Empty(t, media.saved, "limited uploads must not touch storage")

	require.Len(t, limits.calls, 1)
	assert.Equal(t, ratelimit.ActionUpload, limits.calls[0].action)
	assert.Equal(t, "user-1", limits.calls[0].userID)
}
