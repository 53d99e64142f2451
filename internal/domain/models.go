package domain

import "time"

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

type User struct {
	ID          string
	Email       string
	Status      UserStatus
	CreatedAt   time.Time
	LastLoginAt *time.Time
}

type UserWithPassword struct {
	User
	PasswordHash string
}

type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// Chapter identifies which campus chapter an event belongs to.
type Chapter string

const (
	ChapterCarleton Chapter = "carleton"
	ChapterUOttawa  Chapter = "uottawa"
	ChapterBoth     Chapter = "both"
)

func ValidChapter(c Chapter) bool {
	switch c {
	case ChapterCarleton, ChapterUOttawa, ChapterBoth:
		return true
	}
	return false
}

type Event struct {
	ID          string
	Title       string
	Description string
	Date        time.Time
	Location    string
	Link        string
	Chapter     Chapter
	CreatedAt   time.Time
}

// HeroSlide is one image in the homepage carousel. Position is the vertical
// object-position percentage (0-100) used when cropping; nil means centered.
type HeroSlide struct {
	ID        string
	URL       string
	Alt       string
	Order     int
	Position  *int
	CreatedAt time.Time
}

// DonationProgress is the manually updated fundraising counter. The newest
// row by UpdatedAt wins; older rows are kept as history.
type DonationProgress struct {
	ID        string
	Amount    int
	UpdatedAt time.Time
}
