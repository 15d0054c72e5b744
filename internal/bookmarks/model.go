package bookmarks

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/gitadaily/gita-daily-api/internal/verses"
)

// DefaultBucketName is the bucket every user gets on first use. It
// cannot be renamed or deleted.
const DefaultBucketName = "Saved"

type Bucket struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Name      string    `json:"name"`
	Icon      *string   `json:"icon,omitempty"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

type Bookmark struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	VerseID   int       `json:"verse_id"`
	BucketID  int       `json:"bucket_id"`
	CreatedAt time.Time `json:"created_at"`
}

// BookmarkedVerse pairs a bookmark with its verse for list responses.
type BookmarkedVerse struct {
	Bookmark Bookmark     `json:"bookmark"`
	Verse    verses.Verse `json:"verse"`
}

// Status reports whether a verse is bookmarked and in which buckets.
type Status struct {
	VerseID    int   `json:"verse_id"`
	Bookmarked bool  `json:"bookmarked"`
	BucketIDs  []int `json:"bucket_ids"`
}

// ToggleResult reports which way the toggle went.
type ToggleResult struct {
	Bookmarked bool `json:"bookmarked"`
	BucketID   int  `json:"bucket_id"`
	VerseID    int  `json:"verse_id"`
}

type CreateBucketRequest struct {
	Name string  `json:"name"`
	Icon *string `json:"icon"`
}

func (r CreateBucketRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 30)),
	)
}

// ToggleRequest targets the default bucket when BucketID is omitted.
type ToggleRequest struct {
	VerseID  int  `json:"verse_id"`
	BucketID *int `json:"bucket_id"`
}

func (r ToggleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.VerseID, validation.Required),
	)
}
