package verses

import "time"

// Verse is one entry of the catalog. The catalog is seeded once and never
// mutated by the reading flow; canonical order is (chapter, verse) ascending.
type Verse struct {
	ID              int       `json:"id"`
	ChapterNumber   int       `json:"chapter_number"`
	VerseNumber     int       `json:"verse_number"`
	SanskritText    string    `json:"sanskrit_text"`
	Transliteration string    `json:"transliteration"`
	Translation     string    `json:"translation"`
	SourceKey       string    `json:"source_key,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
