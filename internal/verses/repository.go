package verses

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gitadaily/gita-daily-api/internal/database"
)

var ErrNotFound = errors.New("verse not found")

type Repository interface {
	// OrderedIDs returns every verse id in canonical order.
	OrderedIDs(ctx context.Context) ([]int, error)
	Count(ctx context.Context) (int, error)
	ByIDs(ctx context.Context, ids []int) ([]Verse, error)
	ByChapter(ctx context.Context, chapter int) ([]Verse, error)
	ByPosition(ctx context.Context, chapter, verse int) (*Verse, error)
	UpsertBatch(ctx context.Context, batch []Verse) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(dbService database.Service) Repository {
	return &repository{db: dbService.DB()}
}

func (r *repository) OrderedIDs(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id FROM verses
		ORDER BY chapter_number, verse_number
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM verses`).Scan(&count)
	return count, err
}

// ByIDs loads verses and returns them in the order the ids were given.
func (r *repository) ByIDs(ctx context.Context, ids []int) ([]Verse, error) {
	if len(ids) == 0 {
		return []Verse{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT id, chapter_number, verse_number, sanskrit_text, transliteration, translation, source_key, created_at
		FROM verses
		WHERE id IN (%s)
	`, strings.Join(placeholders, ", "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[int]Verse, len(ids))
	for rows.Next() {
		var v Verse
		if err := rows.Scan(&v.ID, &v.ChapterNumber, &v.VerseNumber, &v.SanskritText, &v.Transliteration, &v.Translation, &v.SourceKey, &v.CreatedAt); err != nil {
			return nil, err
		}
		byID[v.ID] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ordered := make([]Verse, 0, len(ids))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			ordered = append(ordered, v)
		}
	}
	return ordered, nil
}

func (r *repository) ByChapter(ctx context.Context, chapter int) ([]Verse, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, chapter_number, verse_number, sanskrit_text, transliteration, translation, source_key, created_at
		FROM verses
		WHERE chapter_number = $1
		ORDER BY verse_number
	`, chapter)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Verse
	for rows.Next() {
		var v Verse
		if err := rows.Scan(&v.ID, &v.ChapterNumber, &v.VerseNumber, &v.SanskritText, &v.Transliteration, &v.Translation, &v.SourceKey, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *repository) ByPosition(ctx context.Context, chapter, verse int) (*Verse, error) {
	var v Verse
	err := r.db.QueryRowContext(ctx, `
		SELECT id, chapter_number, verse_number, sanskrit_text, transliteration, translation, source_key, created_at
		FROM verses
		WHERE chapter_number = $1 AND verse_number = $2
	`, chapter, verse).Scan(&v.ID, &v.ChapterNumber, &v.VerseNumber, &v.SanskritText, &v.Transliteration, &v.Translation, &v.SourceKey, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// UpsertBatch inserts catalog entries, updating text fields when the
// (chapter, verse) position already exists. Used by the seed command.
func (r *repository) UpsertBatch(ctx context.Context, batch []Verse) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, v := range batch {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO verses (chapter_number, verse_number, sanskrit_text, transliteration, translation, source_key)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (chapter_number, verse_number) DO UPDATE
			SET sanskrit_text = EXCLUDED.sanskrit_text,
			    transliteration = EXCLUDED.transliteration,
			    translation = EXCLUDED.translation,
			    source_key = EXCLUDED.source_key
		`, v.ChapterNumber, v.VerseNumber, v.SanskritText, v.Transliteration, v.Translation, v.SourceKey)
		if err != nil {
			return fmt.Errorf("failed to upsert verse %d.%d: %w", v.ChapterNumber, v.VerseNumber, err)
		}
	}

	return tx.Commit()
}
