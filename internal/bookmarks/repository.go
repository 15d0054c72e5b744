package bookmarks

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gitadaily/gita-daily-api/internal/database"
)

var (
	ErrBucketNotFound   = errors.New("bucket not found")
	ErrBookmarkNotFound = errors.New("bookmark not found")
)

type Repository interface {
	// EnsureDefaultBucket returns the user's default bucket, creating it
	// on first use.
	EnsureDefaultBucket(ctx context.Context, userID int) (*Bucket, error)
	CreateBucket(ctx context.Context, userID int, name string, icon *string) (*Bucket, error)
	GetBucket(ctx context.Context, bucketID int) (*Bucket, error)
	GetBucketByName(ctx context.Context, userID int, name string) (*Bucket, error)
	ListBuckets(ctx context.Context, userID int) ([]Bucket, error)
	RenameBucket(ctx context.Context, bucketID int, name string) error
	DeleteBucket(ctx context.Context, bucketID int) error

	FindBookmark(ctx context.Context, bucketID, verseID int) (*Bookmark, error)
	InsertBookmark(ctx context.Context, userID, verseID, bucketID int) (*Bookmark, error)
	DeleteBookmark(ctx context.Context, bookmarkID int) error
	ListByBucket(ctx context.Context, bucketID int) ([]BookmarkedVerse, error)
	// BucketsContaining returns the ids of the user's buckets that hold
	// the verse.
	BucketsContaining(ctx context.Context, userID, verseID int) ([]int, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(dbService database.Service) Repository {
	return &repository{db: dbService.DB()}
}

func (r *repository) EnsureDefaultBucket(ctx context.Context, userID int) (*Bucket, error) {
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO bookmark_buckets (user_id, name, is_default)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (user_id, name) DO NOTHING
	`, userID, DefaultBucketName); err != nil {
		return nil, err
	}
	return r.GetBucketByName(ctx, userID, DefaultBucketName)
}

func (r *repository) CreateBucket(ctx context.Context, userID int, name string, icon *string) (*Bucket, error) {
	b := &Bucket{UserID: userID, Name: name, Icon: icon}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO bookmark_buckets (user_id, name, icon)
		VALUES ($1, $2, $3)
		RETURNING id, is_default, created_at
	`, userID, name, icon).Scan(&b.ID, &b.IsDefault, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repository) GetBucket(ctx context.Context, bucketID int) (*Bucket, error) {
	return r.scanBucket(r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, icon, is_default, created_at
		FROM bookmark_buckets WHERE id = $1
	`, bucketID))
}

func (r *repository) GetBucketByName(ctx context.Context, userID int, name string) (*Bucket, error) {
	return r.scanBucket(r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, icon, is_default, created_at
		FROM bookmark_buckets WHERE user_id = $1 AND name = $2
	`, userID, name))
}

func (r *repository) scanBucket(row *sql.Row) (*Bucket, error) {
	var b Bucket
	err := row.Scan(&b.ID, &b.UserID, &b.Name, &b.Icon, &b.IsDefault, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBucketNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) ListBuckets(ctx context.Context, userID int) ([]Bucket, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, icon, is_default, created_at
		FROM bookmark_buckets
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []Bucket
	for rows.Next() {
		var b Bucket
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.Icon, &b.IsDefault, &b.CreatedAt); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

func (r *repository) RenameBucket(ctx context.Context, bucketID int, name string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE bookmark_buckets SET name = $2 WHERE id = $1
	`, bucketID, name)
	return err
}

func (r *repository) DeleteBucket(ctx context.Context, bucketID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM bookmark_buckets WHERE id = $1`, bucketID)
	return err
}

func (r *repository) FindBookmark(ctx context.Context, bucketID, verseID int) (*Bookmark, error) {
	var b Bookmark
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, verse_id, bucket_id, created_at
		FROM bookmarks WHERE bucket_id = $1 AND verse_id = $2
	`, bucketID, verseID).Scan(&b.ID, &b.UserID, &b.VerseID, &b.BucketID, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookmarkNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) InsertBookmark(ctx context.Context, userID, verseID, bucketID int) (*Bookmark, error) {
	b := &Bookmark{UserID: userID, VerseID: verseID, BucketID: bucketID}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO bookmarks (user_id, verse_id, bucket_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, userID, verseID, bucketID).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repository) DeleteBookmark(ctx context.Context, bookmarkID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = $1`, bookmarkID)
	return err
}

func (r *repository) BucketsContaining(ctx context.Context, userID, verseID int) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT bucket_id FROM bookmarks
		WHERE user_id = $1 AND verse_id = $2
		ORDER BY bucket_id
	`, userID, verseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bucketIDs []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		bucketIDs = append(bucketIDs, id)
	}
	return bucketIDs, rows.Err()
}

func (r *repository) ListByBucket(ctx context.Context, bucketID int) ([]BookmarkedVerse, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT b.id, b.user_id, b.verse_id, b.bucket_id, b.created_at,
		       v.id, v.chapter_number, v.verse_number, v.sanskrit_text, v.transliteration, v.translation, v.source_key, v.created_at
		FROM bookmarks b
		JOIN verses v ON v.id = b.verse_id
		WHERE b.bucket_id = $1
		ORDER BY b.created_at DESC
	`, bucketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BookmarkedVerse
	for rows.Next() {
		var bv BookmarkedVerse
		if err := rows.Scan(
			&bv.Bookmark.ID, &bv.Bookmark.UserID, &bv.Bookmark.VerseID, &bv.Bookmark.BucketID, &bv.Bookmark.CreatedAt,
			&bv.Verse.ID, &bv.Verse.ChapterNumber, &bv.Verse.VerseNumber, &bv.Verse.SanskritText, &bv.Verse.Transliteration, &bv.Verse.Translation, &bv.Verse.SourceKey, &bv.Verse.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, bv)
	}
	return out, rows.Err()
}
