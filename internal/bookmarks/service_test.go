package bookmarks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitadaily/gita-daily-api/internal/verses"
)

type fakeRepo struct {
	buckets      map[int]*Bucket
	bookmarks    map[int]*Bookmark
	nextBucketID int
	nextMarkID   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		buckets:      make(map[int]*Bucket),
		bookmarks:    make(map[int]*Bookmark),
		nextBucketID: 1,
		nextMarkID:   1,
	}
}

func (f *fakeRepo) EnsureDefaultBucket(ctx context.Context, userID int) (*Bucket, error) {
	if b, err := f.GetBucketByName(ctx, userID, DefaultBucketName); err == nil {
		return b, nil
	}
	b := &Bucket{ID: f.nextBucketID, UserID: userID, Name: DefaultBucketName, IsDefault: true}
	f.nextBucketID++
	f.buckets[b.ID] = b
	cp := *b
	return &cp, nil
}

func (f *fakeRepo) CreateBucket(_ context.Context, userID int, name string, icon *string) (*Bucket, error) {
	b := &Bucket{ID: f.nextBucketID, UserID: userID, Name: name, Icon: icon}
	f.nextBucketID++
	f.buckets[b.ID] = b
	cp := *b
	return &cp, nil
}

func (f *fakeRepo) GetBucket(_ context.Context, bucketID int) (*Bucket, error) {
	b, ok := f.buckets[bucketID]
	if !ok {
		return nil, ErrBucketNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeRepo) GetBucketByName(_ context.Context, userID int, name string) (*Bucket, error) {
	for _, b := range f.buckets {
		if b.UserID == userID && b.Name == name {
			cp := *b
			return &cp, nil
		}
	}
	return nil, ErrBucketNotFound
}

func (f *fakeRepo) ListBuckets(_ context.Context, userID int) ([]Bucket, error) {
	var out []Bucket
	for _, b := range f.buckets {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeRepo) RenameBucket(_ context.Context, bucketID int, name string) error {
	if b, ok := f.buckets[bucketID]; ok {
		b.Name = name
	}
	return nil
}

func (f *fakeRepo) DeleteBucket(_ context.Context, bucketID int) error {
	delete(f.buckets, bucketID)
	for id, m := range f.bookmarks {
		if m.BucketID == bucketID {
			delete(f.bookmarks, id)
		}
	}
	return nil
}

func (f *fakeRepo) FindBookmark(_ context.Context, bucketID, verseID int) (*Bookmark, error) {
	for _, m := range f.bookmarks {
		if m.BucketID == bucketID && m.VerseID == verseID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, ErrBookmarkNotFound
}

func (f *fakeRepo) InsertBookmark(_ context.Context, userID, verseID, bucketID int) (*Bookmark, error) {
	m := &Bookmark{ID: f.nextMarkID, UserID: userID, VerseID: verseID, BucketID: bucketID}
	f.nextMarkID++
	f.bookmarks[m.ID] = m
	cp := *m
	return &cp, nil
}

func (f *fakeRepo) DeleteBookmark(_ context.Context, bookmarkID int) error {
	delete(f.bookmarks, bookmarkID)
	return nil
}

func (f *fakeRepo) BucketsContaining(_ context.Context, userID, verseID int) ([]int, error) {
	var out []int
	for _, m := range f.bookmarks {
		if m.UserID == userID && m.VerseID == verseID {
			out = append(out, m.BucketID)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByBucket(_ context.Context, bucketID int) ([]BookmarkedVerse, error) {
	var out []BookmarkedVerse
	for _, m := range f.bookmarks {
		if m.BucketID == bucketID {
			out = append(out, BookmarkedVerse{Bookmark: *m, Verse: verses.Verse{ID: m.VerseID}})
		}
	}
	return out, nil
}

type fakeCatalog struct {
	ids map[int]bool
}

func (f *fakeCatalog) OrderedIDs(_ context.Context) ([]int, error) { return nil, nil }
func (f *fakeCatalog) Count(_ context.Context) (int, error)        { return len(f.ids), nil }

func (f *fakeCatalog) ByIDs(_ context.Context, ids []int) ([]verses.Verse, error) {
	var out []verses.Verse
	for _, id := range ids {
		if f.ids[id] {
			out = append(out, verses.Verse{ID: id})
		}
	}
	return out, nil
}

func (f *fakeCatalog) ByChapter(_ context.Context, _ int) ([]verses.Verse, error) { return nil, nil }
func (f *fakeCatalog) ByPosition(_ context.Context, _, _ int) (*verses.Verse, error) {
	return nil, verses.ErrNotFound
}
func (f *fakeCatalog) UpsertBatch(_ context.Context, _ []verses.Verse) error { return nil }

func newTestService() (*fakeRepo, Service) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeCatalog{ids: map[int]bool{100: true, 101: true}})
	return repo, svc
}

func TestToggle_DefaultBucket(t *testing.T) {
	repo, svc := newTestService()
	ctx := context.Background()

	result, err := svc.Toggle(ctx, 1, ToggleRequest{VerseID: 100})
	require.NoError(t, err)
	assert.True(t, result.Bookmarked)
	assert.Len(t, repo.bookmarks, 1)

	// Default bucket was provisioned on the fly.
	bucket, err := repo.GetBucketByName(ctx, 1, DefaultBucketName)
	require.NoError(t, err)
	assert.True(t, bucket.IsDefault)
	assert.Equal(t, bucket.ID, result.BucketID)

	// Toggling again removes the bookmark.
	result, err = svc.Toggle(ctx, 1, ToggleRequest{VerseID: 100})
	require.NoError(t, err)
	assert.False(t, result.Bookmarked)
	assert.Empty(t, repo.bookmarks)
}

func TestToggle_NamedBucket(t *testing.T) {
	_, svc := newTestService()
	ctx := context.Background()

	bucket, err := svc.CreateBucket(ctx, 1, CreateBucketRequest{Name: "Favorites"})
	require.NoError(t, err)

	result, err := svc.Toggle(ctx, 1, ToggleRequest{VerseID: 100, BucketID: &bucket.ID})
	require.NoError(t, err)
	assert.True(t, result.Bookmarked)
	assert.Equal(t, bucket.ID, result.BucketID)
}

func TestToggle_UnknownVerse(t *testing.T) {
	_, svc := newTestService()

	_, err := svc.Toggle(context.Background(), 1, ToggleRequest{VerseID: 999})
	assert.ErrorIs(t, err, ErrVerseNotFound)
}

func TestToggle_ForeignBucket(t *testing.T) {
	_, svc := newTestService()
	ctx := context.Background()

	bucket, err := svc.CreateBucket(ctx, 1, CreateBucketRequest{Name: "Favorites"})
	require.NoError(t, err)

	_, err = svc.Toggle(ctx, 2, ToggleRequest{VerseID: 100, BucketID: &bucket.ID})
	assert.ErrorIs(t, err, ErrNotYourBucket)
}

func TestCreateBucket_DuplicateName(t *testing.T) {
	_, svc := newTestService()
	ctx := context.Background()

	_, err := svc.CreateBucket(ctx, 1, CreateBucketRequest{Name: "Favorites"})
	require.NoError(t, err)

	_, err = svc.CreateBucket(ctx, 1, CreateBucketRequest{Name: "Favorites"})
	assert.ErrorIs(t, err, ErrDuplicateBucketName)

	// Same name under a different user is fine.
	_, err = svc.CreateBucket(ctx, 2, CreateBucketRequest{Name: "Favorites"})
	assert.NoError(t, err)
}

func TestDeleteBucket_ProtectsDefault(t *testing.T) {
	repo, svc := newTestService()
	ctx := context.Background()

	buckets, err := svc.ListBuckets(ctx, 1)
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	defaultBucket := buckets[0]

	assert.ErrorIs(t, svc.DeleteBucket(ctx, 1, defaultBucket.ID), ErrDefaultBucket)

	named, err := svc.CreateBucket(ctx, 1, CreateBucketRequest{Name: "Favorites"})
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, 1, ToggleRequest{VerseID: 100, BucketID: &named.ID})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBucket(ctx, 1, named.ID))
	assert.NotContains(t, repo.buckets, named.ID)
	assert.Empty(t, repo.bookmarks, "bookmarks go with their bucket")
}

func TestRenameBucket(t *testing.T) {
	_, svc := newTestService()
	ctx := context.Background()

	bucket, err := svc.CreateBucket(ctx, 1, CreateBucketRequest{Name: "Favorites"})
	require.NoError(t, err)

	renamed, err := svc.RenameBucket(ctx, 1, bucket.ID, CreateBucketRequest{Name: "Morning"})
	require.NoError(t, err)
	assert.Equal(t, "Morning", renamed.Name)

	// Renaming to its own name is a no-op, not a duplicate.
	_, err = svc.RenameBucket(ctx, 1, bucket.ID, CreateBucketRequest{Name: "Morning"})
	assert.NoError(t, err)

	other, err := svc.CreateBucket(ctx, 1, CreateBucketRequest{Name: "Evening"})
	require.NoError(t, err)
	_, err = svc.RenameBucket(ctx, 1, other.ID, CreateBucketRequest{Name: "Morning"})
	assert.ErrorIs(t, err, ErrDuplicateBucketName)

	buckets, err := svc.ListBuckets(ctx, 1)
	require.NoError(t, err)
	for _, b := range buckets {
		if b.IsDefault {
			_, err = svc.RenameBucket(ctx, 1, b.ID, CreateBucketRequest{Name: "Renamed"})
			assert.ErrorIs(t, err, ErrDefaultBucket)
		}
	}
}

func TestStatus(t *testing.T) {
	_, svc := newTestService()
	ctx := context.Background()

	status, err := svc.Status(ctx, 1, 100)
	require.NoError(t, err)
	assert.False(t, status.Bookmarked)
	assert.Empty(t, status.BucketIDs)

	result, err := svc.Toggle(ctx, 1, ToggleRequest{VerseID: 100})
	require.NoError(t, err)

	status, err = svc.Status(ctx, 1, 100)
	require.NoError(t, err)
	assert.True(t, status.Bookmarked)
	assert.Equal(t, []int{result.BucketID}, status.BucketIDs)

	// Another user's bookmarks are invisible.
	status, err = svc.Status(ctx, 2, 100)
	require.NoError(t, err)
	assert.False(t, status.Bookmarked)
}

func TestListBucket(t *testing.T) {
	_, svc := newTestService()
	ctx := context.Background()

	result, err := svc.Toggle(ctx, 1, ToggleRequest{VerseID: 100})
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, 1, ToggleRequest{VerseID: 101})
	require.NoError(t, err)

	list, err := svc.ListBucket(ctx, 1, result.BucketID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = svc.ListBucket(ctx, 2, result.BucketID)
	assert.ErrorIs(t, err, ErrNotYourBucket)
}
