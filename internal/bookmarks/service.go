package bookmarks

import (
	"context"
	"errors"
	"strings"

	"github.com/gitadaily/gita-daily-api/internal/verses"
)

var (
	ErrNotYourBucket       = errors.New("bucket does not belong to this user")
	ErrDefaultBucket       = errors.New("the default bucket cannot be deleted")
	ErrDuplicateBucketName = errors.New("a bucket with this name already exists")
	ErrVerseNotFound       = errors.New("verse not found")
)

type Service struct {
	repo    Repository
	catalog verses.Repository
}

func NewService(repo Repository, catalog verses.Repository) Service {
	return Service{repo: repo, catalog: catalog}
}

func (s *Service) CreateBucket(ctx context.Context, userID int, req CreateBucketRequest) (*Bucket, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	_, err := s.repo.GetBucketByName(ctx, userID, req.Name)
	if err == nil {
		return nil, ErrDuplicateBucketName
	}
	if !errors.Is(err, ErrBucketNotFound) {
		return nil, err
	}

	return s.repo.CreateBucket(ctx, userID, req.Name, req.Icon)
}

// ListBuckets always includes the default bucket, provisioning it on
// first use.
func (s *Service) ListBuckets(ctx context.Context, userID int) ([]Bucket, error) {
	if _, err := s.repo.EnsureDefaultBucket(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ListBuckets(ctx, userID)
}

// RenameBucket changes a bucket's name. The default bucket is
// protected.
func (s *Service) RenameBucket(ctx context.Context, userID, bucketID int, req CreateBucketRequest) (*Bucket, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	bucket, err := s.ownedBucket(ctx, userID, bucketID)
	if err != nil {
		return nil, err
	}
	if bucket.IsDefault {
		return nil, ErrDefaultBucket
	}

	existing, err := s.repo.GetBucketByName(ctx, userID, req.Name)
	if err == nil && existing.ID != bucketID {
		return nil, ErrDuplicateBucketName
	}
	if err != nil && !errors.Is(err, ErrBucketNotFound) {
		return nil, err
	}

	if err := s.repo.RenameBucket(ctx, bucketID, req.Name); err != nil {
		return nil, err
	}
	bucket.Name = req.Name
	return bucket, nil
}

// DeleteBucket removes a bucket and its bookmarks. The default bucket
// is protected.
func (s *Service) DeleteBucket(ctx context.Context, userID, bucketID int) error {
	bucket, err := s.ownedBucket(ctx, userID, bucketID)
	if err != nil {
		return err
	}
	if bucket.IsDefault {
		return ErrDefaultBucket
	}
	return s.repo.DeleteBucket(ctx, bucketID)
}

// Toggle flips a verse's presence in a bucket. When no bucket is given
// the default bucket is used.
func (s *Service) Toggle(ctx context.Context, userID int, req ToggleRequest) (*ToggleResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	found, err := s.catalog.ByIDs(ctx, []int{req.VerseID})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, ErrVerseNotFound
	}

	var bucket *Bucket
	if req.BucketID != nil {
		bucket, err = s.ownedBucket(ctx, userID, *req.BucketID)
	} else {
		bucket, err = s.repo.EnsureDefaultBucket(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindBookmark(ctx, bucket.ID, req.VerseID)
	if err != nil && !errors.Is(err, ErrBookmarkNotFound) {
		return nil, err
	}

	if existing != nil {
		if err := s.repo.DeleteBookmark(ctx, existing.ID); err != nil {
			return nil, err
		}
		return &ToggleResult{Bookmarked: false, BucketID: bucket.ID, VerseID: req.VerseID}, nil
	}

	if _, err := s.repo.InsertBookmark(ctx, userID, req.VerseID, bucket.ID); err != nil {
		return nil, err
	}
	return &ToggleResult{Bookmarked: true, BucketID: bucket.ID, VerseID: req.VerseID}, nil
}

func (s *Service) ListBucket(ctx context.Context, userID, bucketID int) ([]BookmarkedVerse, error) {
	if _, err := s.ownedBucket(ctx, userID, bucketID); err != nil {
		return nil, err
	}
	return s.repo.ListByBucket(ctx, bucketID)
}

// Status reports whether (and where) the user has bookmarked a verse.
func (s *Service) Status(ctx context.Context, userID, verseID int) (*Status, error) {
	bucketIDs, err := s.repo.BucketsContaining(ctx, userID, verseID)
	if err != nil {
		return nil, err
	}
	if bucketIDs == nil {
		bucketIDs = []int{}
	}
	return &Status{
		VerseID:    verseID,
		Bookmarked: len(bucketIDs) > 0,
		BucketIDs:  bucketIDs,
	}, nil
}

func (s *Service) ownedBucket(ctx context.Context, userID, bucketID int) (*Bucket, error) {
	bucket, err := s.repo.GetBucket(ctx, bucketID)
	if err != nil {
		return nil, err
	}
	if bucket.UserID != userID {
		return nil, ErrNotYourBucket
	}
	return bucket, nil
}
