package service

import (
	"context"
	"errors"
	"sort"

	"github.com/techmaster-vietnam/blogcounter/core"
	"github.com/techmaster-vietnam/blogcounter/models"
	"github.com/techmaster-vietnam/blogcounter/utils"
	"github.com/techmaster-vietnam/goerrorkit"
	"gorm.io/gorm"
)

// BlogService handles blog counter business logic
type BlogService struct {
	blogRepo     core.BlogRepositoryInterface
	defaultTitle string
	observer     core.CounterObserver
}

// NewBlogService creates a new blog service
func NewBlogService(blogRepo core.BlogRepositoryInterface, defaultTitle string) *BlogService {
	return &BlogService{
		blogRepo:     blogRepo,
		defaultTitle: utils.NormalizeTitle(defaultTitle, models.DefaultTitle),
	}
}

// SetObserver set observer để ghi nhận metrics khi counter thay đổi
func (s *BlogService) SetObserver(observer core.CounterObserver) {
	s.observer = observer
}

// ListAll returns every record ordered by ascending id
func (s *BlogService) ListAll(ctx context.Context) ([]models.Blog, error) {
	blogs, err := s.blogRepo.List(ctx)
	if err != nil {
		return nil, storageError(err, "Failed to list blogs", nil)
	}
	return blogs, nil
}

// Get returns one record without touching its counters
func (s *BlogService) Get(ctx context.Context, id int64) (*models.Blog, error) {
	if err := utils.ValidateID(id); err != nil {
		return nil, err
	}
	blog, err := s.blogRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, id, "Failed to get blog")
	}
	return blog, nil
}

// EnsureExist creates placeholder records for the ids that are missing and
// returns the full list afterwards. Safe to repeat and to run concurrently.
func (s *BlogService) EnsureExist(ctx context.Context, ids []int64) ([]models.Blog, error) {
	seeds := make([]models.BlogSeed, 0, len(ids))
	for _, id := range ids {
		seeds = append(seeds, models.BlogSeed{ID: id})
	}
	return s.Backfill(ctx, seeds)
}

// Backfill is EnsureExist with optional titles, used by the content manifest.
// Seeds without a title get the placeholder.
func (s *BlogService) Backfill(ctx context.Context, seeds []models.BlogSeed) ([]models.Blog, error) {
	unique, err := s.normalizeSeeds(seeds)
	if err != nil {
		return nil, err
	}

	created, err := s.blogRepo.EnsureExist(ctx, unique)
	if created > 0 && s.observer != nil {
		s.observer.RecordsCreated(created)
	}
	if err != nil {
		return nil, storageError(err, "Failed to create missing blogs", map[string]interface{}{
			"requested": len(unique),
			"created":   created,
		})
	}
	return s.ListAll(ctx)
}

// RegisterViewAndFetch counts one view of id and returns the resulting record.
// Unknown ids are created with views=1 and fallbackTitle (or the placeholder).
func (s *BlogService) RegisterViewAndFetch(ctx context.Context, id int64, fallbackTitle string) (*models.Blog, error) {
	if err := utils.ValidateID(id); err != nil {
		return nil, err
	}

	title := utils.NormalizeTitle(fallbackTitle, s.defaultTitle)

	blog, err := s.blogRepo.UpsertView(ctx, id, title)
	if err != nil {
		return nil, storageError(err, "Failed to register view", map[string]interface{}{
			"blog_id": id,
		})
	}
	if s.observer != nil {
		s.observer.ViewRegistered()
	}
	return blog, nil
}

// IncrementView counts one view of an existing record and returns the new total
func (s *BlogService) IncrementView(ctx context.Context, id int64) (int64, error) {
	if err := utils.ValidateID(id); err != nil {
		return 0, err
	}
	views, err := s.blogRepo.IncrementViews(ctx, id)
	if err != nil {
		return 0, notFoundOr(err, id, "Failed to register view")
	}
	if s.observer != nil {
		s.observer.ViewRegistered()
	}
	return views, nil
}

// IncrementLike counts one like of an existing record and returns the new total
func (s *BlogService) IncrementLike(ctx context.Context, id int64) (int64, error) {
	if err := utils.ValidateID(id); err != nil {
		return 0, err
	}
	likes, err := s.blogRepo.IncrementLikes(ctx, id)
	if err != nil {
		return 0, notFoundOr(err, id, "Failed to register like")
	}
	if s.observer != nil {
		s.observer.LikeRegistered()
	}
	return likes, nil
}

// normalizeSeeds validates ids, drops duplicates (first title wins) and sorts by id
// so concurrent backfills touch rows in the same order.
func (s *BlogService) normalizeSeeds(seeds []models.BlogSeed) ([]models.BlogSeed, error) {
	seen := make(map[int64]struct{}, len(seeds))
	unique := make([]models.BlogSeed, 0, len(seeds))
	for _, seed := range seeds {
		if err := utils.ValidateID(seed.ID); err != nil {
			return nil, err
		}
		if _, ok := seen[seed.ID]; ok {
			continue
		}
		seen[seed.ID] = struct{}{}

		seed.Title = utils.NormalizeTitle(seed.Title, s.defaultTitle)
		unique = append(unique, seed)
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i].ID < unique[j].ID })
	return unique, nil
}

func notFoundOr(err error, id int64, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return goerrorkit.NewBusinessError(404, "Blog not found").WithData(map[string]interface{}{
			"blog_id": id,
		})
	}
	return storageError(err, message, map[string]interface{}{"blog_id": id})
}

// storageError marks a failure to reach or use the store; callers may retry
func storageError(err error, message string, data map[string]interface{}) error {
	wrapped := goerrorkit.WrapWithMessage(err, message)
	if data != nil {
		return wrapped.WithData(data)
	}
	return wrapped
}
