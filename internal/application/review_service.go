package application

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/gardenviki-prog/Cooking-Recipes/internal/domain/entity"
	repo "github.com/gardenviki-prog/Cooking-Recipes/internal/domain/repository"
)

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrNotReviewOwner = errors.New("review belongs to another user")
)

// DishIndexer refreshes a dish's search-index entry after its rating
// changed. RecipeService implements it.
type DishIndexer interface {
	ReindexDish(ctx context.Context, dishID int64)
}

// ReviewService holds the review state machine for a (user, dish) pair:
// submitting creates the review or overwrites the existing one in place,
// deleting is owner-only. Each mutation runs through the repository's
// transactional write path and is serialized per dish, so two concurrent
// submissions cannot interleave their aggregate recomputes.
type ReviewService struct {
	Dishes  repo.DishRepository
	Reviews repo.ReviewRepository
	Indexer DishIndexer
	Logger  *logrus.Logger

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewReviewService(dishes repo.DishRepository, reviews repo.ReviewRepository, indexer DishIndexer, logger *logrus.Logger) *ReviewService {
	return &ReviewService{
		Dishes:  dishes,
		Reviews: reviews,
		Indexer: indexer,
		Logger:  logger,
		locks:   make(map[int64]*sync.Mutex),
	}
}

// dishLock returns the mutex serializing writes for one dish. Entries
// are never removed; the dish set is seeded and small.
func (s *ReviewService) dishLock(dishID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[dishID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[dishID] = l
	}
	return l
}

// GetOwn returns the caller's review for the dish, or ErrReviewNotFound.
func (s *ReviewService) GetOwn(ctx context.Context, userID string, dishID int64) (*entity.Review, error) {
	if _, err := s.Dishes.GetByID(ctx, dishID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrDishNotFound
		}
		return nil, err
	}
	rev, err := s.Reviews.GetByUserAndDish(ctx, userID, dishID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return rev, nil
}

// Submit upserts the caller's review for the dish and returns it along
// with the dish's recomputed rating. A resubmission overwrites rating,
// body and timestamp; the review count for the pair never grows past one.
func (s *ReviewService) Submit(ctx context.Context, userID string, dishID int64, rating int, body string) (*entity.Review, float64, error) {
	if _, err := s.Dishes.GetByID(ctx, dishID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, 0, ErrDishNotFound
		}
		return nil, 0, err
	}

	rev := &entity.Review{DishID: dishID, UserID: userID, Rating: rating, Body: body}

	l := s.dishLock(dishID)
	l.Lock()
	newRating, err := s.Reviews.Upsert(ctx, rev)
	l.Unlock()
	if err != nil {
		return nil, 0, err
	}

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"dish_id": dishID,
			"user_id": userID,
			"rating":  newRating,
		}).Info("review submitted")
	}
	if s.Indexer != nil {
		s.Indexer.ReindexDish(ctx, dishID)
	}
	return rev, newRating, nil
}

// Delete removes the caller's own review and returns the dish's
// recomputed rating. A non-owner's attempt changes nothing.
func (s *ReviewService) Delete(ctx context.Context, userID string, reviewID int64) (float64, error) {
	rev, err := s.Reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return 0, ErrReviewNotFound
		}
		return 0, err
	}
	if rev.UserID != userID {
		return 0, ErrNotReviewOwner
	}

	l := s.dishLock(rev.DishID)
	l.Lock()
	newRating, err := s.Reviews.Delete(ctx, reviewID)
	l.Unlock()
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return 0, ErrReviewNotFound
		}
		return 0, err
	}

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"dish_id":   rev.DishID,
			"review_id": reviewID,
			"rating":    newRating,
		}).Info("review deleted")
	}
	if s.Indexer != nil {
		s.Indexer.ReindexDish(ctx, rev.DishID)
	}
	return newRating, nil
}

// ListForUser returns a user's reviews, newest first.
func (s *ReviewService) ListForUser(ctx context.Context, userID string) ([]*entity.Review, error) {
	return s.Reviews.ListForUser(ctx, userID)
}
