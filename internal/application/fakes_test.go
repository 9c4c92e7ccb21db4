package application

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gardenviki-prog/Cooking-Recipes/internal/domain/entity"
	repo "github.com/gardenviki-prog/Cooking-Recipes/internal/domain/repository"
)

// In-memory repository fakes mirroring the postgres semantics, so the
// services can be exercised without a database.

type fakeDishRepo struct {
	dishes map[int64]*entity.Dish
	nextID int64
}

func newFakeDishRepo() *fakeDishRepo {
	return &fakeDishRepo{dishes: make(map[int64]*entity.Dish)}
}

func (f *fakeDishRepo) List(ctx context.Context, query string) ([]*entity.Dish, error) {
	out := make([]*entity.Dish, 0, len(f.dishes))
	q := strings.ToLower(query)
	for _, d := range f.dishes {
		if q == "" || strings.Contains(strings.ToLower(d.Name), q) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeDishRepo) GetByID(ctx context.Context, id int64) (*entity.Dish, error) {
	d, ok := f.dishes[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return d, nil
}

func (f *fakeDishRepo) Create(ctx context.Context, d *entity.Dish) error {
	f.nextID++
	d.ID = f.nextID
	f.dishes[d.ID] = d
	return nil
}

type fakeReviewRepo struct {
	dishes  *fakeDishRepo
	reviews map[int64]*entity.Review
	nextID  int64
}

func newFakeReviewRepo(dishes *fakeDishRepo) *fakeReviewRepo {
	return &fakeReviewRepo{dishes: dishes, reviews: make(map[int64]*entity.Review)}
}

func (f *fakeReviewRepo) recompute(dishID int64) float64 {
	var ratings []int
	for _, r := range f.reviews {
		if r.DishID == dishID {
			ratings = append(ratings, r.Rating)
		}
	}
	avg := entity.AverageRating(ratings)
	if d, ok := f.dishes.dishes[dishID]; ok {
		d.Rating = avg
	}
	return avg
}

func (f *fakeReviewRepo) Upsert(ctx context.Context, r *entity.Review) (float64, error) {
	for _, ex := range f.reviews {
		if ex.UserID == r.UserID && ex.DishID == r.DishID {
			ex.Rating = r.Rating
			ex.Body = r.Body
			ex.CreatedAt = time.Now()
			r.ID = ex.ID
			r.CreatedAt = ex.CreatedAt
			return f.recompute(r.DishID), nil
		}
	}
	f.nextID++
	r.ID = f.nextID
	r.CreatedAt = time.Now()
	cp := *r
	f.reviews[r.ID] = &cp
	return f.recompute(r.DishID), nil
}

func (f *fakeReviewRepo) Delete(ctx context.Context, reviewID int64) (float64, error) {
	r, ok := f.reviews[reviewID]
	if !ok {
		return 0, repo.ErrNotFound
	}
	delete(f.reviews, reviewID)
	return f.recompute(r.DishID), nil
}

func (f *fakeReviewRepo) GetByID(ctx context.Context, reviewID int64) (*entity.Review, error) {
	r, ok := f.reviews[reviewID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReviewRepo) GetByUserAndDish(ctx context.Context, userID string, dishID int64) (*entity.Review, error) {
	for _, r := range f.reviews {
		if r.UserID == userID && r.DishID == dishID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeReviewRepo) ListForDish(ctx context.Context, dishID int64, sortOrder string) ([]*entity.Review, error) {
	var out []*entity.Review
	for _, r := range f.reviews {
		if r.DishID == dishID {
			cp := *r
			out = append(out, &cp)
		}
	}
	switch entity.NormalizeSort(sortOrder) {
	case entity.SortHighest:
		sort.Slice(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	case entity.SortLowest:
		sort.Slice(out, func(i, j int) bool { return out[i].Rating < out[j].Rating })
	default:
		sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out, nil
}

func (f *fakeReviewRepo) ListForUser(ctx context.Context, userID string) ([]*entity.Review, error) {
	var out []*entity.Review
	for _, r := range f.reviews {
		if r.UserID == userID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeReviewRepo) count(dishID int64) int {
	n := 0
	for _, r := range f.reviews {
		if r.DishID == dishID {
			n++
		}
	}
	return n
}

type fakeUserRepo struct {
	users map[string]*entity.User // by id
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *entity.User) error {
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, u *entity.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	u.UpdatedAt = time.Now()
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	u, ok := f.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	return nil
}

// memSessionStore is an in-process SessionStore.
type memSessionStore struct {
	sessions map[string]*Session
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]*Session)}
}

func (s *memSessionStore) Create(ctx context.Context, userID, username string) (string, error) {
	sid := uuid.NewString()
	s.sessions[sid] = &Session{ID: sid, UserID: userID, Username: username}
	return sid, nil
}

func (s *memSessionStore) Get(ctx context.Context, sid string) (*Session, error) {
	sess, ok := s.sessions[sid]
	if !ok {
		return nil, ErrSessionNotFound
	}
	cp := *sess
	return &cp, nil
}

func (s *memSessionStore) Rename(ctx context.Context, sid, username string) error {
	sess, ok := s.sessions[sid]
	if !ok {
		return ErrSessionNotFound
	}
	sess.Username = username
	return nil
}

func (s *memSessionStore) Delete(ctx context.Context, sid string) error {
	delete(s.sessions, sid)
	return nil
}

// fakeAvatarStorage records saves and returns a deterministic path.
type fakeAvatarStorage struct {
	saved int
}

func (f *fakeAvatarStorage) Save(ctx context.Context, userID, filename, contentType string, r io.Reader) (string, error) {
	f.saved++
	_, _ = io.Copy(io.Discard, r)
	return fmt.Sprintf("/static/avatars/%s_%d%s", userID, f.saved, strings.ToLower(filenameExtForTest(filename))), nil
}

func filenameExtForTest(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}

// recordingIndexer counts reindex calls per dish.
type recordingIndexer struct {
	calls map[int64]int
}

func newRecordingIndexer() *recordingIndexer {
	return &recordingIndexer{calls: make(map[int64]int)}
}

func (r *recordingIndexer) ReindexDish(ctx context.Context, dishID int64) {
	r.calls[dishID]++
}
