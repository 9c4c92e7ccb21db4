package entity

import "time"

// Review is a single user's rated comment on a dish.
// At most one review exists per (user, dish); a resubmission overwrites
// rating, body and timestamp in place. No history is kept.
type Review struct {
	ID        int64
	DishID    int64
	UserID    string
	Rating    int
	Body      string
	CreatedAt time.Time

	// Username is joined in for display; not a column of reviews.
	Username string
}

// Review sort orders for a dish detail page.
const (
	SortNewest  = "newest"
	SortHighest = "highest"
	SortLowest  = "lowest"
)

// NormalizeSort maps unknown sort keys to the default order.
func NormalizeSort(sort string) string {
	switch sort {
	case SortHighest, SortLowest:
		return sort
	default:
		return SortNewest
	}
}
