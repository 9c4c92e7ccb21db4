package entity

import (
	"math"
	"strings"
)

// Dish is a recipe entry. Ingredients and Steps are stored as multiline
// text; SplitLines turns them into display lists.
//
// Rating is denormalized: it must always equal AverageRating over the
// dish's current review set. It is rewritten inside the same transaction
// as every review mutation and never updated anywhere else.
type Dish struct {
	ID          int64
	Name        string
	Ingredients string
	Steps       string
	Calories    int
	CookingTime int // minutes
	Servings    int
	Rating      float64
}

// AverageRating returns the displayed rating for a review set: the mean
// of the ratings rounded to one decimal, or 0.0 when there are none.
// Ties round half to even, so a mean of 3.25 displays as 3.2.
// Rounding applies only to the displayed value, never to stored ratings.
func AverageRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0.0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	mean := float64(sum) / float64(len(ratings))
	return math.RoundToEven(mean*10) / 10
}

// SplitLines splits multiline text into trimmed, non-empty lines.
func SplitLines(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
