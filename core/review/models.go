package review

import (
	"math"
	"time"

	"github.com/trezcool/elimu/core"
)

type Review struct {
	ID        string   `json:"id"`
	CourseID  string   `json:"course_id"`
	StudentID string   `json:"student_id"`
	Rating    int      `json:"rating"` // 1..5
	Title     string   `json:"title,omitempty"`
	Comment   string   `json:"comment,omitempty"`
	Pros      []string `json:"pros,omitempty"`
	Cons      []string `json:"cons,omitempty"`

	// derived: count of true helpful votes
	HelpfulVotes int `json:"helpful_votes"`

	IsVerifiedPurchase bool      `json:"is_verified_purchase"`
	CreatedAt          time.Time `json:"created_at"` // UTC
}

// HelpfulVote is one user's helpfulness vote on a review; one per
// (review, user), last write wins. False votes are stored but never counted.
type HelpfulVote struct {
	ReviewID  string    `json:"review_id"`
	UserID    string    `json:"user_id"`
	IsHelpful bool      `json:"is_helpful"`
	VotedAt   time.Time `json:"voted_at"` // UTC
}

// NewReview contains information needed to post a review on a course.
type NewReview struct {
	CourseID string   `json:"course_id" validate:"required"`
	Rating   int      `json:"rating" validate:"required,gte=1,lte=5"`
	Title    string   `json:"title"`
	Comment  string   `json:"comment"`
	Pros     []string `json:"pros"`
	Cons     []string `json:"cons"`
}

func (nr *NewReview) Validate() error {
	nr.Title = core.CleanString(nr.Title)
	nr.Comment = core.CleanString(nr.Comment)
	return core.Validate.Struct(nr)
}

// CourseRating recomputes a course's aggregate rating (mean rounded to one
// decimal) and review count from all its reviews.
func CourseRating(reviews []Review) (rating float64, count int) {
	count = len(reviews)
	if count == 0 {
		return 0, 0
	}
	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	mean := float64(sum) / float64(count)
	return math.Round(mean*10) / 10, count
}

// CountHelpful tallies the votes that count toward HelpfulVotes: true votes
// only, false votes are excluded rather than subtracted.
func CountHelpful(votes []HelpfulVote) int {
	var n int
	for _, v := range votes {
		if v.IsHelpful {
			n++
		}
	}
	return n
}
