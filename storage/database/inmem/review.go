package inmemdb

import (
	"github.com/trezcool/elimu/core/review"
)

type reviewRepository struct {
	db *DB
}

var _ review.Repository = (*reviewRepository)(nil) // interface compliance check

func NewReviewRepository(db *DB) review.Repository {
	return &reviewRepository{db: db}
}

// CreateReview inserts the review and refreshes the owning course's Rating
// and ReviewCount in the same critical section.
func (repo *reviewRepository) CreateReview(rev review.Review) (review.Review, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	rev.ID = repo.db.nextID()
	repo.db.reviews[rev.ID] = &rev
	repo.db.reviewOrder = append(repo.db.reviewOrder, rev.ID)

	if crs, ok := repo.db.courses[rev.CourseID]; ok {
		crs.Rating, crs.ReviewCount = review.CourseRating(repo.courseReviews(rev.CourseID))
	}
	return rev, nil
}

func (repo *reviewRepository) GetReviewByID(id string) (review.Review, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if rev, ok := repo.db.reviews[id]; ok {
		return *rev, nil
	}
	return review.Review{}, review.ErrNotFound
}

func (repo *reviewRepository) QueryAllReviews() ([]review.Review, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	revs := make([]review.Review, 0, len(repo.db.reviewOrder))
	for _, id := range repo.db.reviewOrder {
		revs = append(revs, *repo.db.reviews[id])
	}
	return revs, nil
}

func (repo *reviewRepository) CourseReviews(courseID string) ([]review.Review, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return repo.courseReviews(courseID), nil
}

// courseReviews collects a course's reviews in insertion order; callers hold
// at least a read lock.
func (repo *reviewRepository) courseReviews(courseID string) []review.Review {
	revs := make([]review.Review, 0)
	for _, id := range repo.db.reviewOrder {
		if rev := repo.db.reviews[id]; rev.CourseID == courseID {
			revs = append(revs, *rev)
		}
	}
	return revs
}

func (repo *reviewRepository) StudentCourseReview(studentID, courseID string) (review.Review, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, id := range repo.db.reviewOrder {
		if rev := repo.db.reviews[id]; rev.StudentID == studentID && rev.CourseID == courseID {
			return *rev, nil
		}
	}
	return review.Review{}, review.ErrNotFound
}

// UpsertHelpfulVote stores the vote keyed by (review, user) and refreshes the
// review's HelpfulVotes count atomically with the write.
func (repo *reviewRepository) UpsertHelpfulVote(vote review.HelpfulVote) (review.Review, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	rev, ok := repo.db.reviews[vote.ReviewID]
	if !ok {
		return review.Review{}, review.ErrNotFound
	}

	key := vote.ReviewID + "/" + vote.UserID
	if _, ok := repo.db.votes[key]; !ok {
		repo.db.voteOrder = append(repo.db.voteOrder, key)
	}
	repo.db.votes[key] = &vote

	votes := make([]review.HelpfulVote, 0)
	for _, k := range repo.db.voteOrder {
		if v := repo.db.votes[k]; v.ReviewID == vote.ReviewID {
			votes = append(votes, *v)
		}
	}
	rev.HelpfulVotes = review.CountHelpful(votes)

	return *rev, nil
}
