package review

import (
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core/enrollment"
)

var (
	// errors
	ErrNotFound        = errors.New("review not found")
	ErrAlreadyReviewed = errors.New("student has already reviewed this course")
)

type (
	Repository interface {
		// CreateReview inserts the review and refreshes the owning course's
		// Rating and ReviewCount in the same critical section, so no reader
		// can observe the course between insert and recompute.
		CreateReview(rev Review) (Review, error)
		GetReviewByID(id string) (Review, error)
		QueryAllReviews() ([]Review, error)
		CourseReviews(courseID string) ([]Review, error)
		// StudentCourseReview returns ErrNotFound when the student has not
		// reviewed the course.
		StudentCourseReview(studentID, courseID string) (Review, error)
		// UpsertHelpfulVote stores one vote per (review, user), last write
		// wins, and refreshes Review.HelpfulVotes as the count of true votes.
		UpsertHelpfulVote(vote HelpfulVote) (Review, error)
	}

	// EnrollmentLister exposes a student's enrollments for eligibility checks.
	EnrollmentLister interface {
		ByStudent(studentID string) ([]enrollment.Enrollment, error)
	}

	Service struct {
		repo        Repository
		enrollments EnrollmentLister
	}
)

func NewService(repo Repository, enrollments EnrollmentLister) *Service {
	return &Service{repo: repo, enrollments: enrollments}
}

// Add posts a student's review on a course. At most one review per
// (student, course); the course's Rating and ReviewCount are refreshed
// atomically with the insert.
func (svc *Service) Add(studentID string, nr NewReview) (Review, error) {
	reviewed, err := svc.HasReviewed(studentID, nr.CourseID)
	if err != nil {
		return Review{}, err
	}
	if reviewed {
		return Review{}, ErrAlreadyReviewed
	}

	verified, err := svc.hasPaidEnrollment(studentID, nr.CourseID)
	if err != nil {
		return Review{}, err
	}

	rev := Review{
		CourseID:           nr.CourseID,
		StudentID:          studentID,
		Rating:             nr.Rating,
		Title:              nr.Title,
		Comment:            nr.Comment,
		Pros:               nr.Pros,
		Cons:               nr.Cons,
		HelpfulVotes:       0,
		IsVerifiedPurchase: verified,
		CreatedAt:          time.Now().UTC(),
	}
	return svc.repo.CreateReview(rev)
}

func (svc *Service) GetByID(id string) (Review, error) {
	return svc.repo.GetReviewByID(id)
}

func (svc *Service) QueryAll() ([]Review, error) {
	return svc.repo.QueryAllReviews()
}

func (svc *Service) ByCourse(courseID string) ([]Review, error) {
	return svc.repo.CourseReviews(courseID)
}

func (svc *Service) HasReviewed(studentID, courseID string) (bool, error) {
	if _, err := svc.repo.StudentCourseReview(studentID, courseID); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CanReview reports whether the student may review the course: a paid
// enrollment with progress 100 must exist and the student must not have
// reviewed the course yet. Both conditions are re-evaluated on every call.
func (svc *Service) CanReview(studentID, courseID string) (bool, error) {
	completed, err := svc.hasCompletedPaidEnrollment(studentID, courseID)
	if err != nil {
		return false, err
	}
	if !completed {
		return false, nil
	}
	reviewed, err := svc.HasReviewed(studentID, courseID)
	if err != nil {
		return false, err
	}
	return !reviewed, nil
}

// MarkHelpful upserts the user's helpfulness vote on a review; a second vote
// from the same user overwrites the first rather than accumulating.
func (svc *Service) MarkHelpful(reviewID, userID string, isHelpful bool) (Review, error) {
	return svc.repo.UpsertHelpfulVote(HelpfulVote{
		ReviewID:  reviewID,
		UserID:    userID,
		IsHelpful: isHelpful,
		VotedAt:   time.Now().UTC(),
	})
}

func (svc *Service) hasPaidEnrollment(studentID, courseID string) (bool, error) {
	enrs, err := svc.enrollments.ByStudent(studentID)
	if err != nil {
		return false, errors.Wrap(err, "listing student enrollments")
	}
	for _, enr := range enrs {
		if enr.CourseID == courseID && enr.IsPaid() {
			return true, nil
		}
	}
	return false, nil
}

func (svc *Service) hasCompletedPaidEnrollment(studentID, courseID string) (bool, error) {
	enrs, err := svc.enrollments.ByStudent(studentID)
	if err != nil {
		return false, errors.Wrap(err, "listing student enrollments")
	}
	for _, enr := range enrs {
		if enr.CourseID == courseID && enr.IsPaid() && enr.IsCompleted() {
			return true, nil
		}
	}
	return false, nil
}
