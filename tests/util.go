package testutil

import (
	"testing"
	"time"

	"github.com/trezcool/elimu/core/course"
	"github.com/trezcool/elimu/core/enrollment"
	"github.com/trezcool/elimu/core/payment"
	"github.com/trezcool/elimu/core/review"
	"github.com/trezcool/elimu/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	first, last, email, pwd, role string,
	status string,
	joinDate ...time.Time,
) user.User {
	tstamp := time.Now().UTC()
	if len(joinDate) > 0 {
		tstamp = joinDate[0].UTC()
	}
	usr := user.User{
		Email:     email,
		FirstName: first,
		LastName:  last,
		Role:      role,
		Status:    status,
		JoinDate:  tstamp,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateCourse(
	t *testing.T,
	repo course.Repository,
	teacherID, title string,
	price float64,
	status string,
) course.Course {
	now := time.Now().UTC()
	crs, err := repo.CreateCourse(course.Course{
		TeacherID: teacherID,
		Title:     title,
		Price:     price,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return crs
}

// CreateEnrollment inserts a paid enrollment and its completed payment the way
// a purchase does.
func CreateEnrollment(
	t *testing.T,
	repo enrollment.Repository,
	studentID string,
	crs course.Course,
	progress int,
) (enrollment.Enrollment, payment.Payment) {
	now := time.Now().UTC()
	enr := enrollment.Enrollment{
		StudentID:      studentID,
		CourseID:       crs.ID,
		Progress:       progress,
		PaymentStatus:  enrollment.PaymentPaid,
		EnrolledAt:     now,
		LastAccessedAt: now,
	}
	if progress >= 100 {
		enr.CompletedAt = &now
	}
	pmt := payment.Payment{
		StudentID:   studentID,
		CourseID:    crs.ID,
		Amount:      crs.Price,
		Currency:    "usd",
		Method:      "card",
		Status:      payment.StatusCompleted,
		Fees:        payment.ComputeFees(crs.Price),
		CreatedAt:   now,
		CompletedAt: &now,
	}
	enr, pmt, err := repo.CreateEnrollment(enr, pmt)
	if err != nil {
		t.Fatalf("CreateEnrollment() failed: %v", err)
	}
	return enr, pmt
}

func CreateReview(
	t *testing.T,
	repo review.Repository,
	studentID, courseID string,
	rating int,
) review.Review {
	rev, err := repo.CreateReview(review.Review{
		CourseID:           courseID,
		StudentID:          studentID,
		Rating:             rating,
		IsVerifiedPurchase: true,
		CreatedAt:          time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateReview() failed: %v", err)
	}
	return rev
}
