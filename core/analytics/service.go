// Package analytics answers the dashboards' aggregate questions. Every stat
// is recomputed from scratch by scanning the full collections at call time;
// there is no incremental maintenance and no caching. "This month" compares
// the calendar month and year of each timestamp against now, not a rolling
// 30-day window.
package analytics

import (
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core/course"
	"github.com/trezcool/elimu/core/enrollment"
	"github.com/trezcool/elimu/core/payment"
	"github.com/trezcool/elimu/core/review"
	"github.com/trezcool/elimu/core/user"
)

type (
	UserLister interface {
		QueryAll() ([]user.User, error)
	}
	CourseLister interface {
		QueryAll() ([]course.Course, error)
		GetByID(id string) (course.Course, error)
		TeacherCourses(teacherID string) ([]course.Course, error)
	}
	EnrollmentLister interface {
		QueryAll() ([]enrollment.Enrollment, error)
		ByCourse(courseID string) ([]enrollment.Enrollment, error)
	}
	PaymentLister interface {
		QueryAll() ([]payment.Payment, error)
	}
	ReviewLister interface {
		QueryAll() ([]review.Review, error)
	}

	Service struct {
		users       UserLister
		courses     CourseLister
		enrollments EnrollmentLister
		payments    PaymentLister
		reviews     ReviewLister
	}
)

func NewService(users UserLister, courses CourseLister, enrollments EnrollmentLister, payments PaymentLister, reviews ReviewLister) *Service {
	return &Service{
		users:       users,
		courses:     courses,
		enrollments: enrollments,
		payments:    payments,
		reviews:     reviews,
	}
}

type UserStats struct {
	Total        int `json:"total"`
	Admins       int `json:"admins"`
	Teachers     int `json:"teachers"`
	Students     int `json:"students"`
	Active       int `json:"active"`
	Pending      int `json:"pending"`
	Suspended    int `json:"suspended"`
	NewThisMonth int `json:"new_this_month"`
}

func (svc *Service) UserStats() (UserStats, error) {
	users, err := svc.users.QueryAll()
	if err != nil {
		return UserStats{}, errors.Wrap(err, "listing users")
	}

	now := time.Now().UTC()
	var stats UserStats
	stats.Total = len(users)
	for _, u := range users {
		switch u.Role {
		case user.RoleAdmin:
			stats.Admins++
		case user.RoleTeacher:
			stats.Teachers++
		case user.RoleStudent:
			stats.Students++
		}
		switch u.Status {
		case user.StatusActive:
			stats.Active++
		case user.StatusPending:
			stats.Pending++
		case user.StatusSuspended:
			stats.Suspended++
		}
		if sameMonth(u.JoinDate, now) {
			stats.NewThisMonth++
		}
	}
	return stats, nil
}

type PaymentStats struct {
	Total            int     `json:"total"`
	Completed        int     `json:"completed"`
	Pending          int     `json:"pending"`
	Failed           int     `json:"failed"`
	Refunded         int     `json:"refunded"` // includes partial refunds
	GrossRevenue     float64 `json:"gross_revenue"`
	RefundedAmount   float64 `json:"refunded_amount"`
	NetRevenue       float64 `json:"net_revenue"`
	RevenueThisMonth float64 `json:"revenue_this_month"`
}

func (svc *Service) PaymentStats() (PaymentStats, error) {
	payments, err := svc.payments.QueryAll()
	if err != nil {
		return PaymentStats{}, errors.Wrap(err, "listing payments")
	}

	now := time.Now().UTC()
	var stats PaymentStats
	stats.Total = len(payments)
	for _, p := range payments {
		switch p.Status {
		case payment.StatusCompleted:
			stats.Completed++
		case payment.StatusPending:
			stats.Pending++
		case payment.StatusFailed:
			stats.Failed++
		case payment.StatusRefunded, payment.StatusPartiallyRefunded:
			stats.Refunded++
		}
		if collected(p.Status) {
			stats.GrossRevenue += p.Amount
			stats.RefundedAmount += p.RefundAmount
			if sameMonth(p.CreatedAt, now) {
				stats.RevenueThisMonth += p.Amount - p.RefundAmount
			}
		}
	}
	stats.NetRevenue = stats.GrossRevenue - stats.RefundedAmount
	return stats, nil
}

type CourseAnalytics struct {
	CourseID        string  `json:"course_id"`
	Enrollments     int     `json:"enrollments"`
	Completions     int     `json:"completions"`
	CompletionRate  float64 `json:"completion_rate"` // 0..1
	AverageProgress float64 `json:"average_progress"`
	Revenue         float64 `json:"revenue"`
	Rating          float64 `json:"rating"`
	ReviewCount     int     `json:"review_count"`
}

func (svc *Service) CourseAnalytics(courseID string) (CourseAnalytics, error) {
	crs, err := svc.courses.GetByID(courseID)
	if err != nil {
		return CourseAnalytics{}, err
	}
	enrs, err := svc.enrollments.ByCourse(courseID)
	if err != nil {
		return CourseAnalytics{}, errors.Wrap(err, "listing course enrollments")
	}
	payments, err := svc.payments.QueryAll()
	if err != nil {
		return CourseAnalytics{}, errors.Wrap(err, "listing payments")
	}

	stats := CourseAnalytics{
		CourseID:    crs.ID,
		Enrollments: len(enrs),
		Rating:      crs.Rating,
		ReviewCount: crs.ReviewCount,
	}
	var progressSum int
	for _, enr := range enrs {
		progressSum += enr.Progress
		if enr.IsCompleted() {
			stats.Completions++
		}
	}
	if len(enrs) > 0 {
		stats.CompletionRate = float64(stats.Completions) / float64(len(enrs))
		stats.AverageProgress = float64(progressSum) / float64(len(enrs))
	}
	for _, p := range payments {
		if p.CourseID == courseID && collected(p.Status) {
			stats.Revenue += p.Amount - p.RefundAmount
		}
	}
	return stats, nil
}

type TeacherAnalytics struct {
	TeacherID     string  `json:"teacher_id"`
	Courses       int     `json:"courses"`
	ActiveCourses int     `json:"active_courses"`
	Students      int     `json:"students"` // total enrollments across courses
	Revenue       float64 `json:"revenue"`
	AverageRating float64 `json:"average_rating"` // mean of rated courses
}

func (svc *Service) TeacherAnalytics(teacherID string) (TeacherAnalytics, error) {
	courses, err := svc.courses.TeacherCourses(teacherID)
	if err != nil {
		return TeacherAnalytics{}, errors.Wrap(err, "listing teacher courses")
	}

	stats := TeacherAnalytics{TeacherID: teacherID, Courses: len(courses)}
	var ratingSum float64
	var rated int
	for _, crs := range courses {
		if crs.Status == course.StatusActive {
			stats.ActiveCourses++
		}
		if crs.ReviewCount > 0 {
			ratingSum += crs.Rating
			rated++
		}

		ca, err := svc.CourseAnalytics(crs.ID)
		if err != nil {
			return TeacherAnalytics{}, err
		}
		stats.Students += ca.Enrollments
		stats.Revenue += ca.Revenue
	}
	if rated > 0 {
		stats.AverageRating = ratingSum / float64(rated)
	}
	return stats, nil
}

type MonthRevenue struct {
	Year     int        `json:"year"`
	Month    time.Month `json:"month"`
	Gross    float64    `json:"gross"`
	Refunded float64    `json:"refunded"`
	Net      float64    `json:"net"`
}

// RevenueAnalytics breaks revenue down per calendar month for the trailing 12
// months, oldest first, current month last.
func (svc *Service) RevenueAnalytics() ([]MonthRevenue, error) {
	payments, err := svc.payments.QueryAll()
	if err != nil {
		return nil, errors.Wrap(err, "listing payments")
	}

	now := time.Now().UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	months := make([]MonthRevenue, 12)
	for i := range months {
		t := first.AddDate(0, i-11, 0)
		months[i] = MonthRevenue{Year: t.Year(), Month: t.Month()}
	}

	for _, p := range payments {
		if !collected(p.Status) {
			continue
		}
		for i := range months {
			if p.CreatedAt.Year() == months[i].Year && p.CreatedAt.Month() == months[i].Month {
				months[i].Gross += p.Amount
				months[i].Refunded += p.RefundAmount
				months[i].Net += p.Amount - p.RefundAmount
				break
			}
		}
	}
	return months, nil
}

// collected reports whether money actually came in for this payment status.
func collected(status string) bool {
	switch status {
	case payment.StatusCompleted, payment.StatusRefunded, payment.StatusPartiallyRefunded:
		return true
	}
	return false
}

func sameMonth(t, now time.Time) bool {
	return t.Month() == now.Month() && t.Year() == now.Year()
}
