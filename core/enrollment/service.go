package enrollment

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core"
	"github.com/trezcool/elimu/core/course"
	"github.com/trezcool/elimu/core/payment"
	"github.com/trezcool/elimu/core/user"
)

var (
	// errors
	ErrNotFound = errors.New("enrollment not found")
	// ErrDanglingCourse reports an enrollment whose course id no longer
	// resolves; the student-course join treats this as fatal, not a skipped
	// row.
	ErrDanglingCourse = errors.New("enrollment references a missing course")
)

type (
	Repository interface {
		// CreateEnrollment inserts the enrollment and its payment, links
		// Enrollment.PaymentID, removes any wishlist entry for the
		// (student, course) pair and bumps the course's enrolled-student
		// count, all in one critical section.
		CreateEnrollment(enr Enrollment, pmt payment.Payment) (Enrollment, payment.Payment, error)
		GetEnrollmentByID(id string) (Enrollment, error)
		QueryAllEnrollments() ([]Enrollment, error)
		StudentEnrollments(studentID string) ([]Enrollment, error)
		CourseEnrollments(courseID string) ([]Enrollment, error)
		HasEnrollment(studentID, courseID string) (bool, error)
		UpdateEnrollment(enr Enrollment) (Enrollment, error)
	}

	// CourseGetter resolves the course being purchased.
	CourseGetter interface {
		GetByID(id string) (course.Course, error)
	}

	// UserGetter resolves students for receipt emails.
	UserGetter interface {
		GetByID(id string) (user.User, error)
	}

	Service struct {
		repo    Repository
		courses CourseGetter
		users   UserGetter
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, courses CourseGetter, users UserGetter, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, courses: courses, users: users, mailSvc: mailSvc}
}

// Enroll enrolls the student in the course: one Enrollment (progress 0,
// payment status "paid") and one completed Payment with the fee breakdown,
// created atomically; any wishlist entry for the pair is removed. Payment is
// always treated as immediately successful; no failure path is modeled.
//
// There is deliberately no duplicate-enrollment guard: enrolling twice in the
// same course yields two independent Enrollment and Payment records, the way
// retried purchases do.
func (svc *Service) Enroll(studentID string, req EnrollRequest) (Enrollment, payment.Payment, error) {
	crs, err := svc.courses.GetByID(req.CourseID)
	if err != nil {
		return Enrollment{}, payment.Payment{}, err
	}

	now := time.Now().UTC()
	pmt := payment.Payment{
		StudentID:     studentID,
		CourseID:      crs.ID,
		Amount:        crs.Price,
		Currency:      "usd",
		Method:        req.PaymentMethod,
		TransactionID: "txn_" + uuid.New().String(),
		Status:        payment.StatusCompleted,
		Fees:          payment.ComputeFees(crs.Price),
		CreatedAt:     now,
		CompletedAt:   &now,
	}
	enr := Enrollment{
		StudentID:      studentID,
		CourseID:       crs.ID,
		Progress:       0,
		PaymentStatus:  PaymentPaid,
		EnrolledAt:     now,
		LastAccessedAt: now,
	}

	enr, pmt, err = svc.repo.CreateEnrollment(enr, pmt)
	if err != nil {
		return Enrollment{}, payment.Payment{}, err
	}
	svc.sendReceipt(enr, pmt, crs)
	return enr, pmt, nil
}

func (svc *Service) GetByID(id string) (Enrollment, error) {
	return svc.repo.GetEnrollmentByID(id)
}

func (svc *Service) QueryAll() ([]Enrollment, error) {
	return svc.repo.QueryAllEnrollments()
}

func (svc *Service) ByStudent(studentID string) ([]Enrollment, error) {
	return svc.repo.StudentEnrollments(studentID)
}

func (svc *Service) ByCourse(courseID string) ([]Enrollment, error) {
	return svc.repo.CourseEnrollments(courseID)
}

func (svc *Service) HasEnrollment(studentID, courseID string) (bool, error) {
	return svc.repo.HasEnrollment(studentID, courseID)
}

// StudentCourses joins the student's enrollments to their courses. An
// enrollment whose course id does not resolve is a data corruption and fails
// the whole call with ErrDanglingCourse.
func (svc *Service) StudentCourses(studentID string) ([]StudentCourse, error) {
	enrs, err := svc.repo.StudentEnrollments(studentID)
	if err != nil {
		return nil, err
	}
	courses := make([]StudentCourse, 0, len(enrs))
	for _, enr := range enrs {
		crs, err := svc.courses.GetByID(enr.CourseID)
		if err != nil {
			if errors.Cause(err) == course.ErrNotFound {
				return nil, errors.Wrapf(ErrDanglingCourse, "enrollment %s -> course %s", enr.ID, enr.CourseID)
			}
			return nil, err
		}
		courses = append(courses, StudentCourse{Course: crs, Enrollment: enr})
	}
	return courses, nil
}

// UpdateProgress patches the enrollment's progress and completed lessons,
// stamps LastAccessedAt and sets CompletedAt on the first time progress
// reaches 100.
func (svc *Service) UpdateProgress(id string, pu ProgressUpdate) (Enrollment, error) {
	enr, err := svc.repo.GetEnrollmentByID(id)
	if err != nil {
		return Enrollment{}, err
	}

	now := time.Now().UTC()
	enr.Progress = pu.Progress
	if pu.CompletedLessons != nil {
		enr.CompletedLessons = pu.CompletedLessons
	}
	enr.LastAccessedAt = now
	if enr.Progress >= 100 && enr.CompletedAt == nil {
		enr.CompletedAt = &now
	}
	return svc.repo.UpdateEnrollment(enr)
}

func (svc *Service) sendReceipt(enr Enrollment, pmt payment.Payment, crs course.Course) {
	if svc.mailSvc == nil {
		return
	}
	usr, err := svc.users.GetByID(enr.StudentID)
	if err != nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name(), Address: usr.Email}},
		Subject: "Enrollment confirmed: " + crs.Title,
		BodyStr: fmt.Sprintf(
			"Hi %s,\n\nYou are enrolled in %q.\nAmount charged: %.2f %s (transaction %s).\n\nHappy learning!\n",
			usr.FirstName, crs.Title, pmt.Amount, pmt.Currency, pmt.TransactionID,
		),
	})
}
