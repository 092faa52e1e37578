package enrollment

import (
	"time"

	"github.com/trezcool/elimu/core"
	"github.com/trezcool/elimu/core/course"
)

// Enrollment payment statuses, tracked independently of the Payment ledger.
const (
	PaymentPaid    = "paid"
	PaymentPending = "pending"
	PaymentFailed  = "failed"
)

type Enrollment struct {
	ID               string     `json:"id"`
	StudentID        string     `json:"student_id"`
	CourseID         string     `json:"course_id"`
	PaymentID        string     `json:"payment_id,omitempty"`
	Progress         int        `json:"progress"` // 0..100
	CompletedLessons []string   `json:"completed_lessons,omitempty"`
	PaymentStatus    string     `json:"payment_status"`
	EnrolledAt       time.Time  `json:"enrolled_at"`      // UTC
	LastAccessedAt   time.Time  `json:"last_accessed_at"` // UTC
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

func (e *Enrollment) IsCompleted() bool { return e.Progress >= 100 }
func (e *Enrollment) IsPaid() bool      { return e.PaymentStatus == PaymentPaid }

// StudentCourse is an Enrollment joined to its Course for the student
// dashboard.
type StudentCourse struct {
	course.Course
	Enrollment Enrollment `json:"enrollment"`
}

// EnrollRequest contains information needed to enroll a student in a course.
type EnrollRequest struct {
	CourseID      string `json:"course_id" validate:"required"`
	PaymentMethod string `json:"payment_method" validate:"required"`
}

func (er *EnrollRequest) Validate() error {
	er.PaymentMethod = core.CleanString(er.PaymentMethod, true /* lower */)
	return core.Validate.Struct(er)
}

// ProgressUpdate patches an enrollment's progress tracking.
type ProgressUpdate struct {
	Progress         int      `json:"progress" validate:"gte=0,lte=100"`
	CompletedLessons []string `json:"completed_lessons"`
}

func (pu *ProgressUpdate) Validate() error { return core.Validate.Struct(pu) }
