package course

import (
	"time"

	"github.com/trezcool/elimu/core"
)

// Course statuses
const (
	StatusDraft    = "draft"
	StatusActive   = "active"
	StatusArchived = "archived"
)

// Material types
const (
	MaterialVideo   = "video"
	MaterialPDF     = "pdf"
	MaterialQuiz    = "quiz"
	MaterialArticle = "article"
)

var (
	AllStatuses      = []string{StatusDraft, StatusActive, StatusArchived}
	AllMaterialTypes = []string{MaterialVideo, MaterialPDF, MaterialQuiz, MaterialArticle}
)

type Course struct {
	ID          string  `json:"id"`
	TeacherID   string  `json:"teacher_id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Level       string  `json:"level,omitempty"`
	Price       float64 `json:"price"`
	Status      string  `json:"status"`

	// derived aggregates, refreshed on every review insert
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`

	EnrolledStudents int       `json:"enrolled_students"` // denormalized count
	CreatedAt        time.Time `json:"created_at"`        // UTC
	UpdatedAt        time.Time `json:"updated_at"`        // UTC
}

// Material belongs to a Course; not lifecycle-managed beyond creation.
type Material struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"course_id"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	URL       string    `json:"url,omitempty"`
	IsPremium bool      `json:"is_premium"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// WishlistItem is a student's saved-for-later course, cleared automatically on
// enrollment.
type WishlistItem struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	CourseID  string    `json:"course_id"`
	AddedAt   time.Time `json:"added_at"` // UTC
}

// WishlistCourse is a WishlistItem joined to its Course for display.
type WishlistCourse struct {
	Course
	AddedAt time.Time `json:"added_at"`
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	TeacherID   string  `json:"teacher_id" validate:"required"`
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Level       string  `json:"level"`
	Price       float64 `json:"price" validate:"gte=0"`
	Status      string  `json:"status" validate:"omitempty,coursestatus"`
}

func (nc *NewCourse) Validate() error {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	if nc.Status == "" {
		nc.Status = StatusDraft
	}
	return core.Validate.Struct(nc)
}

// UpdateCourse defines what information may be provided to modify an existing
// Course. A nil/empty field leaves the original value untouched.
type UpdateCourse struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	Category    string   `json:"category"`
	Level       string   `json:"level"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Status      *string  `json:"status" validate:"omitempty,coursestatus"`
}

func (uc *UpdateCourse) Validate() error {
	uc.Title = core.CleanString(uc.Title)
	return core.Validate.Struct(uc)
}

// NewMaterial contains information needed to attach a Material to a Course.
type NewMaterial struct {
	Title     string `json:"title" validate:"required"`
	Type      string `json:"type" validate:"required,materialtype"`
	URL       string `json:"url"`
	IsPremium bool   `json:"is_premium"`
}

func (nm *NewMaterial) Validate() error {
	nm.Title = core.CleanString(nm.Title)
	return core.Validate.Struct(nm)
}

type QueryFilter struct {
	Search    string `query:"search"` // matches title or description
	TeacherID string `query:"teacher_id"`
	Status    string `query:"status"`
	Category  string `query:"category"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.TeacherID == "" && qf.Status == "" && qf.Category == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
}
