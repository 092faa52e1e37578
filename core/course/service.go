package course

import (
	"time"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound         = errors.New("course not found")
	ErrMaterialNotFound = errors.New("course material not found")
)

type (
	Repository interface {
		CreateCourse(crs Course) (Course, error)
		QueryAllCourses() ([]Course, error)
		GetCourseByID(id string) (Course, error)
		// FilterCourses applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on title or description.
		FilterCourses(filter QueryFilter) ([]Course, error)
		// UpdateCourse replaces the mutable fields of the stored course;
		// derived aggregates and EnrolledStudents are left untouched.
		UpdateCourse(crs Course) (Course, error)
		DeleteCoursesByID(ids ...string) error

		CreateMaterial(mat Material) (Material, error)
		CourseMaterials(courseID string) ([]Material, error)

		// AddWishlistItem is a no-op returning the existing item when the
		// (student, course) pair is already wishlisted.
		AddWishlistItem(item WishlistItem) (WishlistItem, error)
		// RemoveWishlistItem silently succeeds when no such item exists.
		RemoveWishlistItem(studentID, courseID string) error
		StudentWishlist(studentID string) ([]WishlistItem, error)
	}

	// EnrollmentChecker reports whether a student has any enrollment record
	// for a course, regardless of its payment status.
	EnrollmentChecker interface {
		HasEnrollment(studentID, courseID string) (bool, error)
	}

	Service struct {
		repo        Repository
		enrollments EnrollmentChecker
	}
)

func NewService(repo Repository, enrollments EnrollmentChecker) *Service {
	return &Service{repo: repo, enrollments: enrollments}
}

func (svc *Service) Create(nc NewCourse) (Course, error) {
	now := time.Now().UTC()
	crs := Course{
		TeacherID:   nc.TeacherID,
		Title:       nc.Title,
		Description: nc.Description,
		Category:    nc.Category,
		Level:       nc.Level,
		Price:       nc.Price,
		Status:      nc.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateCourse(crs)
}

func (svc *Service) QueryAll() ([]Course, error) {
	return svc.repo.QueryAllCourses()
}

func (svc *Service) GetByID(id string) (Course, error) {
	return svc.repo.GetCourseByID(id)
}

func (svc *Service) Filter(filter QueryFilter) ([]Course, error) {
	return svc.repo.FilterCourses(filter)
}

func (svc *Service) TeacherCourses(teacherID string) ([]Course, error) {
	return svc.repo.FilterCourses(QueryFilter{TeacherID: teacherID})
}

func (svc *Service) Update(id string, uc UpdateCourse) (Course, error) {
	crs, err := svc.repo.GetCourseByID(id)
	if err != nil {
		return Course{}, err
	}
	if uc.Title != "" {
		crs.Title = uc.Title
	}
	if uc.Description != nil {
		crs.Description = *uc.Description
	}
	if uc.Category != "" {
		crs.Category = uc.Category
	}
	if uc.Level != "" {
		crs.Level = uc.Level
	}
	if uc.Price != nil {
		crs.Price = *uc.Price
	}
	if uc.Status != nil {
		crs.Status = *uc.Status
	}
	crs.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateCourse(crs)
}

func (svc *Service) Delete(ids ...string) error {
	return svc.repo.DeleteCoursesByID(ids...)
}

// Available returns active courses the student may still enroll in. A course
// the student already enrolled in is excluded whatever the enrollment's
// payment status, so a pending payment still hides the course from browse.
func (svc *Service) Available(studentID string) ([]Course, error) {
	all, err := svc.repo.FilterCourses(QueryFilter{Status: StatusActive})
	if err != nil {
		return nil, err
	}
	available := make([]Course, 0, len(all))
	for _, crs := range all {
		enrolled, err := svc.enrollments.HasEnrollment(studentID, crs.ID)
		if err != nil {
			return nil, errors.Wrap(err, "checking enrollment")
		}
		if !enrolled {
			available = append(available, crs)
		}
	}
	return available, nil
}

func (svc *Service) AddMaterial(courseID string, nm NewMaterial) (Material, error) {
	if _, err := svc.repo.GetCourseByID(courseID); err != nil {
		return Material{}, err
	}
	mat := Material{
		CourseID:  courseID,
		Title:     nm.Title,
		Type:      nm.Type,
		URL:       nm.URL,
		IsPremium: nm.IsPremium,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateMaterial(mat)
}

func (svc *Service) Materials(courseID string) ([]Material, error) {
	return svc.repo.CourseMaterials(courseID)
}

func (svc *Service) AddToWishlist(studentID, courseID string) (WishlistItem, error) {
	if _, err := svc.repo.GetCourseByID(courseID); err != nil {
		return WishlistItem{}, err
	}
	item := WishlistItem{
		StudentID: studentID,
		CourseID:  courseID,
		AddedAt:   time.Now().UTC(),
	}
	return svc.repo.AddWishlistItem(item)
}

func (svc *Service) RemoveFromWishlist(studentID, courseID string) error {
	return svc.repo.RemoveWishlistItem(studentID, courseID)
}

// Wishlist joins the student's wishlist items to their courses; items whose
// course has since been deleted are skipped.
func (svc *Service) Wishlist(studentID string) ([]WishlistCourse, error) {
	items, err := svc.repo.StudentWishlist(studentID)
	if err != nil {
		return nil, err
	}
	courses := make([]WishlistCourse, 0, len(items))
	for _, item := range items {
		crs, err := svc.repo.GetCourseByID(item.CourseID)
		if err != nil {
			if errors.Cause(err) == ErrNotFound {
				continue
			}
			return nil, err
		}
		courses = append(courses, WishlistCourse{Course: crs, AddedAt: item.AddedAt})
	}
	return courses, nil
}
