package inmemdb

import (
	"github.com/trezcool/elimu/core/enrollment"
	"github.com/trezcool/elimu/core/payment"
)

type enrollmentRepository struct {
	db *DB
}

var _ enrollment.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(db *DB) enrollment.Repository {
	return &enrollmentRepository{db: db}
}

func (repo *enrollmentRepository) query() []enrollment.Enrollment {
	enrs := make([]enrollment.Enrollment, 0, len(repo.db.enrollmentOrder))
	for _, id := range repo.db.enrollmentOrder {
		enrs = append(enrs, *repo.db.enrollments[id])
	}
	return enrs
}

// CreateEnrollment writes the enrollment, its payment, the wishlist removal
// and the course's enrolled-student bump in one critical section, so no
// reader can observe a half-applied purchase.
func (repo *enrollmentRepository) CreateEnrollment(enr enrollment.Enrollment, pmt payment.Payment) (enrollment.Enrollment, payment.Payment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	pmt.ID = repo.db.nextID()
	repo.db.payments[pmt.ID] = &pmt
	repo.db.paymentOrder = append(repo.db.paymentOrder, pmt.ID)

	enr.ID = repo.db.nextID()
	enr.PaymentID = pmt.ID
	repo.db.enrollments[enr.ID] = &enr
	repo.db.enrollmentOrder = append(repo.db.enrollmentOrder, enr.ID)

	repo.db.removeWishlistItem(enr.StudentID, enr.CourseID)

	if crs, ok := repo.db.courses[enr.CourseID]; ok {
		crs.EnrolledStudents++
	}

	return enr, pmt, nil
}

func (repo *enrollmentRepository) GetEnrollmentByID(id string) (enrollment.Enrollment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if enr, ok := repo.db.enrollments[id]; ok {
		return *enr, nil
	}
	return enrollment.Enrollment{}, enrollment.ErrNotFound
}

func (repo *enrollmentRepository) QueryAllEnrollments() ([]enrollment.Enrollment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return repo.query(), nil
}

func (repo *enrollmentRepository) StudentEnrollments(studentID string) ([]enrollment.Enrollment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	enrs := make([]enrollment.Enrollment, 0)
	for _, id := range repo.db.enrollmentOrder {
		if enr := repo.db.enrollments[id]; enr.StudentID == studentID {
			enrs = append(enrs, *enr)
		}
	}
	return enrs, nil
}

func (repo *enrollmentRepository) CourseEnrollments(courseID string) ([]enrollment.Enrollment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	enrs := make([]enrollment.Enrollment, 0)
	for _, id := range repo.db.enrollmentOrder {
		if enr := repo.db.enrollments[id]; enr.CourseID == courseID {
			enrs = append(enrs, *enr)
		}
	}
	return enrs, nil
}

func (repo *enrollmentRepository) HasEnrollment(studentID, courseID string) (bool, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, id := range repo.db.enrollmentOrder {
		if enr := repo.db.enrollments[id]; enr.StudentID == studentID && enr.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (repo *enrollmentRepository) UpdateEnrollment(enr enrollment.Enrollment) (enrollment.Enrollment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	origEnr, ok := repo.db.enrollments[enr.ID]
	if !ok {
		return enrollment.Enrollment{}, enrollment.ErrNotFound
	}
	origEnr.Progress = enr.Progress
	origEnr.CompletedLessons = enr.CompletedLessons
	origEnr.PaymentStatus = enr.PaymentStatus
	origEnr.LastAccessedAt = enr.LastAccessedAt
	origEnr.CompletedAt = enr.CompletedAt

	return *origEnr, nil
}
