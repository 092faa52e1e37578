package enrollment_test

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core/course"
	"github.com/trezcool/elimu/core/enrollment"
	"github.com/trezcool/elimu/core/payment"
	"github.com/trezcool/elimu/core/user"
	inmemdb "github.com/trezcool/elimu/storage/database/inmem"
	testutil "github.com/trezcool/elimu/tests"
)

type setup struct {
	users   user.Repository
	courses course.Repository
	enrs    enrollment.Repository
	pmts    payment.Repository

	usrSvc *user.Service
	crsSvc *course.Service
	svc    *enrollment.Service
}

func newSetup(t *testing.T) *setup {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	s := &setup{
		users:   inmemdb.NewUserRepository(db),
		courses: inmemdb.NewCourseRepository(db),
		enrs:    inmemdb.NewEnrollmentRepository(db),
		pmts:    inmemdb.NewPaymentRepository(db),
	}
	s.usrSvc = user.NewService(s.users)
	s.crsSvc = course.NewService(s.courses, s.enrs)
	s.svc = enrollment.NewService(s.enrs, s.crsSvc, s.usrSvc, nil)
	return s
}

func TestService_Enroll(t *testing.T) {
	s := newSetup(t)

	student := testutil.CreateUser(t, s.users, "Neema", "Okafor", "neema@test.cd", "", user.RoleStudent, user.StatusActive)
	crs := testutil.CreateCourse(t, s.courses, "t1", "Algebra", 100.00, course.StatusActive)

	// wishlisted beforehand; enrollment must clear it
	if _, err := s.crsSvc.AddToWishlist(student.ID, crs.ID); err != nil {
		t.Fatalf("AddToWishlist() failed: %v", err)
	}

	enr, pmt, err := s.svc.Enroll(student.ID, enrollment.EnrollRequest{CourseID: crs.ID, PaymentMethod: "card"})
	if err != nil {
		t.Fatalf("Enroll() failed: %v", err)
	}

	if enr.ID == "" || pmt.ID == "" {
		t.Fatal("Enroll() did not assign IDs")
	}
	if enr.PaymentID != pmt.ID {
		t.Errorf("Enroll() enrollment.PaymentID = %q; want %q", enr.PaymentID, pmt.ID)
	}
	if enr.Progress != 0 || enr.PaymentStatus != enrollment.PaymentPaid {
		t.Errorf("Enroll() enrollment = %+v; want progress 0, paid", enr)
	}
	if pmt.Status != payment.StatusCompleted || pmt.CompletedAt == nil {
		t.Errorf("Enroll() payment = %+v; want completed with timestamp", pmt)
	}
	if pmt.Amount != crs.Price {
		t.Errorf("Enroll() amount = %v; want %v", pmt.Amount, crs.Price)
	}
	// 2.9% + $0.30 processing, $0.25 gateway, 10% platform on $100
	wantFees := payment.Fees{Processing: 3.20, Gateway: 0.25, Platform: 10.00, Net: 86.55}
	if pmt.Fees != wantFees {
		t.Errorf("Enroll() fees = %+v; want %+v", pmt.Fees, wantFees)
	}

	// wishlist entry cleared
	wl, err := s.crsSvc.Wishlist(student.ID)
	if err != nil {
		t.Fatalf("Wishlist() failed: %v", err)
	}
	if len(wl) != 0 {
		t.Errorf("Wishlist() = %+v; want empty after enrollment", wl)
	}

	// enrolled-student count bumped
	refreshed, err := s.crsSvc.GetByID(crs.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if refreshed.EnrolledStudents != 1 {
		t.Errorf("EnrolledStudents = %d; want 1", refreshed.EnrolledStudents)
	}

	// no duplicate guard: a second enrollment yields independent records
	enr2, pmt2, err := s.svc.Enroll(student.ID, enrollment.EnrollRequest{CourseID: crs.ID, PaymentMethod: "card"})
	if err != nil {
		t.Fatalf("Enroll(again) failed: %v", err)
	}
	if enr2.ID == enr.ID || pmt2.ID == pmt.ID {
		t.Error("Enroll(again) reused records; want independent ones")
	}
	refreshed, _ = s.crsSvc.GetByID(crs.ID)
	if refreshed.EnrolledStudents != 2 {
		t.Errorf("EnrolledStudents = %d; want 2", refreshed.EnrolledStudents)
	}

	// unknown course
	if _, _, err := s.svc.Enroll(student.ID, enrollment.EnrollRequest{CourseID: "ghost", PaymentMethod: "card"}); errors.Cause(err) != course.ErrNotFound {
		t.Errorf("Enroll(unknown course) error = %v; want ErrNotFound", err)
	}
}

func TestService_StudentCourses(t *testing.T) {
	s := newSetup(t)

	crs := testutil.CreateCourse(t, s.courses, "t1", "Algebra", 49.99, course.StatusActive)
	testutil.CreateEnrollment(t, s.enrs, "stu1", crs, 40)

	courses, err := s.svc.StudentCourses("stu1")
	if err != nil {
		t.Fatalf("StudentCourses() failed: %v", err)
	}
	if len(courses) != 1 {
		t.Fatalf("StudentCourses() returned %d; want 1", len(courses))
	}
	if courses[0].ID != crs.ID || courses[0].Enrollment.Progress != 40 {
		t.Errorf("StudentCourses() = %+v; want course %q with progress 40", courses[0], crs.ID)
	}

	// a dangling course id fails the whole call
	if err := s.crsSvc.Delete(crs.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := s.svc.StudentCourses("stu1"); errors.Cause(err) != enrollment.ErrDanglingCourse {
		t.Errorf("StudentCourses(dangling) error = %v; want ErrDanglingCourse", err)
	}
}

func TestService_UpdateProgress(t *testing.T) {
	s := newSetup(t)

	crs := testutil.CreateCourse(t, s.courses, "t1", "Algebra", 49.99, course.StatusActive)
	enr, _ := testutil.CreateEnrollment(t, s.enrs, "stu1", crs, 0)

	updated, err := s.svc.UpdateProgress(enr.ID, enrollment.ProgressUpdate{Progress: 50, CompletedLessons: []string{"l1", "l2"}})
	if err != nil {
		t.Fatalf("UpdateProgress() failed: %v", err)
	}
	if updated.Progress != 50 || len(updated.CompletedLessons) != 2 {
		t.Errorf("UpdateProgress() = %+v; want progress 50, 2 lessons", updated)
	}
	if updated.CompletedAt != nil {
		t.Error("UpdateProgress() stamped CompletedAt before 100")
	}

	updated, err = s.svc.UpdateProgress(enr.ID, enrollment.ProgressUpdate{Progress: 100})
	if err != nil {
		t.Fatalf("UpdateProgress() failed: %v", err)
	}
	if updated.CompletedAt == nil {
		t.Fatal("UpdateProgress(100) did not stamp CompletedAt")
	}
	firstCompleted := *updated.CompletedAt

	// a later update does not re-stamp completion
	updated, err = s.svc.UpdateProgress(enr.ID, enrollment.ProgressUpdate{Progress: 100})
	if err != nil {
		t.Fatalf("UpdateProgress() failed: %v", err)
	}
	if !updated.CompletedAt.Equal(firstCompleted) {
		t.Error("UpdateProgress() re-stamped CompletedAt")
	}

	if _, err := s.svc.UpdateProgress("ghost", enrollment.ProgressUpdate{Progress: 10}); errors.Cause(err) != enrollment.ErrNotFound {
		t.Errorf("UpdateProgress(unknown) error = %v; want ErrNotFound", err)
	}
}
