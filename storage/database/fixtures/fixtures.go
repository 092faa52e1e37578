// Package fixtures seeds demo data for local development so the API comes up
// with something to browse.
package fixtures

import (
	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core/course"
	"github.com/trezcool/elimu/core/enrollment"
	"github.com/trezcool/elimu/core/review"
	"github.com/trezcool/elimu/core/user"
)

const demoPassword = "LePassword123"

var demoUsers = []user.NewUser{
	{Email: "admin@elimu.local", FirstName: "Awa", LastName: "Traoré", Role: user.RoleAdmin},
	{Email: "teacher@elimu.local", FirstName: "Jabari", LastName: "Mwangi", Role: user.RoleTeacher, Subjects: []string{"Mathematics", "Physics"}},
	{Email: "student@elimu.local", FirstName: "Neema", LastName: "Okafor", Role: user.RoleStudent},
	{Email: "student2@elimu.local", FirstName: "Kofi", LastName: "Mensah", Role: user.RoleStudent},
}

// Load seeds users, courses, one enrollment and one review through the
// services, so all the usual side effects (fees, counters, aggregates) apply.
func Load(
	usrSvc *user.Service,
	crsSvc *course.Service,
	enrSvc *enrollment.Service,
	revSvc *review.Service,
) error {
	users := make([]user.User, 0, len(demoUsers))
	for _, nu := range demoUsers {
		nu.Password = demoPassword
		nu.PasswordConfirm = demoPassword
		usr, err := usrSvc.Create(nu)
		if err != nil {
			return errors.Wrapf(err, "creating demo user %s", nu.Email)
		}
		users = append(users, usr)
	}
	teacher, student := users[1], users[2]

	algebra, err := crsSvc.Create(course.NewCourse{
		TeacherID:   teacher.ID,
		Title:       "Algebra Foundations",
		Description: "Linear equations, polynomials and factoring.",
		Category:    "Mathematics",
		Level:       "beginner",
		Price:       49.99,
		Status:      course.StatusActive,
	})
	if err != nil {
		return errors.Wrap(err, "creating demo course")
	}
	if _, err = crsSvc.Create(course.NewCourse{
		TeacherID:   teacher.ID,
		Title:       "Mechanics 101",
		Description: "Kinematics and Newton's laws.",
		Category:    "Physics",
		Level:       "beginner",
		Price:       59.99,
		Status:      course.StatusActive,
	}); err != nil {
		return errors.Wrap(err, "creating demo course")
	}

	if _, err = crsSvc.AddMaterial(algebra.ID, course.NewMaterial{
		Title: "Lesson 1: Linear Equations",
		Type:  course.MaterialVideo,
		URL:   "https://videos.elimu.local/algebra-1",
	}); err != nil {
		return errors.Wrap(err, "adding demo material")
	}

	enr, _, err := enrSvc.Enroll(student.ID, enrollment.EnrollRequest{
		CourseID:      algebra.ID,
		PaymentMethod: "card",
	})
	if err != nil {
		return errors.Wrap(err, "enrolling demo student")
	}
	if _, err = enrSvc.UpdateProgress(enr.ID, enrollment.ProgressUpdate{Progress: 100}); err != nil {
		return errors.Wrap(err, "completing demo enrollment")
	}

	if _, err = revSvc.Add(student.ID, review.NewReview{
		CourseID: algebra.ID,
		Rating:   5,
		Title:    "Great course",
		Comment:  "Clear explanations and good exercises.",
	}); err != nil {
		return errors.Wrap(err, "adding demo review")
	}
	return nil
}
