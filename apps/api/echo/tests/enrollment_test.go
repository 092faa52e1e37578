package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/elimu/apps/api/echo"
	"github.com/trezcool/elimu/core/course"
	"github.com/trezcool/elimu/core/enrollment"
	"github.com/trezcool/elimu/core/payment"
	"github.com/trezcool/elimu/core/user"
	testutil "github.com/trezcool/elimu/tests"
)

func enroll(t *testing.T, token string, courseID string) echoapi.EnrollResponse {
	t.Helper()
	body := marchallObj(t, enrollment.EnrollRequest{CourseID: courseID, PaymentMethod: "card"})
	req, rec := newAuthRequest(http.MethodPost, "/v1/enrollments", token, body)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp echoapi.EnrollResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func Test_enrollmentApi_enroll(t *testing.T) {
	resetDB(t)

	teacher := testutil.CreateUser(t, usrRepo, "Jabari", "Mwangi", "jabari@test.cd", "", user.RoleTeacher, user.StatusActive)
	student := testutil.CreateUser(t, usrRepo, "Neema", "Okafor", "neema@test.cd", "", user.RoleStudent, user.StatusActive)
	crs := testutil.CreateCourse(t, crsRepo, teacher.ID, "Algebra Foundations", 49.99, course.StatusActive)

	token := getToken(t, student)

	t.Run("unknown course", func(t *testing.T) {
		body := marchallObj(t, enrollment.EnrollRequest{CourseID: "ghost", PaymentMethod: "card"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/enrollments", token, body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)
	})

	t.Run("success", func(t *testing.T) {
		resp := enroll(t, token, crs.ID)

		assert.NotEmpty(t, resp.Enrollment.ID)
		assert.Equal(t, student.ID, resp.Enrollment.StudentID)
		assert.Equal(t, crs.ID, resp.Enrollment.CourseID)
		assert.Zero(t, resp.Enrollment.Progress)
		assert.Equal(t, enrollment.PaymentPaid, resp.Enrollment.PaymentStatus)
		assert.Equal(t, resp.Payment.ID, resp.Enrollment.PaymentID)

		assert.Equal(t, payment.StatusCompleted, resp.Payment.Status)
		assert.Equal(t, crs.Price, resp.Payment.Amount)
		assert.NotNil(t, resp.Payment.CompletedAt)

		// the purchase bumps the enrolled count
		req, rec := newAuthRequest(http.MethodGet, "/v1/courses/"+crs.ID, token)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var refreshed course.Course
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &refreshed))
		assert.Equal(t, 1, refreshed.EnrolledStudents)
	})

	t.Run("my courses", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/enrollments/my-courses", token)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var mine []enrollment.StudentCourse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mine))
		require.Len(t, mine, 1)
		assert.Equal(t, crs.ID, mine[0].Course.ID)
	})
}

func Test_enrollmentApi_query(t *testing.T) {
	resetDB(t)

	admin := testutil.CreateUser(t, usrRepo, "Awa", "Traoré", "awa@test.cd", "", user.RoleAdmin, user.StatusActive)
	teacher := testutil.CreateUser(t, usrRepo, "Jabari", "Mwangi", "jabari@test.cd", "", user.RoleTeacher, user.StatusActive)
	student := testutil.CreateUser(t, usrRepo, "Neema", "Okafor", "neema@test.cd", "", user.RoleStudent, user.StatusActive)
	crs := testutil.CreateCourse(t, crsRepo, teacher.ID, "Algebra Foundations", 49.99, course.StatusActive)
	enr, _ := testutil.CreateEnrollment(t, enrRepo, student.ID, crs, 0)

	tests := []httpTest{
		{
			name: "Admin required", token: getToken(t, student),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermDenied),
		},
		{name: "Get all", token: getToken(t, admin), wantCode: http.StatusOK, wantData: marchallList(t, enr)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/enrollments", tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_enrollmentApi_updateProgress(t *testing.T) {
	resetDB(t)

	teacher := testutil.CreateUser(t, usrRepo, "Jabari", "Mwangi", "jabari@test.cd", "", user.RoleTeacher, user.StatusActive)
	student := testutil.CreateUser(t, usrRepo, "Neema", "Okafor", "neema@test.cd", "", user.RoleStudent, user.StatusActive)
	other := testutil.CreateUser(t, usrRepo, "Kofi", "Mensah", "kofi@test.cd", "", user.RoleStudent, user.StatusActive)
	crs := testutil.CreateCourse(t, crsRepo, teacher.ID, "Algebra Foundations", 49.99, course.StatusActive)
	enr, _ := testutil.CreateEnrollment(t, enrRepo, student.ID, crs, 0)

	path := "/v1/enrollments/" + enr.ID + "/progress"

	t.Run("someone else's enrollment", func(t *testing.T) {
		body := marchallObj(t, enrollment.ProgressUpdate{Progress: 10})
		req, rec := newAuthRequest(http.MethodPut, path, getToken(t, other), body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)
	})

	t.Run("halfway", func(t *testing.T) {
		body := marchallObj(t, enrollment.ProgressUpdate{Progress: 50, CompletedLessons: []string{"l1", "l2"}})
		req, rec := newAuthRequest(http.MethodPut, path, getToken(t, student), body)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var updated enrollment.Enrollment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		assert.Equal(t, 50, updated.Progress)
		assert.Equal(t, []string{"l1", "l2"}, updated.CompletedLessons)
		assert.Nil(t, updated.CompletedAt)
	})

	t.Run("completion", func(t *testing.T) {
		body := marchallObj(t, enrollment.ProgressUpdate{Progress: 100})
		req, rec := newAuthRequest(http.MethodPut, path, getToken(t, student), body)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var updated enrollment.Enrollment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		assert.Equal(t, 100, updated.Progress)
		assert.NotNil(t, updated.CompletedAt)
	})

	t.Run("out of range", func(t *testing.T) {
		body := marchallObj(t, enrollment.ProgressUpdate{Progress: 101})
		req, rec := newAuthRequest(http.MethodPut, path, getToken(t, student), body)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	})
}
