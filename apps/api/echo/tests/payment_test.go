package tests

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/elimu/apps/api/echo"
	"github.com/trezcool/elimu/core/course"
	"github.com/trezcool/elimu/core/payment"
	"github.com/trezcool/elimu/core/user"
	testutil "github.com/trezcool/elimu/tests"
)

func Test_paymentApi_query(t *testing.T) {
	resetDB(t)

	admin := testutil.CreateUser(t, usrRepo, "Awa", "Traoré", "awa@test.cd", "", user.RoleAdmin, user.StatusActive)
	teacher := testutil.CreateUser(t, usrRepo, "Jabari", "Mwangi", "jabari@test.cd", "", user.RoleTeacher, user.StatusActive)
	student := testutil.CreateUser(t, usrRepo, "Neema", "Okafor", "neema@test.cd", "", user.RoleStudent, user.StatusActive)
	other := testutil.CreateUser(t, usrRepo, "Kofi", "Mensah", "kofi@test.cd", "", user.RoleStudent, user.StatusActive)
	crs := testutil.CreateCourse(t, crsRepo, teacher.ID, "Algebra Foundations", 49.99, course.StatusActive)

	_, pmt1 := testutil.CreateEnrollment(t, enrRepo, student.ID, crs, 0)
	_, pmt2 := testutil.CreateEnrollment(t, enrRepo, other.ID, crs, 0)

	adminToken := getToken(t, admin)

	tests := []httpTest{
		{
			name: "Admin required", path: "/v1/payments", token: getToken(t, student),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermDenied),
		},
		{name: "Get all", path: "/v1/payments", token: adminToken, wantData: marchallList(t, pmt1, pmt2)},
		{name: "search by student", path: "/v1/payments?search=neema", token: adminToken, wantData: marchallList(t, pmt1)},
		{name: "search by course title", path: "/v1/payments?search=algebra", token: adminToken, wantData: marchallList(t, pmt1, pmt2)},
		{name: "search (unknown)", path: "/v1/payments?search=zilch", token: adminToken, wantData: marchallList(t)},
		{name: "retrieve", path: "/v1/payments/" + pmt1.ID, token: adminToken, wantData: marchallObj(t, pmt1)},
		{
			name: "retrieve unknown", path: "/v1/payments/ghost", token: adminToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
		{name: "my payments", path: "/v1/payments/my", token: getToken(t, other), wantData: marchallList(t, pmt2)},
	}
	for _, tt := range tests {
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("export", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/payments/export", adminToken)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "payments-")

		lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
		require.Len(t, lines, 3) // header + 2 payments
		assert.Equal(t, "id,student_id,course_id,transaction_id,method,status,amount,refund_amount,created_at", lines[0])
	})
}

func Test_paymentApi_refund(t *testing.T) {
	resetDB(t)

	admin := testutil.CreateUser(t, usrRepo, "Awa", "Traoré", "awa@test.cd", "", user.RoleAdmin, user.StatusActive)
	teacher := testutil.CreateUser(t, usrRepo, "Jabari", "Mwangi", "jabari@test.cd", "", user.RoleTeacher, user.StatusActive)
	student := testutil.CreateUser(t, usrRepo, "Neema", "Okafor", "neema@test.cd", "", user.RoleStudent, user.StatusActive)
	crs := testutil.CreateCourse(t, crsRepo, teacher.ID, "Algebra Foundations", 100, course.StatusActive)

	_, pmt := testutil.CreateEnrollment(t, enrRepo, student.ID, crs, 0)
	adminToken := getToken(t, admin)
	path := "/v1/payments/" + pmt.ID + "/refund"

	t.Run("Admin required", func(t *testing.T) {
		body := marchallObj(t, echoapi.RefundRequest{Amount: 40})
		req, rec := newAuthRequest(http.MethodPost, path, getToken(t, student), body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermDenied)}, rec)
	})

	t.Run("amount required", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, path, adminToken, marchallObj(t, echoapi.RefundRequest{}))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"amount": "this field is required"}`),
		}, rec)
	})

	t.Run("partial refund", func(t *testing.T) {
		body := marchallObj(t, echoapi.RefundRequest{Amount: 40, Reason: "not happy"})
		req, rec := newAuthRequest(http.MethodPost, path, adminToken, body)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var refunded payment.Payment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &refunded))
		assert.Equal(t, payment.StatusPartiallyRefunded, refunded.Status)
		assert.Equal(t, 40.0, refunded.RefundAmount)
		assert.Equal(t, "not happy", refunded.RefundReason)
		assert.NotNil(t, refunded.RefundedAt)
	})

	t.Run("already refunded", func(t *testing.T) {
		body := marchallObj(t, echoapi.RefundRequest{Amount: 60})
		req, rec := newAuthRequest(http.MethodPost, path, adminToken, body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusConflict,
			wantData: []byte(`{"error": "only completed payments can be refunded"}`),
		}, rec)
	})

	t.Run("unknown payment", func(t *testing.T) {
		body := marchallObj(t, echoapi.RefundRequest{Amount: 40})
		req, rec := newAuthRequest(http.MethodPost, "/v1/payments/ghost/refund", adminToken, body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)
	})
}

func Test_paymentApi_updateStatus(t *testing.T) {
	resetDB(t)

	admin := testutil.CreateUser(t, usrRepo, "Awa", "Traoré", "awa@test.cd", "", user.RoleAdmin, user.StatusActive)
	adminToken := getToken(t, admin)

	pmt, err := pmtRepo.CreatePayment(payment.Payment{
		StudentID: "stu1",
		CourseID:  "crs1",
		Amount:    100,
		Currency:  "usd",
		Method:    "mobile_money",
		Status:    payment.StatusPending,
		Fees:      payment.ComputeFees(100),
	})
	require.NoError(t, err)

	path := "/v1/payments/" + pmt.ID + "/status"

	t.Run("unknown status", func(t *testing.T) {
		body := marchallObj(t, echoapi.StatusUpdateRequest{Status: "paid-ish"})
		req, rec := newAuthRequest(http.MethodPut, path, adminToken, body)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	})

	t.Run("completed", func(t *testing.T) {
		body := marchallObj(t, echoapi.StatusUpdateRequest{Status: payment.StatusCompleted})
		req, rec := newAuthRequest(http.MethodPut, path, adminToken, body)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var updated payment.Payment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		assert.Equal(t, payment.StatusCompleted, updated.Status)
		assert.NotNil(t, updated.CompletedAt)
	})
}
