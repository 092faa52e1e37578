package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/elimu/apps/api/echo"
	"github.com/trezcool/elimu/core"
	"github.com/trezcool/elimu/core/analytics"
	"github.com/trezcool/elimu/core/course"
	"github.com/trezcool/elimu/core/enrollment"
	"github.com/trezcool/elimu/core/message"
	"github.com/trezcool/elimu/core/payment"
	"github.com/trezcool/elimu/core/review"
	"github.com/trezcool/elimu/core/settings"
	"github.com/trezcool/elimu/core/user"
	emailsvc "github.com/trezcool/elimu/services/email"
	logsvc "github.com/trezcool/elimu/services/logger"
	inmemdb "github.com/trezcool/elimu/storage/database/inmem"
)

var (
	app Server

	usrRepo user.Repository
	crsRepo course.Repository
	enrRepo enrollment.Repository
	pmtRepo payment.Repository
	revRepo review.Repository
	msgRepo message.Repository
	setRepo settings.Repository

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errPermDenied   = httpErr{Error: "permission denied"}
	errNotFound     = httpErr{Error: "not found"}
)

func TestMain(m *testing.M) {
	// deterministic error payloads
	core.Conf.Debug = false
	core.Conf.TestMode = true

	if err := setup(); err != nil {
		fmt.Printf("setup(): %v", err)
		os.Exit(1)
	}
	os.Exit(m.Run())
}

// setup rebuilds the store, services and server from scratch.
func setup() error {
	db, err := inmemdb.Open()
	if err != nil {
		return err
	}

	usrRepo = inmemdb.NewUserRepository(db)
	crsRepo = inmemdb.NewCourseRepository(db)
	enrRepo = inmemdb.NewEnrollmentRepository(db)
	pmtRepo = inmemdb.NewPaymentRepository(db)
	revRepo = inmemdb.NewReviewRepository(db)
	msgRepo = inmemdb.NewMessageRepository(db)
	setRepo = inmemdb.NewSettingsRepository(db)

	mailSvc := emailsvc.NewConsoleServiceMock()
	usrSvc := user.NewService(usrRepo)
	crsSvc := course.NewService(crsRepo, enrRepo)
	enrSvc := enrollment.NewService(enrRepo, crsSvc, usrSvc, mailSvc)
	pmtSvc := payment.NewService(pmtRepo, usrSvc, mailSvc)
	revSvc := review.NewService(revRepo, enrSvc)
	msgSvc := message.NewService(msgRepo, usrSvc)
	setSvc := settings.NewService(setRepo)
	anlSvc := analytics.NewService(usrSvc, crsSvc, enrSvc, pmtSvc, revSvc)

	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), core.Conf)
	logger.Enable(false)

	app = NewServer(&Options{
		DisableReqLogs: true,
		Logger:         logger,
		UserSvc:        usrSvc,
		CourseSvc:      crsSvc,
		EnrollSvc:      enrSvc,
		PaymentSvc:     pmtSvc,
		ReviewSvc:      revSvc,
		MessageSvc:     msgSvc,
		AnalyticsSvc:   anlSvc,
		SettingsSvc:    setSvc,
	})
	return nil
}

// resetDB gives the test a fresh store.
func resetDB(t *testing.T) {
	t.Helper()
	if err := setup(); err != nil {
		t.Fatalf("resetDB(): %v", err)
	}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, tt.wantCode, rec.Code)
	if tt.wantData == nil {
		assert.Empty(t, rec.Body.String())
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	require.NoErrorf(t, err, "jsonBytesEqual() failed to compare; body %v", rec.Body.String())
	assert.Truef(t, ok, "data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
}
