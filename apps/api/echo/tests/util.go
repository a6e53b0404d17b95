package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	. "github.com/paycollect/paycollect/apps/api/echo"
	"github.com/paycollect/paycollect/core"
	"github.com/paycollect/paycollect/core/admin"
	"github.com/paycollect/paycollect/core/payment"
	"github.com/paycollect/paycollect/core/report"
	"github.com/paycollect/paycollect/core/screenshot"
	"github.com/paycollect/paycollect/core/student"
	emailsvc "github.com/paycollect/paycollect/services/email"
	logsvc "github.com/paycollect/paycollect/services/logger"
	inmemdb "github.com/paycollect/paycollect/storage/inmem"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	server     *Server
	conf       *core.Config
	adminSvc   *admin.Service
	studentSvc *student.Service
	paymentSvc *payment.Service
	assets     *inmemdb.AssetStore
}

func setup(t *testing.T) *testApp {
	t.Helper()

	conf := &core.Config{
		Env:       "TEST",
		TestMode:  true,
		AppName:   "PayCollect",
		SecretKey: []byte("test-secret-key"),
	}
	conf.Server.JWTExpirationDelta = time.Hour

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open(): %v", err)
	}
	validate, translator := core.NewValidator()

	adminSvc := admin.NewService(inmemdb.NewAdminRepository(db), validate)
	assets := inmemdb.NewAssetStore()
	shots := screenshot.NewManager(assets, adminSvc)
	studentRepo := inmemdb.NewStudentRepository(db)
	paymentRepo := inmemdb.NewPaymentRepository(db)
	studentSvc := student.NewService(studentRepo, paymentRepo, shots, validate)
	paymentSvc := payment.NewService(paymentRepo, studentSvc, validate)
	reportSvc := report.NewService(studentRepo, paymentRepo, inmemdb.NewAdminRepository(db), assets)

	stdLogger := logsvc.NewStdLogger(log.New(io.Discard, "", 0))
	stdLogger.Enable(false)

	server := NewServer(ServerDeps{
		Conf:       conf,
		Logger:     stdLogger,
		AdminSvc:   adminSvc,
		StudentSvc: studentSvc,
		PaymentSvc: paymentSvc,
		Shots:      shots,
		ReportSvc:  reportSvc,
		EmailSvc:   emailsvc.NewConsoleService(conf.AppName),
		Validate:   validate,
		Translator: translator,
	})

	return &testApp{
		server:     server,
		conf:       conf,
		adminSvc:   adminSvc,
		studentSvc: studentSvc,
		paymentSvc: paymentSvc,
		assets:     assets,
	}
}

func (app *testApp) portalCode(t *testing.T) string {
	s, err := app.adminSvc.Settings()
	if err != nil {
		t.Fatalf("Settings(): %v", err)
	}
	return s.ShortURLCode
}

func (app *testApp) token(t *testing.T) string {
	claims := GetAdminClaims(app.conf, "admin")
	token, err := GenerateToken(app.conf, claims)
	if err != nil {
		t.Fatalf("GenerateToken(): %v", err)
	}
	return token
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

func newUploadRequest(t *testing.T, path string, fields map[string]string, fileField, filename string, file []byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField(%s): %v", k, err)
		}
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, filename)
		if err != nil {
			t.Fatalf("CreateFormFile(): %v", err)
		}
		if _, err := fw.Write(file); err != nil {
			t.Fatalf("writing form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	return req, rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
