package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/absence"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/classgroup"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/metric"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/occurrence"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/report"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/settings"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/student"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/user"
	emailsvc "github.com/LionGab/sistema-disciplinar-jupiara/services/email"
	"github.com/LionGab/sistema-disciplinar-jupiara/testutil"
)

type testEnv struct {
	app     *Server
	conf    *core.Config
	repos   testutil.Repositories
	mailSvc *emailsvc.ConsoleServiceMock
}

// setup serves the sample school from memory.
func setup(t *testing.T, configure ...func(*core.Config)) testEnv {
	t.Helper()

	conf := testutil.NewConfig()
	for _, fn := range configure {
		fn(conf)
	}
	logger := testutil.NewLogger(conf)
	repos := testutil.SeededRepositories(t, true)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)
	settingsSvc := settings.NewService(repos.Settings)
	require.NoError(t, settingsSvc.Load(context.Background()))

	classSvc := classgroup.NewService(repos.Classes)
	studentSvc := student.NewService(repos.Students)
	occurrenceSvc := occurrence.NewService(repos.Occurrences, mailSvc, settingsSvc)
	absenceSvc := absence.NewService(repos.Absences)

	app := NewServer(Deps{
		Config:        conf,
		Logger:        logger,
		Validate:      validate,
		Translator:    translator,
		ClassSvc:      classSvc,
		StudentSvc:    studentSvc,
		OccurrenceSvc: occurrenceSvc,
		AbsenceSvc:    absenceSvc,
		MetricSvc:     metric.NewService(repos.Metrics, repos.Students, repos.Occurrences, repos.Absences, conf),
		ReportSvc:     report.NewService(classSvc, studentSvc, occurrenceSvc, absenceSvc, settingsSvc, validate),
		SettingsSvc:   settingsSvc,
		UserSvc:       user.NewService(repos.Users),
	})
	return testEnv{app: app, conf: conf, repos: repos, mailSvc: mailSvc}
}

func (env testEnv) token(t *testing.T, usr user.User) string {
	token, err := env.app.auth.generateToken(env.app.auth.claims(usr))
	if err != nil {
		t.Fatalf("token() failed: %v", err)
	}
	return token
}

// serve runs one request through the server.
func (env testEnv) serve(tt httpTest) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
	env.app.ServeHTTP(rec, req)
	return rec
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

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj(): %v", err)
	}
	return data
}

func unmarshall(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), dest); err != nil {
		t.Fatalf("unmarshall(%s): %v", rec.Body.String(), err)
	}
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
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, env testEnv, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, env.serve(tt))
		})
	}
}
