package acceptance

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/adcut-studio/adcut-api/config"
	"github.com/adcut-studio/adcut-api/routes"
	"github.com/adcut-studio/adcut-api/services"
	"github.com/adcut-studio/adcut-api/tests/testutil"
)

// serverSuite runs the application behind a real HTTP listener
type serverSuite struct {
	suite.Suite
	server *httptest.Server
	cfg    *config.Config

	crm       *services.MockCRMTagger
	completer *services.MockChatCompleter
	images    *services.MockImageGenerator
}

func (s *serverSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	os.Setenv("GO_ENV", "test")
	os.Setenv("USE_SQLITE", "true")
	os.Setenv("JWT_SECRET", "acceptance-test-secret")
	os.Setenv("PUBLIC_SITE_URL", "https://adcut.test")

	cfg, err := config.Load()
	s.Require().NoError(err)
	cfg.AdminPasswordHash = testutil.TestConfig(s.T()).AdminPasswordHash
	s.cfg = cfg
}

func (s *serverSuite) SetupTest() {
	testutil.NewTestDB(s.T())
	config.SetConfig(s.cfg)
	testutil.ResetProviders()

	s.crm = services.NewMockCRMTagger()
	s.crm.SetAsMockForTesting()
	s.completer = services.NewMockChatCompleter("")
	s.completer.SetAsMockForTesting()
	s.images = services.NewMockImageGenerator()
	s.images.SetAsMockForTesting()
	services.NewMockPaymentProvider().SetAsMockForTesting()

	s.server = httptest.NewServer(routes.Setup(s.cfg))
}

func (s *serverSuite) TearDownTest() {
	s.server.Close()
	testutil.ResetProviders()
}

// call makes a real HTTP request and decodes the JSON envelope
func (s *serverSuite) call(method, path string, body interface{}, token string) (*http.Response, map[string]interface{}) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, s.server.URL+path, reader)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		testutil.SetBearer(req, token)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	var envelope map[string]interface{}
	if len(raw) > 0 {
		s.Require().NoError(json.Unmarshal(raw, &envelope), string(raw))
	}
	return resp, envelope
}

func (s *serverSuite) login() string {
	resp, envelope := s.call(http.MethodPost, "/api/v1/admin/session", map[string]string{
		"name": "jiwoo", "password": testutil.AdminPassword,
	}, "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	return envelope["data"].(map[string]interface{})["token"].(string)
}

func data(envelope map[string]interface{}) map[string]interface{} {
	d, _ := envelope["data"].(map[string]interface{})
	return d
}
