package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/adcut-studio/adcut-api/config"
	"github.com/adcut-studio/adcut-api/routes"
	"github.com/adcut-studio/adcut-api/services"
	"github.com/adcut-studio/adcut-api/tests/testutil"
)

// apiSuite runs the full router over an in-memory database with every provider mocked
type apiSuite struct {
	suite.Suite
	cfg    *config.Config
	db     *gorm.DB
	router *gin.Engine

	crm        *services.MockCRMTagger
	payments   *services.MockPaymentProvider
	storage    *services.MockS3Service
	transcoder *services.MockVideoTranscoder
	completer  *services.MockChatCompleter
	limiter    *services.MockRateLimiter
}

// SetupSuite loads configuration the way the server does
func (s *apiSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	os.Setenv("GO_ENV", "test")
	os.Setenv("USE_SQLITE", "true")
	os.Setenv("JWT_SECRET", "integration-test-secret")
	os.Setenv("PUBLIC_SITE_URL", "https://adcut.test")

	cfg, err := config.Load()
	s.Require().NoError(err)
	cfg.AdminPasswordHash = testutil.TestConfig(s.T()).AdminPasswordHash
	s.cfg = cfg
}

// SetupTest gives every test a fresh database, fresh mocks and a router built over them
func (s *apiSuite) SetupTest() {
	testutil.RequireTestEnvironment(s.T())
	s.db = testutil.NewTestDB(s.T())
	config.SetConfig(s.cfg)
	testutil.ResetProviders()

	s.crm = services.NewMockCRMTagger()
	s.crm.SetAsMockForTesting()
	s.payments = services.NewMockPaymentProvider()
	s.payments.SetAsMockForTesting()
	s.storage = services.NewMockS3Service()
	s.storage.SetAsMockForTesting()
	services.InitImageService(s.storage)
	s.transcoder = services.NewMockVideoTranscoder()
	s.transcoder.SetAsMockForTesting()
	s.completer = services.NewMockChatCompleter("Which platform will the ad run on?")
	s.completer.SetAsMockForTesting()
	s.limiter = services.NewMockRateLimiter()
	s.limiter.SetAsMockForTesting()

	s.router = routes.Setup(s.cfg)
}

func (s *apiSuite) TearDownTest() {
	testutil.ResetProviders()
}

func (s *apiSuite) adminToken() string {
	return testutil.AdminToken(s.T(), s.cfg, "jiwoo")
}

// request sends a JSON request; token may be empty for public routes
func (s *apiSuite) request(method, path string, body interface{}, token string) (*httptest.ResponseRecorder, map[string]interface{}) {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		testutil.SetBearer(req, token)
	}
	return s.serve(req)
}

func (s *apiSuite) serve(req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var response map[string]interface{}
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	}
	return w, response
}

func dataMap(response map[string]interface{}) map[string]interface{} {
	data, _ := response["data"].(map[string]interface{})
	return data
}

func errorCode(response map[string]interface{}) string {
	errBody, _ := response["error"].(map[string]interface{})
	code, _ := errBody["code"].(string)
	return code
}
