package acceptance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/vee4group/order-tracker-api/config"
	"github.com/vee4group/order-tracker-api/controllers"
	"github.com/vee4group/order-tracker-api/services"
	"github.com/vee4group/order-tracker-api/tests/testutil"
)

// directory maps access tokens to Auth0 profiles
type directory map[string]*services.Auth0UserInfo

func (d directory) GetUserInfo(ctx context.Context, accessToken string) (*services.Auth0UserInfo, error) {
	if info, ok := d[accessToken]; ok {
		return info, nil
	}
	return nil, errors.New("auth0 API returned status 401")
}

// AuthAcceptanceTestSuite covers signing up and managing a profile
type AuthAcceptanceTestSuite struct {
	suite.Suite
	server *httptest.Server
}

func (suite *AuthAcceptanceTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	os.Setenv("GO_ENV", "test")
	testutil.RequireTestEnvironment(suite.T())

	cfg, err := config.Load()
	suite.Require().NoError(err)

	db := testutil.OpenTestDB(suite.T())
	config.SetDB(db)
	services.InitServices(cfg, db, nil, services.NewMockDocumentService())
	services.SetUserInfoProvider(directory{
		"test-token-auth0|henry": {Sub: "auth0|henry", Email: "henry@example.com", Name: "Henry", PhoneNumber: "+919812345678"},
	})

	router := gin.New()
	controllers.RegisterRoutes(router.Group("/api/v1"), testutil.HeaderAuth())
	suite.server = httptest.NewServer(router)
}

func (suite *AuthAcceptanceTestSuite) TearDownTest() {
	suite.server.Close()
	services.SetUserInfoProvider(nil)
}

func (suite *AuthAcceptanceTestSuite) makeRequest(user, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, suite.server.URL+path, &buf)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set(testutil.TestUserHeader, user)
	}

	resp, err := http.DefaultClient.Do(req)
	suite.Require().NoError(err)
	defer resp.Body.Close()

	var response map[string]interface{}
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&response))
	return resp, response
}

func (suite *AuthAcceptanceTestSuite) TestSignUpAndManageProfile() {
	// before sign-up the profile does not exist
	resp, response := suite.makeRequest("auth0|henry", http.MethodGet, "/api/v1/users/me", nil)
	suite.Equal(http.StatusNotFound, resp.StatusCode)
	suite.Equal("USER_NOT_FOUND", errorCode(response))

	resp, response = suite.makeRequest("auth0|henry", http.MethodPost, "/api/v1/users", map[string]string{"company": "Henry Engineering"})
	suite.Require().Equal(http.StatusCreated, resp.StatusCode, response)

	resp, response = suite.makeRequest("auth0|henry", http.MethodGet, "/api/v1/users/me", nil)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	profile := response["data"].(map[string]interface{})
	suite.Equal("Henry", profile["name"])
	suite.Equal("Henry Engineering", profile["company"])
	suite.Equal("+919812345678", profile["phone"])
	suite.Equal("customer", profile["role"])

	resp, response = suite.makeRequest("auth0|henry", http.MethodPut, "/api/v1/users/me", map[string]string{"name": "Henry K"})
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	suite.Equal("Henry K", response["data"].(map[string]interface{})["name"])

	// signing up twice conflicts
	resp, response = suite.makeRequest("auth0|henry", http.MethodPost, "/api/v1/users", nil)
	suite.Equal(http.StatusConflict, resp.StatusCode)
	suite.Equal("USER_EXISTS", errorCode(response))
}

func (suite *AuthAcceptanceTestSuite) TestSignUpWithUnknownToken() {
	resp, response := suite.makeRequest("auth0|stranger", http.MethodPost, "/api/v1/users", nil)

	suite.Equal(http.StatusInternalServerError, resp.StatusCode)
	suite.Equal("AUTH0_ERROR", errorCode(response))
}

func (suite *AuthAcceptanceTestSuite) TestMissingCredentials() {
	resp, response := suite.makeRequest("", http.MethodGet, "/api/v1/orders", nil)

	suite.Equal(http.StatusUnauthorized, resp.StatusCode)
	suite.Equal(false, response["success"])
}

func TestAuthAcceptanceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthAcceptanceTestSuite))
}
