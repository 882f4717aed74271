package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/vee4group/order-tracker-api/config"
	"github.com/vee4group/order-tracker-api/controllers"
	"github.com/vee4group/order-tracker-api/middleware"
	"github.com/vee4group/order-tracker-api/models"
	"github.com/vee4group/order-tracker-api/notify"
	"github.com/vee4group/order-tracker-api/services"
	"github.com/vee4group/order-tracker-api/tests/testutil"
)

// appSuite runs the full route table over an in-memory database. Each test gets
// a fresh database, a customer and an admin.
type appSuite struct {
	suite.Suite
	cfg      *config.Config
	db       *gorm.DB
	router   *gin.Engine
	email    *services.MockChannel
	whatsapp *services.MockChannel
	notifier *notify.Notifier
	customer models.User
	admin    models.User
}

func (s *appSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	os.Setenv("GO_ENV", "test")
	os.Setenv("ORG_DISPLAY_NAME", "Vee4 Admin")
	os.Setenv("NOTIFY_SEND_TIMEOUT", "2s")
	os.Setenv("CLIENT_EMAIL", "")
	os.Setenv("CLIENT_WHATSAPP_PHONE", "")
	testutil.RequireTestEnvironment(s.T())

	cfg, err := config.Load()
	s.Require().NoError(err)
	s.cfg = cfg
}

// setupApp wires services with the given document store
func (s *appSuite) setupApp(documents services.DocumentService) {
	s.db = testutil.OpenTestDB(s.T())
	config.SetDB(s.db)

	s.email = services.NewMockEmailChannel()
	s.whatsapp = services.NewMockWhatsAppChannel()
	s.notifier = services.InitNotifier(s.cfg, s.db, []notify.Channel{s.email, s.whatsapp})
	services.InitServices(s.cfg, s.db, s.notifier, documents)

	s.router = gin.New()
	s.router.Use(middleware.RequestLogger())
	controllers.RegisterRoutes(s.router.Group("/api/v1"), testutil.HeaderAuth())

	s.customer = testutil.CreateUser(s.T(), s.db, "auth0|carol", "Carol", "carol@example.com", models.RoleCustomer)
	s.customer.Company = "Carol Metals"
	s.customer.Phone = "9876543210"
	s.Require().NoError(s.db.Save(&s.customer).Error)
	s.admin = testutil.CreateUser(s.T(), s.db, "auth0|alice", "Alice", "alice@example.com", models.RoleAdmin)
}

func (s *appSuite) TearDownTest() {
	if s.notifier != nil {
		s.notifier.Wait()
	}
}

// settle waits for background deliveries
func (s *appSuite) settle() {
	s.notifier.Wait()
}

func (s *appSuite) request(auth0ID, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.serve(auth0ID, req)
}

func (s *appSuite) upload(auth0ID, path string, fields map[string]string, fileField, filename string, content []byte) (*httptest.ResponseRecorder, map[string]interface{}) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		s.Require().NoError(writer.WriteField(k, v))
	}
	if fileField != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+fileField+`"; filename="`+filename+`"`)
		h.Set("Content-Type", "application/pdf")
		part, err := writer.CreatePart(h)
		s.Require().NoError(err)
		_, err = part.Write(content)
		s.Require().NoError(err)
	}
	s.Require().NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return s.serve(auth0ID, req)
}

func (s *appSuite) serve(auth0ID string, req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	if auth0ID != "" {
		req.Header.Set(testutil.TestUserHeader, auth0ID)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var response map[string]interface{}
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	}
	return w, response
}

// placeOrder creates an order over HTTP as the customer and returns its id and number
func (s *appSuite) placeOrder() (uint, string) {
	w, response := s.upload("auth0|carol", "/api/v1/orders", map[string]string{
		"productType": "Electrical Enclosure",
		"metalType":   "Galvanized Steel",
		"thickness":   "1.5",
		"width":       "400",
		"height":      "600",
		"quantity":    "20",
		"color":       "Grey",
	}, "designFile", "enclosure.pdf", testutil.PDFContent)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	data := response["data"].(map[string]interface{})
	return uint(data["id"].(float64)), data["order_number"].(string)
}

func (s *appSuite) reload(id uint) models.Order {
	var order models.Order
	s.Require().NoError(s.db.First(&order, id).Error)
	return order
}

func data(response map[string]interface{}) map[string]interface{} {
	return response["data"].(map[string]interface{})
}
