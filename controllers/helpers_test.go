package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vee4group/order-tracker-api/config"
	"github.com/vee4group/order-tracker-api/models"
	"github.com/vee4group/order-tracker-api/notify"
	"github.com/vee4group/order-tracker-api/services"
	"github.com/vee4group/order-tracker-api/tests/testutil"
)

// testEnv wires the real services over an in-memory database with mock
// document storage and mock delivery channels.
type testEnv struct {
	db       *gorm.DB
	docs     *services.MockDocumentService
	email    *services.MockChannel
	whatsapp *services.MockChannel
	notifier *notify.Notifier
	customer models.User
	admin    models.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.OpenTestDB(t)
	config.SetDB(db)

	cfg := &config.Config{
		GoEnv:                "test",
		OrgDisplayName:       "Vee4 Admin",
		DefaultDeliveryDays:  14,
		NotifySendTimeout:    2 * time.Second,
		NotifyMaxConcurrency: 4,
		ClientEmail:          "client@vee4group.com",
	}
	config.SetConfig(cfg)

	env := &testEnv{
		db:       db,
		docs:     services.NewMockDocumentService(),
		email:    services.NewMockEmailChannel(),
		whatsapp: services.NewMockWhatsAppChannel(),
	}
	env.docs.SetAsMockForTesting()
	env.notifier = services.InitNotifier(cfg, db, []notify.Channel{env.email, env.whatsapp})
	services.InitServices(cfg, db, env.notifier, env.docs)
	t.Cleanup(env.notifier.Wait)

	env.customer = testutil.CreateUser(t, db, "auth0|carol", "Carol", "carol@example.com", models.RoleCustomer)
	env.customer.Company = "Carol Metals"
	env.customer.Phone = "9876543210"
	require.NoError(t, db.Save(&env.customer).Error)
	env.admin = testutil.CreateUser(t, db, "auth0|alice", "Alice", "alice@example.com", models.RoleAdmin)

	return env
}

// router builds the full route table authenticated as auth0ID
func (e *testEnv) router(auth0ID string) *gin.Engine {
	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), testutil.MockAuth(auth0ID))
	return r
}

func (e *testEnv) do(t *testing.T, auth0ID, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.serve(t, auth0ID, req)
}

func (e *testEnv) doMultipart(t *testing.T, auth0ID, method, path string, fields map[string]string, fileField, filename, contentType string, content []byte) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if fileField != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+fileField+`"; filename="`+filename+`"`)
		h.Set("Content-Type", contentType)
		part, err := writer.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return e.serve(t, auth0ID, req)
}

func (e *testEnv) serve(t *testing.T, auth0ID string, req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	w := httptest.NewRecorder()
	e.router(auth0ID).ServeHTTP(w, req)

	var response map[string]interface{}
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	}
	return w, response
}

// placeOrder creates an order through the service so numbering and side effects apply
func (e *testEnv) placeOrder(t *testing.T) *models.Order {
	t.Helper()

	order, err := services.GetOrderService().CreateOrder(t.Context(), e.customer, services.CreateOrderInput{
		ProductType: "Control Panel",
		MetalType:   "CRCA",
		Thickness:   1.2,
		Width:       600,
		Height:      800,
		Quantity:    5,
		Color:       "RAL 7035",
	}, testutil.NewPDFHeader(t, "panel.pdf"))
	require.NoError(t, err)
	e.notifier.Wait()
	e.email.Clear()
	e.whatsapp.Clear()
	return order
}

func errorCode(response map[string]interface{}) string {
	errObj, ok := response["error"].(map[string]interface{})
	if !ok {
		return ""
	}
	code, _ := errObj["code"].(string)
	return code
}
