package integration

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/vee4group/order-tracker-api/models"
	"github.com/vee4group/order-tracker-api/services"
	"github.com/vee4group/order-tracker-api/tests/testutil"
)

// OrderIntegrationTestSuite drives the order lifecycle through the HTTP API
type OrderIntegrationTestSuite struct {
	appSuite
	docs *services.MockDocumentService
}

func (s *OrderIntegrationTestSuite) SetupTest() {
	s.docs = services.NewMockDocumentService()
	s.setupApp(s.docs)
}

func (s *OrderIntegrationTestSuite) TestOrderLifecycle_HappyPath() {
	id, number := s.placeOrder()
	s.settle()

	s.NotEmpty(s.email.SentTo("carol@example.com"), "customer gets an order confirmation")
	s.NotEmpty(s.email.SentTo("alice@example.com"), "admin hears about the new order")
	s.email.Clear()
	s.whatsapp.Clear()

	// Admin approves with the default delivery window
	w, response := s.request("auth0|alice", http.MethodPut, fmt.Sprintf("/api/v1/admin/orders/%d/approve", id), nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal("approved", data(response)["status"])
	s.NotNil(data(response)["expected_delivery_date"])

	// Production stages, silent by default
	for _, status := range []string{"designing", "laser_cutting", "metal_bending", "fabrication_welding", "finishing", "powder_coating", "assembling", "quality_check"} {
		w, _ = s.request("auth0|alice", http.MethodPut, fmt.Sprintf("/api/v1/admin/orders/%d/status", id), map[string]interface{}{"status": status})
		s.Require().Equal(http.StatusOK, w.Code, "moving to %s: %s", status, w.Body.String())
	}

	// Test report and dispatch with notification
	w, _ = s.upload("auth0|alice", fmt.Sprintf("/api/v1/admin/orders/%d/documents/test-report", id), nil, "file", "qc.pdf", testutil.PDFContent)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w, _ = s.request("auth0|alice", http.MethodPut, fmt.Sprintf("/api/v1/admin/orders/%d/status", id),
		map[string]interface{}{"status": "dispatch", "notifyCustomer": "true"})
	s.Require().Equal(http.StatusOK, w.Code)

	w, _ = s.upload("auth0|alice", fmt.Sprintf("/api/v1/admin/orders/%d/documents/invoice", id), nil, "file", "inv.pdf", testutil.PDFContent)
	s.Require().Equal(http.StatusOK, w.Code)

	w, _ = s.request("auth0|alice", http.MethodPut, fmt.Sprintf("/api/v1/admin/orders/%d/status", id),
		map[string]interface{}{"status": "completed", "notifyCustomer": true, "message": "Delivered, thank you!"})
	s.Require().Equal(http.StatusOK, w.Code)
	s.settle()

	// Customer view
	w, response = s.request("auth0|carol", http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", id), nil)
	s.Require().Equal(http.StatusOK, w.Code)
	detail := data(response)
	s.Equal(number, detail["order_number"])
	s.Equal("completed", detail["status"])

	progress := detail["progress"].(map[string]interface{})
	s.Equal(float64(11), progress["current_step"])
	for _, step := range progress["steps"].([]interface{}) {
		s.Equal(true, step.(map[string]interface{})["completed"])
	}

	messages := detail["messages"].([]interface{})
	// welcome, approval, test report, dispatch, invoice, completion
	s.Len(messages, 6)
	s.Equal("Delivered, thank you!", messages[5].(map[string]interface{})["content"])

	w, response = s.request("auth0|carol", http.MethodGet, "/api/v1/notifications", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(float64(5), response["unread_count"])

	// approval, test report, dispatch, invoice and completion each reached the customer
	s.Len(s.email.SentTo("carol@example.com"), 5)
	s.Len(s.whatsapp.SentTo("9876543210"), 5)
}

func (s *OrderIntegrationTestSuite) TestRejectedOrderIsTerminal() {
	id, _ := s.placeOrder()

	w, _ := s.request("auth0|alice", http.MethodPut, fmt.Sprintf("/api/v1/admin/orders/%d/reject", id), map[string]string{"message": "Unsupported alloy"})
	s.Require().Equal(http.StatusOK, w.Code)

	w, response := s.request("auth0|alice", http.MethodPut, fmt.Sprintf("/api/v1/admin/orders/%d/approve", id), nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("INVALID_TRANSITION", response["error"].(map[string]interface{})["code"])

	w, _ = s.request("auth0|carol", http.MethodPut, fmt.Sprintf("/api/v1/orders/%d/cancel", id), nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(models.StatusRejected, s.reload(id).Status)
}

func (s *OrderIntegrationTestSuite) TestCustomerCancellation() {
	id, _ := s.placeOrder()
	s.settle()
	s.email.Clear()

	w, _ := s.request("auth0|alice", http.MethodPut, fmt.Sprintf("/api/v1/admin/orders/%d/approve", id), map[string]interface{}{"notifyCustomer": false})
	s.Require().Equal(http.StatusOK, w.Code)

	w, response := s.request("auth0|carol", http.MethodPut, fmt.Sprintf("/api/v1/orders/%d/cancel", id), map[string]string{"reason": "Budget cut"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal("Budget cut", data(response)["cancellation_reason"])
	s.settle()

	order := s.reload(id)
	s.Equal(models.StatusCancelled, order.Status)
	s.True(order.CancellationConsistent())

	// admins hear about it, the customer gets a confirmation
	s.NotEmpty(s.email.SentTo("alice@example.com"))

	// reopening through the status endpoint clears the cancellation
	w, _ = s.request("auth0|alice", http.MethodPut, fmt.Sprintf("/api/v1/admin/orders/%d/status", id), map[string]string{"status": "designing"})
	s.Require().Equal(http.StatusOK, w.Code)
	order = s.reload(id)
	s.Nil(order.CancelledAt)
	s.Nil(order.CancellationReason)
}

func (s *OrderIntegrationTestSuite) TestDeliveryFailureDoesNotFailRequest() {
	s.email.FailFor("carol@example.com", nil)

	id, _ := s.placeOrder()
	w, _ := s.request("auth0|alice", http.MethodPut, fmt.Sprintf("/api/v1/admin/orders/%d/approve", id), nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.settle()

	s.Empty(s.email.SentTo("carol@example.com"))
	s.NotEmpty(s.whatsapp.SentTo("9876543210"), "other channels still deliver")
	s.NotEmpty(s.email.SentTo("alice@example.com"))
	s.Equal(models.StatusApproved, s.reload(id).Status)
}

func (s *OrderIntegrationTestSuite) TestDisabledChannelIsSkipped() {
	s.whatsapp.SetEnabled(false)

	s.placeOrder()
	s.settle()

	s.Empty(s.whatsapp.Sent())
	s.NotEmpty(s.email.Sent())
}

func (s *OrderIntegrationTestSuite) TestConcurrentOrdersGetDistinctNumbers() {
	const n = 8

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers = map[string]bool{}
		codes   []int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w, response := s.upload("auth0|carol", "/api/v1/orders", map[string]string{
				"productType": "Bracket", "metalType": "SS304", "thickness": "2",
				"width": "50", "height": "50", "quantity": "100", "color": "Natural",
			}, "designFile", "bracket.pdf", testutil.PDFContent)

			mu.Lock()
			defer mu.Unlock()
			codes = append(codes, w.Code)
			if w.Code == http.StatusCreated {
				numbers[data(response)["order_number"].(string)] = true
			}
		}()
	}
	wg.Wait()

	for _, code := range codes {
		s.Equal(http.StatusCreated, code)
	}
	s.Len(numbers, n)
	for number := range numbers {
		s.True(strings.HasPrefix(number, "ORD-"))
	}
}

func (s *OrderIntegrationTestSuite) TestConversation() {
	id, _ := s.placeOrder()
	s.settle()
	s.email.Clear()

	w, _ := s.request("auth0|carol", http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/messages", id), map[string]string{"content": "Can we add a window cutout?"})
	s.Require().Equal(http.StatusCreated, w.Code)

	w, _ = s.request("auth0|alice", http.MethodPost, fmt.Sprintf("/api/v1/admin/orders/%d/messages", id), map[string]string{"content": "Yes, please send a revised drawing."})
	s.Require().Equal(http.StatusCreated, w.Code)
	s.settle()

	w, response := s.request("auth0|carol", http.MethodGet, fmt.Sprintf("/api/v1/orders/%d/messages", id), nil)
	s.Require().Equal(http.StatusOK, w.Code)
	messages := response["data"].([]interface{})
	s.Require().Len(messages, 3)

	names := []string{}
	for _, m := range messages {
		names = append(names, m.(map[string]interface{})["sender"].(map[string]interface{})["name"].(string))
	}
	s.Equal([]string{"Vee4 Admin", "Carol", "Vee4 Admin"}, names)

	s.Len(s.email.SentTo("alice@example.com"), 1, "admin hears the customer message but not their own reply")
	s.Len(s.email.SentTo("carol@example.com"), 1, "customer hears the admin reply only")
}

func TestOrderIntegrationSuite(t *testing.T) {
	suite.Run(t, new(OrderIntegrationTestSuite))
}
