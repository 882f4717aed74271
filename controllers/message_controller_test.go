package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vee4group/order-tracker-api/models"
	"github.com/vee4group/order-tracker-api/tests/testutil"
)

func TestSendMessage(t *testing.T) {
	t.Run("customer message reaches admins only", func(t *testing.T) {
		env := newTestEnv(t)
		order := env.placeOrder(t)

		w, response := env.do(t, "auth0|carol", http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/messages", order.ID),
			map[string]string{"content": "  Can you use 1.5mm instead?  "})

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		data := response["data"].(map[string]interface{})
		assert.Equal(t, "Can you use 1.5mm instead?", data["content"])
		assert.Equal(t, "Carol", data["sender"].(map[string]interface{})["name"])

		var notification models.Notification
		require.NoError(t, env.db.Where("user_id = ? AND type = ?", env.admin.ID, models.NotificationTypeMessage).First(&notification).Error)
		assert.Equal(t, "New Customer Message", notification.Title)

		env.notifier.Wait()
		assert.Empty(t, env.email.SentTo("carol@example.com"))
		assert.NotEmpty(t, env.email.SentTo("alice@example.com"))
	})

	t.Run("admin reply through admin route", func(t *testing.T) {
		env := newTestEnv(t)
		order := env.placeOrder(t)

		w, response := env.do(t, "auth0|alice", http.MethodPost, fmt.Sprintf("/api/v1/admin/orders/%d/messages", order.ID),
			map[string]string{"content": "Yes, no extra charge."})

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, "Vee4 Admin", response["data"].(map[string]interface{})["sender"].(map[string]interface{})["name"])

		env.notifier.Wait()
		assert.NotEmpty(t, env.email.SentTo("carol@example.com"))
		assert.Empty(t, env.email.SentTo("alice@example.com"), "the sending admin is not notified")
	})

	t.Run("identical messages are both kept", func(t *testing.T) {
		env := newTestEnv(t)
		order := env.placeOrder(t)
		path := fmt.Sprintf("/api/v1/orders/%d/messages", order.ID)

		for i := 0; i < 2; i++ {
			w, _ := env.do(t, "auth0|carol", http.MethodPost, path, map[string]string{"content": "Any update?"})
			require.Equal(t, http.StatusCreated, w.Code)
		}

		var count int64
		require.NoError(t, env.db.Model(&models.Message{}).Where("order_id = ? AND content = ?", order.ID, "Any update?").Count(&count).Error)
		assert.Equal(t, int64(2), count)
	})

	t.Run("blank content", func(t *testing.T) {
		env := newTestEnv(t)
		order := env.placeOrder(t)

		w, _ := env.do(t, "auth0|carol", http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/messages", order.ID),
			map[string]string{"content": "   "})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("someone else's order", func(t *testing.T) {
		env := newTestEnv(t)
		testutil.CreateUser(t, env.db, "auth0|dave", "Dave", "dave@example.com", models.RoleCustomer)
		order := env.placeOrder(t)

		w, response := env.do(t, "auth0|dave", http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/messages", order.ID),
			map[string]string{"content": "hello"})

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "FORBIDDEN", errorCode(response))
	})
}

func TestListMessages(t *testing.T) {
	env := newTestEnv(t)
	order := env.placeOrder(t)
	path := fmt.Sprintf("/api/v1/orders/%d/messages", order.ID)

	w, _ := env.do(t, "auth0|carol", http.MethodPost, path, map[string]string{"content": "First question"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, response := env.do(t, "auth0|carol", http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := response["data"].([]interface{})
	require.Len(t, data, 2)
	assert.Equal(t, "First question", data[1].(map[string]interface{})["content"])

	t.Run("forbidden for other customers", func(t *testing.T) {
		testutil.CreateUser(t, env.db, "auth0|erin", "Erin", "erin@example.com", models.RoleCustomer)

		w, _ := env.do(t, "auth0|erin", http.MethodGet, path, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
