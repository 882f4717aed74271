package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTableNames(t *testing.T) {
	assert.Equal(t, "users", User{}.TableName())
	assert.Equal(t, "orders", Order{}.TableName())
	assert.Equal(t, "order_sequences", OrderSequence{}.TableName())
	assert.Equal(t, "messages", Message{}.TableName())
	assert.Equal(t, "notifications", Notification{}.TableName())
}

func TestFormatOrderNumber(t *testing.T) {
	tests := []struct {
		year, seq int
		want      string
	}{
		{2026, 1, "ORD-2026-01"},
		{2026, 9, "ORD-2026-09"},
		{2026, 10, "ORD-2026-10"},
		{2026, 117, "ORD-2026-117"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatOrderNumber(tt.year, tt.seq))
		})
	}
}

func TestOrderCancellationFields(t *testing.T) {
	order := Order{Status: StatusPending}
	assert.True(t, order.CancellationConsistent())

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	order.MarkCancelled(at, "Changed plans")
	assert.Equal(t, StatusCancelled, order.Status)
	assert.Equal(t, at, *order.CancelledAt)
	assert.Equal(t, "Changed plans", *order.CancellationReason)
	assert.True(t, order.CancellationConsistent())

	order.Status = StatusDesigning
	assert.False(t, order.CancellationConsistent())
	order.ClearCancellation()
	assert.True(t, order.CancellationConsistent())
}

func TestOrderDocuments(t *testing.T) {
	order := Order{}
	assert.Nil(t, order.DocumentKey(DocumentInvoice))

	order.SetDocumentKey(DocumentInvoice, "documents/invoice.pdf")
	order.SetDocumentKey(DocumentTestReport, "documents/report.pdf")

	assert.Equal(t, "documents/invoice.pdf", *order.DocumentKey(DocumentInvoice))
	assert.Equal(t, "documents/report.pdf", *order.DocumentKey(DocumentTestReport))
	assert.Nil(t, order.DocumentKey(DocumentDesign))
}

func TestParseDocumentType(t *testing.T) {
	doc, ok := ParseDocumentType("test-report")
	assert.True(t, ok)
	assert.Equal(t, DocumentTestReport, doc)
	assert.Equal(t, "Test Report", doc.Label())
	assert.Equal(t, "test_report", doc.Column())

	_, ok = ParseDocumentType("receipt")
	assert.False(t, ok)
}

func TestUserIsAdmin(t *testing.T) {
	assert.True(t, User{Role: RoleAdmin}.IsAdmin())
	assert.False(t, User{Role: RoleCustomer}.IsAdmin())
}
