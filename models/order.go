package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Order represents a custom fabrication order
type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderNumber string `gorm:"uniqueIndex;not null" json:"order_number"` // ORD-<year>-<sequence>
	Status      Status `gorm:"type:varchar(32);not null;default:'pending';index" json:"status"`
	CustomerID  uint   `gorm:"not null;index" json:"customer_id"`
	Customer    User   `gorm:"foreignKey:CustomerID" json:"customer"`

	// Specification, fixed at creation
	ProductType            string  `gorm:"not null" json:"product_type"`
	MetalType              string  `gorm:"not null" json:"metal_type"`
	Thickness              float64 `gorm:"not null" json:"thickness"`
	Width                  float64 `gorm:"not null" json:"width"`
	Height                 float64 `gorm:"not null" json:"height"`
	Quantity               int     `gorm:"not null;check:quantity > 0" json:"quantity"`
	Color                  string  `json:"color"`
	AdditionalRequirements string  `gorm:"type:text" json:"additional_requirements"`

	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date"`
	CancelledAt          *time.Time `json:"cancelled_at"`
	CancellationReason   *string    `json:"cancellation_reason"`

	// Document locators (storage keys)
	DesignFile *string `json:"design_file"`
	TestReport *string `json:"test_report"`
	Invoice    *string `json:"invoice"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// FormatOrderNumber renders the human order number, zero-padding the sequence to two digits.
func FormatOrderNumber(year, sequence int) string {
	return fmt.Sprintf("ORD-%d-%02d", year, sequence)
}

// MarkCancelled moves the order to cancelled and records when and why.
func (o *Order) MarkCancelled(at time.Time, reason string) {
	o.Status = StatusCancelled
	o.CancelledAt = &at
	o.CancellationReason = &reason
}

// ClearCancellation drops the cancellation fields when the order leaves cancelled.
func (o *Order) ClearCancellation() {
	o.CancelledAt = nil
	o.CancellationReason = nil
}

// CancellationConsistent reports whether the cancellation fields are set exactly when
// the order is cancelled.
func (o *Order) CancellationConsistent() bool {
	hasFields := o.CancelledAt != nil && o.CancellationReason != nil
	noFields := o.CancelledAt == nil && o.CancellationReason == nil
	if o.Status == StatusCancelled {
		return hasFields
	}
	return noFields
}

// DocumentKey returns the stored locator for a document type, or nil when absent.
func (o *Order) DocumentKey(doc DocumentType) *string {
	switch doc {
	case DocumentDesign:
		return o.DesignFile
	case DocumentTestReport:
		return o.TestReport
	case DocumentInvoice:
		return o.Invoice
	}
	return nil
}

// SetDocumentKey records a stored locator for a document type.
func (o *Order) SetDocumentKey(doc DocumentType, key string) {
	switch doc {
	case DocumentDesign:
		o.DesignFile = &key
	case DocumentTestReport:
		o.TestReport = &key
	case DocumentInvoice:
		o.Invoice = &key
	}
}

// DocumentType names an attachment on an order.
type DocumentType string

const (
	DocumentDesign     DocumentType = "design"
	DocumentTestReport DocumentType = "test-report"
	DocumentInvoice    DocumentType = "invoice"
)

// ParseDocumentType validates a document type from a URL segment.
func ParseDocumentType(raw string) (DocumentType, bool) {
	switch DocumentType(raw) {
	case DocumentDesign, DocumentTestReport, DocumentInvoice:
		return DocumentType(raw), true
	}
	return "", false
}

// Label renders the document type for people, e.g. "Test Report".
func (d DocumentType) Label() string {
	switch d {
	case DocumentDesign:
		return "Design File"
	case DocumentTestReport:
		return "Test Report"
	case DocumentInvoice:
		return "Invoice"
	}
	return string(d)
}

// Column is the orders table column holding this document.
func (d DocumentType) Column() string {
	switch d {
	case DocumentDesign:
		return "design_file"
	case DocumentTestReport:
		return "test_report"
	case DocumentInvoice:
		return "invoice"
	}
	return ""
}
