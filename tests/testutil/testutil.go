package testutil

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"os"
	"testing"

	"gorm.io/gorm"

	"github.com/vee4group/order-tracker-api/models"
)

// RequireTestEnvironment ensures that tests are running in the test environment.
// This prevents accidental execution of tests against production or development databases.
// It will fail the test immediately if GO_ENV is not set to "test".
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q. Set GO_ENV=test before running tests.", env)
	}
}

// PDFContent is a minimal body that passes upload validation
var PDFContent = []byte("%PDF-1.4\n1 0 obj <<>> endobj\ntrailer <<>>\n%%EOF\n")

// NewFileHeader builds a multipart.FileHeader as gin would hand it to a handler
func NewFileHeader(t *testing.T, field, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := writer.CreatePart(h)
	if err != nil {
		t.Fatalf("Failed to create multipart part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("Failed to write multipart content: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(int64(len(content)) + 1024)
	if err != nil {
		t.Fatalf("Failed to read multipart form: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })

	files := form.File[field]
	if len(files) == 0 {
		t.Fatalf("Multipart form has no file for field %q", field)
	}
	return files[0]
}

// NewPDFHeader builds a file header holding PDFContent
func NewPDFHeader(t *testing.T, filename string) *multipart.FileHeader {
	t.Helper()
	return NewFileHeader(t, "file", filename, "application/pdf", PDFContent)
}

// CreateOrder inserts an order for customer directly, bypassing numbering and side effects
func CreateOrder(t *testing.T, db *gorm.DB, customer models.User, number string, status models.Status) models.Order {
	t.Helper()

	design := "designs/mock_" + number + ".pdf"
	order := models.Order{
		OrderNumber: number,
		Status:      status,
		CustomerID:  customer.ID,
		ProductType: "Enclosure",
		MetalType:   "Mild Steel",
		Thickness:   2,
		Width:       300,
		Height:      200,
		Quantity:    10,
		Color:       "RAL 7035",
		DesignFile:  &design,
	}
	if err := db.Omit("Customer").Create(&order).Error; err != nil {
		t.Fatalf("Failed to create order %s: %v", number, err)
	}
	order.Customer = customer
	return order
}
