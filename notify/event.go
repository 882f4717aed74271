// Package notify turns order events into per-recipient deliveries.
//
// A business operation builds an Event once its database transaction has
// committed. The RecipientResolver decides who hears about it, Compose renders
// the customer and admin variants, and the Dispatcher fans the result out to
// every configured Channel concurrently. Nothing in this package returns a
// delivery failure to the caller; failures end up in the Result and the log.
package notify

import (
	"time"

	"github.com/vee4group/order-tracker-api/models"
)

// Kind identifies the business event being broadcast.
type Kind string

const (
	KindNewOrder         Kind = "new_order"
	KindStatusUpdate     Kind = "status_update"
	KindApproved         Kind = "approved"
	KindRejected         Kind = "rejected"
	KindNewMessage       Kind = "new_message"
	KindDocumentUploaded Kind = "document_uploaded"
	KindCancellation     Kind = "cancellation"
)

// Event is a snapshot of everything needed to notify about one change.
// Order must have its Customer loaded.
type Event struct {
	Kind  Kind
	Order models.Order

	// Actor is the user who caused the event; nil for system events.
	Actor *models.User

	// Text is the free-form part: the admin's note, the message body or the
	// cancellation reason depending on Kind.
	Text string

	ExpectedDelivery *time.Time
	Document         models.DocumentType

	// FromStaff marks a new-message event authored by an admin.
	FromStaff bool
}
