package notify

import (
	"fmt"
	"strconv"
	"time"

	"github.com/vee4group/order-tracker-api/models"
)

// Content is one rendered notification. Email uses Subject and HTML; WhatsApp
// uses Text.
type Content struct {
	Subject string
	HTML    string
	Text    string
}

// Composition holds the customer-facing and admin-facing variants of an event.
type Composition struct {
	Customer Content
	Admin    Content
}

// For picks the variant for a recipient category.
func (c Composition) For(category Category) Content {
	if category == CategoryCustomer {
		return c.Customer
	}
	return c.Admin
}

// Compose renders an event. It has no side effects; now only feeds the
// days-remaining countdown and the footer year.
func Compose(ev Event, now time.Time) Composition {
	switch ev.Kind {
	case KindNewOrder:
		return composeNewOrder(ev, now)
	case KindStatusUpdate:
		return composeStatusUpdate(ev, now)
	case KindApproved:
		return composeApproved(ev, now)
	case KindRejected:
		return composeRejected(ev, now)
	case KindNewMessage:
		return composeNewMessage(ev, now)
	case KindDocumentUploaded:
		return composeDocument(ev, now)
	case KindCancellation:
		return composeCancellation(ev, now)
	}

	subject := fmt.Sprintf("Order Update - %s", ev.Order.OrderNumber)
	return Composition{
		Customer: Content{Subject: subject, Text: subject},
		Admin:    Content{Subject: subject, Text: subject},
	}
}

func orderSection(o models.Order) emailSection {
	return emailSection{
		Title: "Order Details",
		Rows: []emailRow{
			{"Order Number", o.OrderNumber},
			{"Product Type", o.ProductType},
			{"Metal Type", o.MetalType},
			{"Dimensions", dimensions(o)},
			{"Quantity", strconv.Itoa(o.Quantity) + " units"},
			{"Color", orDash(o.Color)},
		},
	}
}

func customerSection(c models.User) emailSection {
	return emailSection{
		Title: "Customer Information",
		Rows: []emailRow{
			{"Customer Name", c.Name},
			{"Company", orDash(c.Company)},
			{"Email", c.Email},
			{"Phone", orDash(c.Phone)},
		},
	}
}

// delivery returns nil for rejected orders so no delivery section is rendered.
func delivery(o models.Order, date *time.Time, now time.Time) *deliveryView {
	if date == nil || o.Status == models.StatusRejected {
		return nil
	}
	return &deliveryView{Date: FormatDate(*date), DaysRemaining: DaysRemaining(*date, now)}
}

func composeNewOrder(ev Event, now time.Time) Composition {
	o := ev.Order

	customer := emailView{
		Accent:   accentBlue,
		Heading:  "Order Confirmation",
		Greeting: fmt.Sprintf("Dear %s,", o.Customer.Name),
		Paragraphs: []string{
			fmt.Sprintf("Thank you for your order %s. We are currently reviewing your specifications and will update you soon.", o.OrderNumber),
		},
		Sections: []emailSection{orderSection(o)},
		Closing:  "You can track your order progress by logging into your account.",
		Footer:   fmt.Sprintf("Thank you for choosing %s!", brandName),
		Year:     now.Year(),
	}

	admin := emailView{
		Accent:  accentBlue,
		Heading: "New Order Received!",
		Paragraphs: []string{
			fmt.Sprintf("A new order %s has been placed by %s from %s.", o.OrderNumber, o.Customer.Name, orDash(o.Customer.Company)),
		},
		Sections:  []emailSection{orderSection(o), customerSection(o.Customer)},
		NoteTitle: "Additional Requirements",
		Note:      o.AdditionalRequirements,
		Closing:   "Please review this order in your admin dashboard.",
		Footer:    brandFooter,
		Year:      now.Year(),
	}

	return Composition{
		Customer: Content{
			Subject: fmt.Sprintf("Order Confirmation - %s", o.OrderNumber),
			HTML:    renderEmail(customer),
			Text:    waNewOrder(o, true),
		},
		Admin: Content{
			Subject: fmt.Sprintf("New Order Received - %s", o.OrderNumber),
			HTML:    renderEmail(admin),
			Text:    waNewOrder(o, false),
		},
	}
}

// statusEmail is the customer body shared by status update, approval and rejection.
func statusEmail(ev Event, now time.Time) emailView {
	o := ev.Order
	accent := accentGreen
	if o.Status == models.StatusRejected {
		accent = accentRed
	}
	return emailView{
		Accent:     accent,
		Heading:    "Order Status Updated",
		Greeting:   fmt.Sprintf("Dear %s,", o.Customer.Name),
		Paragraphs: []string{fmt.Sprintf("Your order %s status has been updated to:", o.OrderNumber)},
		Highlight:  HumanizeStatus(o.Status),
		Delivery:   delivery(o, ev.ExpectedDelivery, now),
		NoteTitle:  fmt.Sprintf("Message from %s:", teamName),
		Note:       ev.Text,
		Closing:    "You can track your order progress by logging into your account.",
		Footer:     fmt.Sprintf("Thank you for choosing %s!", brandName),
		Year:       now.Year(),
	}
}

// adminStatusEmail summarises a status change for staff.
func adminStatusEmail(ev Event, now time.Time, heading, summary string) emailView {
	o := ev.Order
	return emailView{
		Accent:     accentBlue,
		Heading:    heading,
		Paragraphs: []string{summary},
		Highlight:  HumanizeStatus(o.Status),
		Delivery:   delivery(o, ev.ExpectedDelivery, now),
		Sections:   []emailSection{customerSection(o.Customer)},
		NoteTitle:  "Message sent to customer:",
		Note:       ev.Text,
		Footer:     brandFooter,
		Year:       now.Year(),
	}
}

func composeStatusUpdate(ev Event, now time.Time) Composition {
	o := ev.Order
	label := HumanizeStatus(o.Status)
	summary := fmt.Sprintf("Order %s status updated by admin to %s.", o.OrderNumber, label)

	return Composition{
		Customer: Content{
			Subject: fmt.Sprintf("Order Status Update - %s", o.OrderNumber),
			HTML:    renderEmail(statusEmail(ev, now)),
			Text:    waStatusUpdate(o, ev.Text, ev.ExpectedDelivery, now),
		},
		Admin: Content{
			Subject: fmt.Sprintf("Order Status Updated by Admin - %s", o.OrderNumber),
			HTML:    renderEmail(adminStatusEmail(ev, now, "Order Status Updated", summary)),
			Text: waAdminStatus("🔄 *ADMIN NOTIFICATION*",
				fmt.Sprintf("Order %s status updated by admin to: %s", o.OrderNumber, label),
				o, ev.Text, ev.ExpectedDelivery),
		},
	}
}

func composeApproved(ev Event, now time.Time) Composition {
	o := ev.Order
	summary := fmt.Sprintf("Order %s has been approved.", o.OrderNumber)

	return Composition{
		Customer: Content{
			Subject: fmt.Sprintf("Order Approved - %s", o.OrderNumber),
			HTML:    renderEmail(statusEmail(ev, now)),
			Text:    waApproved(o, ev.Text, ev.ExpectedDelivery, now),
		},
		Admin: Content{
			Subject: fmt.Sprintf("Order Approved - %s", o.OrderNumber),
			HTML:    renderEmail(adminStatusEmail(ev, now, "Order Approved", summary)),
			Text:    waAdminStatus("✅ *ORDER APPROVED*", summary, o, ev.Text, ev.ExpectedDelivery),
		},
	}
}

func composeRejected(ev Event, now time.Time) Composition {
	o := ev.Order
	summary := fmt.Sprintf("Order %s has been rejected.", o.OrderNumber)

	return Composition{
		Customer: Content{
			Subject: fmt.Sprintf("Order Update - %s", o.OrderNumber),
			HTML:    renderEmail(statusEmail(ev, now)),
			Text:    waRejected(o, ev.Text),
		},
		Admin: Content{
			Subject: fmt.Sprintf("Order Rejected - %s", o.OrderNumber),
			HTML:    renderEmail(adminStatusEmail(ev, now, "Order Rejected", summary)),
			Text:    waAdminStatus("❌ *ORDER REJECTED*", summary, o, ev.Text, nil),
		},
	}
}

func composeNewMessage(ev Event, now time.Time) Composition {
	o := ev.Order
	sender := o.Customer
	if ev.Actor != nil {
		sender = *ev.Actor
	}

	greeting := fmt.Sprintf("Message from %s", sender.Name)
	var sections []emailSection
	if ev.FromStaff {
		greeting = fmt.Sprintf("Message from %s", teamName)
	} else {
		sections = []emailSection{{
			Title: "Sender",
			Rows: []emailRow{
				{"From", fmt.Sprintf("%s (%s)", sender.Name, orDash(sender.Company))},
				{"Email", sender.Email},
			},
		}}
	}

	view := emailView{
		Accent:    accentAmber,
		Heading:   "New Message Received",
		Greeting:  greeting,
		Highlight: fmt.Sprintf("Regarding Order: %s", o.OrderNumber),
		Sections:  sections,
		NoteTitle: "Message:",
		Note:      ev.Text,
		Closing:   "Please log into your dashboard to view the complete conversation and respond.",
		Footer:    brandFooter,
		Year:      now.Year(),
	}

	content := Content{
		Subject: fmt.Sprintf("New Message - Order %s", o.OrderNumber),
		HTML:    renderEmail(view),
		Text:    waNewMessage(o, sender, ev.Text, ev.FromStaff),
	}
	return Composition{Customer: content, Admin: content}
}

func composeDocument(ev Event, now time.Time) Composition {
	o := ev.Order
	doc := ev.Document

	customer := emailView{
		Accent:   accentPurple,
		Heading:  "New Document Available",
		Greeting: fmt.Sprintf("Dear %s,", o.Customer.Name),
		Paragraphs: []string{
			fmt.Sprintf("A new %s is now available for your order %s.", doc.Label(), o.OrderNumber),
		},
		Highlight: "Ready for download in your dashboard",
		Closing:   "Please log into your account to download the document.",
		Footer:    fmt.Sprintf("Thank you for choosing %s!", brandName),
		Year:      now.Year(),
	}

	admin := emailView{
		Accent:  accentPurple,
		Heading: "Document Uploaded",
		Paragraphs: []string{
			fmt.Sprintf("%s uploaded for order %s.", doc.Label(), o.OrderNumber),
		},
		Sections: []emailSection{customerSection(o.Customer)},
		Footer:   brandFooter,
		Year:     now.Year(),
	}

	return Composition{
		Customer: Content{
			Subject: fmt.Sprintf("New Document Available - Order %s", o.OrderNumber),
			HTML:    renderEmail(customer),
			Text:    waDocument(o, doc),
		},
		Admin: Content{
			Subject: fmt.Sprintf("Document Uploaded - %s for Order %s", doc.Label(), o.OrderNumber),
			HTML:    renderEmail(admin),
			Text:    waAdminDocument(o, doc),
		},
	}
}

func composeCancellation(ev Event, now time.Time) Composition {
	o := ev.Order
	details := emailSection{
		Title: "Cancelled Order Details",
		Rows: []emailRow{
			{"Product", o.ProductType},
			{"Material", o.MetalType},
			{"Quantity", strconv.Itoa(o.Quantity) + " units"},
			{"Dimensions", dimensions(o)},
		},
	}

	customer := emailView{
		Accent:     accentAmber,
		Heading:    "Order Cancellation Confirmed",
		Greeting:   fmt.Sprintf("Dear %s,", o.Customer.Name),
		Paragraphs: []string{fmt.Sprintf("Your order %s has been successfully cancelled as requested.", o.OrderNumber)},
		Sections:   []emailSection{details},
		NoteTitle:  "Cancellation Reason:",
		Note:       ev.Text,
		Closing:    "If you have any questions about this cancellation, please don't hesitate to contact our support team.",
		Footer:     "Thank you for your understanding!",
		Year:       now.Year(),
	}

	reason := ev.Text
	if reason == "" {
		reason = "No reason provided"
	}
	admin := emailView{
		Accent:     accentAmber,
		Heading:    "Order Cancelled",
		Paragraphs: []string{fmt.Sprintf("Order %s has been cancelled by customer.", o.OrderNumber)},
		Sections:   []emailSection{details, customerSection(o.Customer)},
		NoteTitle:  "Reason:",
		Note:       reason,
		Footer:     brandFooter,
		Year:       now.Year(),
	}

	return Composition{
		Customer: Content{
			Subject: fmt.Sprintf("Order Cancellation Confirmation - %s", o.OrderNumber),
			HTML:    renderEmail(customer),
			Text:    waCancellation(o, ev.Text),
		},
		Admin: Content{
			Subject: fmt.Sprintf("Order Cancelled by Customer - %s", o.OrderNumber),
			HTML:    renderEmail(admin),
			Text:    waAdminCancellation(o, ev.Text),
		},
	}
}
