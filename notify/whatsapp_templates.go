package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/vee4group/order-tracker-api/models"
)

// WhatsApp bodies use the provider's light markup: *bold* and bullet lines.

func waOrderDetails(b *strings.Builder, o models.Order) {
	b.WriteString("📋 *Order Details:*\n")
	fmt.Fprintf(b, "• Order ID: %s\n", o.OrderNumber)
	fmt.Fprintf(b, "• Product: %s\n", o.ProductType)
	fmt.Fprintf(b, "• Material: %s\n", o.MetalType)
	fmt.Fprintf(b, "• Thickness: %smm\n", formatMeasure(o.Thickness))
	fmt.Fprintf(b, "• Quantity: %d units\n", o.Quantity)
	fmt.Fprintf(b, "• Color: %s\n\n", orDash(o.Color))
}

func waCustomerInfo(b *strings.Builder, c models.User) {
	b.WriteString("👤 *Customer Info:*\n")
	fmt.Fprintf(b, "• Name: %s\n", c.Name)
	fmt.Fprintf(b, "• Company: %s\n", orDash(c.Company))
	fmt.Fprintf(b, "• Email: %s\n", c.Email)
	fmt.Fprintf(b, "• Phone: %s\n\n", orDash(c.Phone))
}

func waNewOrder(o models.Order, confirmation bool) string {
	var b strings.Builder
	if confirmation {
		b.WriteString("✅ *ORDER CONFIRMATION*\n\n")
	} else {
		b.WriteString("🆕 *NEW ORDER RECEIVED*\n\n")
	}
	waOrderDetails(&b, o)
	waCustomerInfo(&b, o.Customer)
	if o.AdditionalRequirements != "" {
		fmt.Fprintf(&b, "📝 *Special Requirements:*\n%s\n\n", o.AdditionalRequirements)
	}
	if confirmation {
		b.WriteString("⚡ We are reviewing your specifications and will update you soon.\n\n")
	} else {
		b.WriteString("⚡ Please review this order in your admin dashboard.\n\n")
	}
	fmt.Fprintf(&b, "🏭 *%s*", brandFooter)
	return b.String()
}

func waDelivery(b *strings.Builder, date *time.Time, now time.Time) {
	if date == nil {
		return
	}
	fmt.Fprintf(b, "🗓️ *Expected Delivery:*\n📅 %s\n\n", FormatDate(*date))
	if days := DaysRemaining(*date, now); days > 0 {
		fmt.Fprintf(b, "⏰ *%d days remaining*\n\n", days)
	}
}

func waStatusUpdate(o models.Order, note string, date *time.Time, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s *ORDER STATUS UPDATED*\n\n", emojiFor(o.Status))
	fmt.Fprintf(&b, "👋 Hi %s!\n\n", o.Customer.Name)
	fmt.Fprintf(&b, "📋 Your order *%s* status has been updated to:\n", o.OrderNumber)
	fmt.Fprintf(&b, "🔄 *%s*\n\n", strings.ToUpper(HumanizeStatus(o.Status)))
	if o.Status != models.StatusRejected {
		waDelivery(&b, date, now)
	}
	if note != "" {
		fmt.Fprintf(&b, "💬 *Message from %s:*\n\"%s\"\n\n", teamName, note)
	}
	fmt.Fprintf(&b, "🏭 Thank you for choosing %s!\n📱 Track your order progress anytime.", brandName)
	return b.String()
}

func waApproved(o models.Order, note string, date *time.Time, now time.Time) string {
	var b strings.Builder
	b.WriteString("✅ *ORDER APPROVED!*\n\n")
	fmt.Fprintf(&b, "🎉 Great news %s!\n\n", o.Customer.Name)
	fmt.Fprintf(&b, "Your order *%s* has been approved and will move to production shortly.\n\n", o.OrderNumber)
	waDelivery(&b, date, now)
	if note != "" {
		fmt.Fprintf(&b, "💬 *Message from %s:*\n\"%s\"\n\n", teamName, note)
	}
	b.WriteString("🔄 *Next Steps:*\n")
	b.WriteString("• Material preparation will begin\n")
	b.WriteString("• You'll receive updates at each stage\n")
	b.WriteString("• Quality checks before delivery\n\n")
	b.WriteString("📱 Track your order progress in your dashboard.\n\n")
	fmt.Fprintf(&b, "🏭 *%s*", brandFooter)
	return b.String()
}

func waRejected(o models.Order, note string) string {
	var b strings.Builder
	b.WriteString("❌ *ORDER STATUS UPDATE*\n\n")
	fmt.Fprintf(&b, "Hi %s,\n\n", o.Customer.Name)
	fmt.Fprintf(&b, "We regret to inform you that order *%s* has been rejected.\n\n", o.OrderNumber)
	if note != "" {
		fmt.Fprintf(&b, "💬 *Reason:*\n\"%s\"\n\n", note)
	}
	b.WriteString("📞 *Next Steps:*\n")
	b.WriteString("• Please contact our team for clarification\n")
	b.WriteString("• You can submit a new order with modifications\n\n")
	fmt.Fprintf(&b, "📧 Email: %s\n\n", supportMail)
	fmt.Fprintf(&b, "🏭 *%s - We're here to help!*", brandName)
	return b.String()
}

// waAdminStatus is the short staff-facing summary for status, approve and reject.
func waAdminStatus(headline, summary string, o models.Order, note string, date *time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n%s\n\n", headline, summary)
	fmt.Fprintf(&b, "Customer: %s (%s)\n", o.Customer.Name, orDash(o.Customer.Company))
	if note != "" {
		fmt.Fprintf(&b, "Message sent: \"%s\"\n", note)
	}
	if date != nil && o.Status != models.StatusRejected {
		fmt.Fprintf(&b, "Expected delivery: %s\n", FormatDate(*date))
	}
	return b.String()
}

func waNewMessage(o models.Order, sender models.User, content string, fromStaff bool) string {
	var b strings.Builder
	b.WriteString("💬 *NEW MESSAGE RECEIVED*\n\n")
	if fromStaff {
		fmt.Fprintf(&b, "🏭 *From: %s*\n", teamName)
	} else {
		fmt.Fprintf(&b, "👤 *From: %s*\n", sender.Name)
	}
	fmt.Fprintf(&b, "📋 *Order: %s*\n\n", o.OrderNumber)
	fmt.Fprintf(&b, "💭 *Message:*\n\"%s\"\n\n", content)
	if !fromStaff {
		b.WriteString("📞 *Sender Details:*\n")
		fmt.Fprintf(&b, "• Name: %s\n", sender.Name)
		fmt.Fprintf(&b, "• Company: %s\n", orDash(sender.Company))
		fmt.Fprintf(&b, "• Email: %s\n\n", sender.Email)
	}
	b.WriteString("📱 Please check your dashboard for complete conversation.\n\n")
	fmt.Fprintf(&b, "🏭 *%s*", brandFooter)
	return b.String()
}

func waDocument(o models.Order, doc models.DocumentType) string {
	emoji := "🧾"
	if doc == models.DocumentTestReport {
		emoji = "📋"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s *NEW DOCUMENT AVAILABLE*\n\n", emoji)
	fmt.Fprintf(&b, "👋 Hi %s!\n\n", o.Customer.Name)
	fmt.Fprintf(&b, "📄 A new *%s* is now available for your order:\n📋 *%s*\n\n", doc.Label(), o.OrderNumber)
	if doc == models.DocumentTestReport {
		b.WriteString("🔍 *Quality Test Report Ready*\nYour product has passed our quality checks!\n\n")
	} else {
		b.WriteString("💰 *Invoice Generated*\nYour order invoice is ready for download.\n\n")
	}
	b.WriteString("📱 Please log into your account to download the document.\n\n")
	fmt.Fprintf(&b, "🏭 *%s*", brandFooter)
	return b.String()
}

func waAdminDocument(o models.Order, doc models.DocumentType) string {
	return fmt.Sprintf("📄 *DOCUMENT UPLOADED*\n\n%s uploaded for order %s\n\nCustomer: %s (%s)\n",
		doc.Label(), o.OrderNumber, o.Customer.Name, orDash(o.Customer.Company))
}

func waCancellation(o models.Order, reason string) string {
	var b strings.Builder
	b.WriteString("🔄 *ORDER CANCELLATION CONFIRMED*\n\n")
	fmt.Fprintf(&b, "Hi %s,\n\n", o.Customer.Name)
	fmt.Fprintf(&b, "Your order *%s* has been successfully cancelled.\n\n", o.OrderNumber)
	if reason != "" {
		fmt.Fprintf(&b, "💭 *Cancellation Reason:*\n\"%s\"\n\n", reason)
	}
	b.WriteString("📋 *Order Details:*\n")
	fmt.Fprintf(&b, "• Product: %s\n", o.ProductType)
	fmt.Fprintf(&b, "• Material: %s\n", o.MetalType)
	fmt.Fprintf(&b, "• Quantity: %d units\n\n", o.Quantity)
	b.WriteString("🆕 You can place a new order anytime through your dashboard.\n\n")
	fmt.Fprintf(&b, "📧 Email: %s\n\n", supportMail)
	fmt.Fprintf(&b, "🏭 *%s - Thank you for your understanding*", brandName)
	return b.String()
}

func waAdminCancellation(o models.Order, reason string) string {
	if reason == "" {
		reason = "No reason provided"
	}
	return fmt.Sprintf("🔄 *ORDER CANCELLED*\n\nOrder %s has been cancelled by customer.\n\nCustomer: %s (%s)\nReason: \"%s\"",
		o.OrderNumber, o.Customer.Name, orDash(o.Customer.Company), reason)
}
