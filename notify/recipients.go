package notify

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/vee4group/order-tracker-api/models"
)

// Category groups recipients in a Result.
type Category string

const (
	CategoryCustomer Category = "customer"
	CategoryAdmin    Category = "admin"
)

// Recipient is one party to notify. Email is empty only for the operator's extra
// WhatsApp contact; Phone is empty when the user has none.
type Recipient struct {
	UserID   *uint
	Name     string
	Category Category
	Email    string
	Phone    string
}

// RecipientResolver expands an Event into the people who should hear about it.
// Admins are read from the database on every call.
type RecipientResolver struct {
	db         *gorm.DB
	extraEmail string
	extraPhone string
}

// NewRecipientResolver creates a resolver. extraEmail and extraPhone are optional
// operator contacts that receive every admin notification on their one channel.
func NewRecipientResolver(db *gorm.DB, extraEmail, extraPhone string) *RecipientResolver {
	return &RecipientResolver{db: db, extraEmail: extraEmail, extraPhone: extraPhone}
}

// Resolve returns the customer recipient (when the event kind addresses the
// customer) followed by admin recipients in id order.
func (r *RecipientResolver) Resolve(ctx context.Context, ev Event) ([]Recipient, error) {
	var out []Recipient

	if includesCustomer(ev) {
		out = append(out, userRecipient(ev.Order.Customer, CategoryCustomer))
	}

	query := r.db.WithContext(ctx).Where("role = ?", models.RoleAdmin).Order("id ASC")
	if ev.Kind == KindNewMessage && ev.FromStaff && ev.Actor != nil {
		query = query.Where("id <> ?", ev.Actor.ID)
	}

	var admins []models.User
	if err := query.Find(&admins).Error; err != nil {
		return nil, fmt.Errorf("failed to load admin recipients: %w", err)
	}
	for _, admin := range admins {
		out = append(out, userRecipient(admin, CategoryAdmin))
	}

	if r.extraEmail != "" {
		out = append(out, Recipient{Name: "Client", Category: CategoryAdmin, Email: r.extraEmail})
	}
	if r.extraPhone != "" {
		out = append(out, Recipient{Name: "Client", Category: CategoryAdmin, Phone: r.extraPhone})
	}

	return out, nil
}

// A customer's own message goes to staff only.
func includesCustomer(ev Event) bool {
	return !(ev.Kind == KindNewMessage && !ev.FromStaff)
}

func userRecipient(u models.User, category Category) Recipient {
	id := u.ID
	return Recipient{
		UserID:   &id,
		Name:     u.Name,
		Category: category,
		Email:    u.Email,
		Phone:    u.Phone,
	}
}
