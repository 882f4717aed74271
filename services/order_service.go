package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vee4group/order-tracker-api/errs"
	"github.com/vee4group/order-tracker-api/models"
	"github.com/vee4group/order-tracker-api/notify"
	"github.com/vee4group/order-tracker-api/utils"
)

const (
	welcomeMessage        = "Thank you for your order. We are currently reviewing your specifications and will update you soon."
	defaultCustomerReason = "Cancelled by customer"
	defaultAdminReason    = "Cancelled by admin"
)

// EventNotifier receives committed order events for delivery.
type EventNotifier interface {
	Notify(ctx context.Context, ev notify.Event)
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, notify.Event) {}

// CreateOrderInput carries the specification submitted with a new order.
type CreateOrderInput struct {
	ProductType            string
	MetalType              string
	Thickness              float64
	Width                  float64
	Height                 float64
	Quantity               int
	Color                  string
	AdditionalRequirements string
}

// Validate reports the required fields that are missing or not positive.
func (in CreateOrderInput) Validate() error {
	var missing []string
	if strings.TrimSpace(in.ProductType) == "" {
		missing = append(missing, "productType")
	}
	if strings.TrimSpace(in.MetalType) == "" {
		missing = append(missing, "metalType")
	}
	if in.Thickness <= 0 {
		missing = append(missing, "thickness")
	}
	if in.Width <= 0 {
		missing = append(missing, "width")
	}
	if in.Height <= 0 {
		missing = append(missing, "height")
	}
	if in.Quantity <= 0 {
		missing = append(missing, "quantity")
	}
	if strings.TrimSpace(in.Color) == "" {
		missing = append(missing, "color")
	}
	if len(missing) > 0 {
		return errs.NewValidationError(missing[0], "Missing required fields: "+strings.Join(missing, ", "))
	}
	return nil
}

// TransitionInput is the admin's payload for approve, reject and status updates.
type TransitionInput struct {
	Status           string
	Message          string
	Notify           bool
	ExpectedDelivery *time.Time
}

// OrderFilter narrows the admin order list. Zero values are ignored.
type OrderFilter struct {
	Status    string
	Customer  string
	StartDate *time.Time
	EndDate   *time.Time
}

// OrderService owns the order lifecycle: placement, transitions, cancellation
// and documents. Every mutation commits its message and notification rows in
// the same transaction and only then hands the event to the notifier.
type OrderService struct {
	db           *gorm.DB
	notifier     EventNotifier
	documents    DocumentService
	deliveryDays int
	now          func() time.Time

	// numbering serializes order number assignment within this process
	numbering sync.Mutex
}

// NewOrderService creates an order service. A nil notifier disables fanout.
func NewOrderService(db *gorm.DB, notifier EventNotifier, documents DocumentService, deliveryDays int) *OrderService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &OrderService{
		db:           db,
		notifier:     notifier,
		documents:    documents,
		deliveryDays: deliveryDays,
		now:          time.Now,
	}
}

// SetClock replaces the time source, for tests.
func (s *OrderService) SetClock(now func() time.Time) {
	s.now = now
}

// CreateOrder validates and stores the design file, assigns the next order
// number for the year, and records the welcome message and admin
// notifications with the order.
func (s *OrderService) CreateOrder(ctx context.Context, customer models.User, in CreateOrderInput, designFile *multipart.FileHeader) (*models.Order, error) {
	if designFile == nil {
		return nil, errs.NewValidationError("designFile", "Please upload a design file")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	key, err := s.documents.UploadDocument(ctx, designFile, "designs")
	if err != nil {
		var fileErr *utils.FileUploadError
		if errors.As(err, &fileErr) {
			return nil, errs.NewValidationError("designFile", fileErr.Message)
		}
		return nil, err
	}

	order := models.Order{
		Status:                 models.StatusPending,
		CustomerID:             customer.ID,
		ProductType:            strings.TrimSpace(in.ProductType),
		MetalType:              strings.TrimSpace(in.MetalType),
		Thickness:              in.Thickness,
		Width:                  in.Width,
		Height:                 in.Height,
		Quantity:               in.Quantity,
		Color:                  strings.TrimSpace(in.Color),
		AdditionalRequirements: in.AdditionalRequirements,
		DesignFile:             &key,
	}

	s.numbering.Lock()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := nextOrderNumber(tx, s.now().Year())
		if err != nil {
			return err
		}
		order.OrderNumber = number

		if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		admins, err := listAdmins(tx)
		if err != nil {
			return err
		}

		welcome := models.Message{OrderID: order.ID, Content: welcomeMessage}
		if len(admins) > 0 {
			welcome.SenderID = &admins[0].ID
		} else {
			welcome.IsSystemMessage = true
		}
		if err := tx.Create(&welcome).Error; err != nil {
			return fmt.Errorf("create welcome message: %w", err)
		}

		placedBy := customer.Name
		if customer.Company != "" {
			placedBy += " from " + customer.Company
		}
		return notifyUsers(tx, admins, order.ID, models.NotificationTypeOrderStatus,
			"New Order Received",
			fmt.Sprintf("A new order %s has been placed by %s", order.OrderNumber, placedBy))
	})
	s.numbering.Unlock()

	if err != nil {
		if delErr := s.documents.DeleteDocument(ctx, key); delErr != nil {
			log.Warn().Err(delErr).Str("key", key).Msg("Failed to remove design file of failed order")
		}
		return nil, err
	}

	order.Customer = customer
	log.Info().
		Str("order_number", order.OrderNumber).
		Uint("customer_id", customer.ID).
		Msg("Order placed")

	s.notifier.Notify(ctx, notify.Event{
		Kind:  notify.KindNewOrder,
		Order: order,
		Actor: &customer,
	})
	return &order, nil
}

// nextOrderNumber increments the per-year counter inside tx. The first order
// of a year seeds the counter from the numbers already issued that year, so
// deleted orders never free up a number.
func nextOrderNumber(tx *gorm.DB, year int) (string, error) {
	var seq models.OrderSequence
	err := tx.Where("year = ?", year).First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		var issued int64
		if err := tx.Unscoped().Model(&models.Order{}).
			Where("order_number LIKE ?", fmt.Sprintf("ORD-%d-%%", year)).
			Count(&issued).Error; err != nil {
			return "", fmt.Errorf("count orders for %d: %w", year, err)
		}
		seq = models.OrderSequence{Year: year, LastValue: int(issued)}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seq).Error; err != nil {
			return "", fmt.Errorf("seed order sequence: %w", err)
		}
	} else if err != nil {
		return "", fmt.Errorf("load order sequence: %w", err)
	}

	if err := tx.Model(&models.OrderSequence{}).
		Where("year = ?", year).
		UpdateColumn("last_value", gorm.Expr("last_value + ?", 1)).Error; err != nil {
		return "", fmt.Errorf("advance order sequence: %w", err)
	}
	if err := tx.Where("year = ?", year).First(&seq).Error; err != nil {
		return "", fmt.Errorf("read order sequence: %w", err)
	}
	return models.FormatOrderNumber(year, seq.LastValue), nil
}

// ApproveOrder moves a pending order to approved. Without a supplied date the
// expected delivery is the configured number of days from now.
func (s *OrderService) ApproveOrder(ctx context.Context, admin models.User, orderID uint, in TransitionInput) (*models.Order, error) {
	var text string
	order, err := s.mutate(ctx, orderID,
		func(o *models.Order) error {
			next, err := o.Status.Approve()
			if err != nil {
				return err
			}
			delivery := s.now().AddDate(0, 0, s.deliveryDays)
			if in.ExpectedDelivery != nil {
				delivery = *in.ExpectedDelivery
			}
			o.Status = next
			o.ExpectedDeliveryDate = &delivery
			return nil
		},
		func(tx *gorm.DB, o *models.Order) error {
			if !in.Notify {
				return nil
			}
			date := notify.FormatDate(*o.ExpectedDeliveryDate)
			text = orDefault(in.Message, fmt.Sprintf(
				"Your order has been approved and will move to production shortly. Expected delivery date: %s.", date))
			return s.recordForCustomer(tx, o, admin, text, "Order Approved",
				fmt.Sprintf("Your order #%s has been approved with expected delivery on %s", o.OrderNumber, date))
		})
	if err != nil {
		return nil, err
	}

	if in.Notify {
		s.notifier.Notify(ctx, notify.Event{
			Kind:             notify.KindApproved,
			Order:            *order,
			Actor:            &admin,
			Text:             text,
			ExpectedDelivery: order.ExpectedDeliveryDate,
		})
	}
	return order, nil
}

// RejectOrder moves a pending order to rejected.
func (s *OrderService) RejectOrder(ctx context.Context, admin models.User, orderID uint, in TransitionInput) (*models.Order, error) {
	var text string
	order, err := s.mutate(ctx, orderID,
		func(o *models.Order) error {
			next, err := o.Status.Reject()
			if err != nil {
				return err
			}
			o.Status = next
			return nil
		},
		func(tx *gorm.DB, o *models.Order) error {
			if !in.Notify {
				return nil
			}
			text = orDefault(in.Message, "Your order has been rejected. Please contact us for more information.")
			return s.recordForCustomer(tx, o, admin, text, "Order Rejected",
				fmt.Sprintf("Your order #%s has been rejected", o.OrderNumber))
		})
	if err != nil {
		return nil, err
	}

	if in.Notify {
		s.notifier.Notify(ctx, notify.Event{
			Kind:  notify.KindRejected,
			Order: *order,
			Actor: &admin,
			Text:  text,
		})
	}
	return order, nil
}

// UpdateStatus sets any status without checking the source status. Entering
// cancelled records the cancellation and leaving it clears the record.
func (s *OrderService) UpdateStatus(ctx context.Context, admin models.User, orderID uint, in TransitionInput) (*models.Order, error) {
	target, err := models.ParseStatus(in.Status)
	if err != nil {
		return nil, err
	}

	var text string
	order, err := s.mutate(ctx, orderID,
		func(o *models.Order) error {
			next, err := o.Status.SetTo(target)
			if err != nil {
				return err
			}
			switch {
			case next == models.StatusCancelled && o.Status != models.StatusCancelled:
				o.MarkCancelled(s.now(), orDefault(in.Message, defaultAdminReason))
			case next != models.StatusCancelled:
				o.ClearCancellation()
			}
			o.Status = next
			if in.ExpectedDelivery != nil {
				o.ExpectedDeliveryDate = in.ExpectedDelivery
			}
			return nil
		},
		func(tx *gorm.DB, o *models.Order) error {
			if !in.Notify {
				return nil
			}
			label := o.Status.Label()
			text = orDefault(in.Message, fmt.Sprintf("Your order status has been updated to %s.", label))
			body := fmt.Sprintf("Your order #%s status has been updated to '%s'", o.OrderNumber, label)
			if o.ExpectedDeliveryDate != nil {
				body += " with expected delivery on " + notify.FormatDate(*o.ExpectedDeliveryDate)
			}
			return s.recordForCustomer(tx, o, admin, text, "Order Status Updated", body)
		})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("order_number", order.OrderNumber).
		Str("status", string(order.Status)).
		Uint("admin_id", admin.ID).
		Msg("Order status updated")

	if in.Notify {
		s.notifier.Notify(ctx, notify.Event{
			Kind:             notify.KindStatusUpdate,
			Order:            *order,
			Actor:            &admin,
			Text:             text,
			ExpectedDelivery: order.ExpectedDeliveryDate,
		})
	}
	return order, nil
}

// CancelOrder lets the owning customer cancel before production starts.
// Cancellation always records a summary message and notifies the admins.
func (s *OrderService) CancelOrder(ctx context.Context, customer models.User, orderID uint, reason string) (*models.Order, error) {
	reason = orDefault(reason, defaultCustomerReason)

	order, err := s.mutate(ctx, orderID,
		func(o *models.Order) error {
			if o.CustomerID != customer.ID {
				return errs.NewAuthorizationError("Not authorized to cancel this order")
			}
			if _, err := o.Status.Cancel(); err != nil {
				return err
			}
			o.MarkCancelled(s.now(), reason)
			return nil
		},
		func(tx *gorm.DB, o *models.Order) error {
			msg := models.Message{
				OrderID:  o.ID,
				SenderID: &customer.ID,
				Content:  "Order has been cancelled. Reason: " + reason,
			}
			if err := tx.Create(&msg).Error; err != nil {
				return fmt.Errorf("create cancellation message: %w", err)
			}

			admins, err := listAdmins(tx)
			if err != nil {
				return err
			}
			return notifyUsers(tx, admins, o.ID, models.NotificationTypeOrderStatus,
				"Order Cancelled",
				fmt.Sprintf("Order %s has been cancelled by %s", o.OrderNumber, customer.Name))
		})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("order_number", order.OrderNumber).
		Uint("customer_id", customer.ID).
		Msg("Order cancelled")

	s.notifier.Notify(ctx, notify.Event{
		Kind:  notify.KindCancellation,
		Order: *order,
		Actor: &customer,
		Text:  reason,
	})
	return order, nil
}

// UploadDocument stores a test report or invoice for an order, replacing any
// previous one of the same type.
func (s *OrderService) UploadDocument(ctx context.Context, admin models.User, orderID uint, doc models.DocumentType, file *multipart.FileHeader, notifyCustomer bool) (*models.Order, error) {
	if doc != models.DocumentTestReport && doc != models.DocumentInvoice {
		return nil, errs.NewValidationError("documentType", "Invalid document type")
	}
	if _, err := s.findOrder(ctx, orderID); err != nil {
		return nil, err
	}

	key, err := s.documents.UploadDocument(ctx, file, string(doc)+"s")
	if err != nil {
		var fileErr *utils.FileUploadError
		if errors.As(err, &fileErr) {
			return nil, errs.NewValidationError("file", fileErr.Message)
		}
		return nil, err
	}

	var previous string
	label := strings.ToLower(doc.Label())
	order, err := s.mutate(ctx, orderID,
		func(o *models.Order) error {
			if old := o.DocumentKey(doc); old != nil {
				previous = *old
			}
			o.SetDocumentKey(doc, key)
			return nil
		},
		func(tx *gorm.DB, o *models.Order) error {
			if !notifyCustomer {
				return nil
			}
			return s.recordForCustomer(tx, o, admin,
				fmt.Sprintf("A new %s has been uploaded for your order.", label),
				fmt.Sprintf("New %s Available", doc.Label()),
				fmt.Sprintf("A new %s is available for your order #%s", label, o.OrderNumber))
		})
	if err != nil {
		if delErr := s.documents.DeleteDocument(ctx, key); delErr != nil {
			log.Warn().Err(delErr).Str("key", key).Msg("Failed to remove orphaned document")
		}
		return nil, err
	}

	if previous != "" && previous != key {
		if err := s.documents.DeleteDocument(ctx, previous); err != nil {
			log.Warn().Err(err).Str("key", previous).Msg("Failed to remove replaced document")
		}
	}

	if notifyCustomer {
		s.notifier.Notify(ctx, notify.Event{
			Kind:     notify.KindDocumentUploaded,
			Order:    *order,
			Actor:    &admin,
			Document: doc,
		})
	}
	return order, nil
}

// ListCustomerOrders returns the customer's own orders, newest first.
func (s *OrderService) ListCustomerOrders(ctx context.Context, customer models.User) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.WithContext(ctx).
		Where("customer_id = ?", customer.ID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// ListOrders returns all orders matching the filter with their customers, newest first.
// The customer filter matches name or company, case-insensitively.
func (s *OrderService) ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	db := s.db.WithContext(ctx)
	query := db.Preload("Customer")

	if filter.Status != "" {
		status, err := models.ParseStatus(filter.Status)
		if err != nil {
			return nil, err
		}
		query = query.Where("status = ?", status)
	}
	if term := strings.TrimSpace(filter.Customer); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		customers := db.Model(&models.User{}).
			Select("id").
			Where("LOWER(name) LIKE ? OR LOWER(company) LIKE ?", pattern, pattern)
		query = query.Where("customer_id IN (?)", customers)
	}
	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		// end date is inclusive of the whole day
		query = query.Where("created_at < ?", filter.EndDate.AddDate(0, 0, 1))
	}

	var orders []models.Order
	if err := query.Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// GetOrder loads an order with its customer. Customers may only see their own orders.
func (s *OrderService) GetOrder(ctx context.Context, viewer models.User, orderID uint) (*models.Order, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !viewer.IsAdmin() && order.CustomerID != viewer.ID {
		return nil, errs.NewAuthorizationError("Not authorized to access this order")
	}
	return order, nil
}

// DocumentURL returns a download URL for one of the order's documents.
func (s *OrderService) DocumentURL(ctx context.Context, viewer models.User, orderID uint, doc models.DocumentType) (string, error) {
	order, err := s.GetOrder(ctx, viewer, orderID)
	if err != nil {
		return "", err
	}
	key := order.DocumentKey(doc)
	if key == nil || *key == "" {
		return "", errs.NewNotFoundError(doc.Label(), orderID)
	}
	return s.documents.GetDocumentURL(ctx, *key)
}

func (s *OrderService) findOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).Preload("Customer").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFoundError("Order", orderID)
		}
		return nil, fmt.Errorf("load order: %w", err)
	}
	return &order, nil
}

// mutate loads the order inside a transaction, applies change, saves it and
// then lets record add the side-effect rows. Nothing is written if any step fails.
func (s *OrderService) mutate(ctx context.Context, orderID uint, change func(*models.Order) error, record func(*gorm.DB, *models.Order) error) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Customer").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.NewNotFoundError("Order", orderID)
			}
			return fmt.Errorf("load order: %w", err)
		}

		if err := change(&order); err != nil {
			return err
		}
		order.UpdatedAt = s.now()
		if err := tx.Omit(clause.Associations).Save(&order).Error; err != nil {
			return fmt.Errorf("save order: %w", err)
		}

		if record != nil {
			return record(tx, &order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// recordForCustomer appends an admin-authored message and an order_status
// notification for the order's customer.
func (s *OrderService) recordForCustomer(tx *gorm.DB, o *models.Order, admin models.User, text, title, body string) error {
	msg := models.Message{OrderID: o.ID, SenderID: &admin.ID, Content: text}
	if err := tx.Create(&msg).Error; err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return notifyUsers(tx, []models.User{o.Customer}, o.ID, models.NotificationTypeOrderStatus, title, body)
}

func listAdmins(tx *gorm.DB) ([]models.User, error) {
	var admins []models.User
	if err := tx.Where("role = ?", models.RoleAdmin).Order("id").Find(&admins).Error; err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return admins, nil
}

// notifyUsers inserts one in-app notification per user.
func notifyUsers(tx *gorm.DB, users []models.User, orderID uint, kind, title, body string) error {
	if len(users) == 0 {
		return nil
	}
	notifications := make([]models.Notification, 0, len(users))
	for _, u := range users {
		notifications = append(notifications, models.Notification{
			UserID:  u.ID,
			Title:   title,
			Message: body,
			Type:    kind,
			OrderID: &orderID,
		})
	}
	if err := tx.Create(&notifications).Error; err != nil {
		return fmt.Errorf("create notifications: %w", err)
	}
	return nil
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

// CustomerSummary is a customer with the number of orders placed.
type CustomerSummary struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Company     string    `json:"company"`
	Phone       string    `json:"phone"`
	OrdersCount int64     `json:"orders_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListCustomers returns every customer with their order count, newest customers first.
func (s *OrderService) ListCustomers(ctx context.Context) ([]CustomerSummary, error) {
	var customers []CustomerSummary
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Select("users.id, users.name, users.email, users.company, users.phone, users.created_at, COUNT(orders.id) AS orders_count").
		Joins("LEFT JOIN orders ON orders.customer_id = users.id AND orders.deleted_at IS NULL").
		Where("users.role = ?", models.RoleCustomer).
		Group("users.id, users.name, users.email, users.company, users.phone, users.created_at").
		Order("users.created_at DESC, users.id DESC").
		Scan(&customers).Error
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}
