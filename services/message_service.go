package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/vee4group/order-tracker-api/errs"
	"github.com/vee4group/order-tracker-api/models"
	"github.com/vee4group/order-tracker-api/notify"
)

// MessageSender is how a message author is shown in the conversation.
type MessageSender struct {
	ID   *uint  `json:"id"`
	Name string `json:"name"`
}

// MessageView is a conversation entry with its sender resolved for display.
type MessageView struct {
	ID              uint          `json:"id"`
	OrderID         uint          `json:"order_id"`
	Sender          MessageSender `json:"sender"`
	Content         string        `json:"content"`
	IsSystemMessage bool          `json:"is_system_message"`
	CreatedAt       time.Time     `json:"created_at"`
}

// MessageService manages the per-order conversation log.
type MessageService struct {
	db       *gorm.DB
	notifier EventNotifier
	orgName  string
}

// NewMessageService creates a message service. Admin and system messages are
// shown under orgName.
func NewMessageService(db *gorm.DB, notifier EventNotifier, orgName string) *MessageService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &MessageService{db: db, notifier: notifier, orgName: orgName}
}

// PostMessage appends a free-text message to an order. Customers may only post
// on their own orders and notify the admins. Admin posts notify the customer
// and every other admin.
func (s *MessageService) PostMessage(ctx context.Context, sender models.User, orderID uint, content string) (*MessageView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errs.NewValidationError("content", "Message content is required")
	}

	var (
		order models.Order
		msg   models.Message
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Customer").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.NewNotFoundError("Order", orderID)
			}
			return fmt.Errorf("load order: %w", err)
		}
		if !sender.IsAdmin() && order.CustomerID != sender.ID {
			return errs.NewAuthorizationError("Not authorized to access this order")
		}

		msg = models.Message{OrderID: order.ID, SenderID: &sender.ID, Content: content}
		if err := tx.Create(&msg).Error; err != nil {
			return fmt.Errorf("create message: %w", err)
		}

		if !sender.IsAdmin() {
			admins, err := listAdmins(tx)
			if err != nil {
				return err
			}
			return notifyUsers(tx, admins, order.ID, models.NotificationTypeMessage,
				"New Customer Message",
				fmt.Sprintf("%s sent a message regarding order #%s", sender.Name, order.OrderNumber))
		}

		if err := notifyUsers(tx, []models.User{order.Customer}, order.ID, models.NotificationTypeMessage,
			"New Message from Admin",
			fmt.Sprintf("Admin has sent you a message regarding order #%s", order.OrderNumber)); err != nil {
			return err
		}

		var others []models.User
		if err := tx.Where("role = ? AND id <> ?", models.RoleAdmin, sender.ID).Order("id").Find(&others).Error; err != nil {
			return fmt.Errorf("list admins: %w", err)
		}
		return notifyUsers(tx, others, order.ID, models.NotificationTypeMessage,
			"Admin Message Sent",
			fmt.Sprintf("%s sent a message to customer for order #%s", sender.Name, order.OrderNumber))
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, notify.Event{
		Kind:      notify.KindNewMessage,
		Order:     order,
		Actor:     &sender,
		Text:      content,
		FromStaff: sender.IsAdmin(),
	})

	msg.Sender = &sender
	view := s.view(msg)
	return &view, nil
}

// ListMessages returns the order's conversation, oldest first. The order row is
// not required, so history survives order deletion.
func (s *MessageService) ListMessages(ctx context.Context, orderID uint) ([]MessageView, error) {
	var messages []models.Message
	if err := s.db.WithContext(ctx).
		Preload("Sender").
		Where("order_id = ?", orderID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	views := make([]MessageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, s.view(m))
	}
	return views, nil
}

func (s *MessageService) view(m models.Message) MessageView {
	return MessageView{
		ID:              m.ID,
		OrderID:         m.OrderID,
		Sender:          MessageSender{ID: m.SenderID, Name: s.displayName(m)},
		Content:         m.Content,
		IsSystemMessage: m.IsSystemMessage,
		CreatedAt:       m.CreatedAt,
	}
}

func (s *MessageService) displayName(m models.Message) string {
	switch {
	case m.IsSystemMessage, m.Sender == nil:
		return s.orgName
	case m.Sender.IsAdmin():
		return s.orgName
	default:
		return m.Sender.Name
	}
}
