package services

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/vee4group/order-tracker-api/config"
	"github.com/vee4group/order-tracker-api/notify"
)

var (
	notifierInstance            *notify.Notifier
	orderServiceInstance        *OrderService
	messageServiceInstance      *MessageService
	notificationServiceInstance *NotificationService
)

// NewChannels builds the delivery channels from configuration. Channels without
// credentials are still returned so fanout reports them as skipped.
func NewChannels(cfg *config.Config) []notify.Channel {
	email := NewEmailService(cfg)
	whatsapp := NewWhatsAppService(cfg)

	log.Info().
		Bool("email", email.Enabled()).
		Bool("whatsapp", whatsapp.Enabled()).
		Msg("Notification channels configured")

	return []notify.Channel{email, whatsapp}
}

// InitNotifier wires recipient resolution and fanout over the given channels
func InitNotifier(cfg *config.Config, db *gorm.DB, channels []notify.Channel) *notify.Notifier {
	resolver := notify.NewRecipientResolver(db, cfg.ClientEmail, cfg.ClientWhatsAppPhone)
	dispatcher := notify.NewDispatcher(channels, cfg.NotifySendTimeout, cfg.NotifyMaxConcurrency)
	notifierInstance = notify.NewNotifier(resolver, dispatcher)
	return notifierInstance
}

// GetNotifier returns the notifier created by InitNotifier, or nil
func GetNotifier() *notify.Notifier {
	return notifierInstance
}

// InitServices creates the order, message and notification services. A nil
// notifier disables fanout.
func InitServices(cfg *config.Config, db *gorm.DB, notifier EventNotifier, documents DocumentService) {
	orderServiceInstance = NewOrderService(db, notifier, documents, cfg.DefaultDeliveryDays)
	messageServiceInstance = NewMessageService(db, notifier, cfg.OrgDisplayName)
	notificationServiceInstance = NewNotificationService(db)
}

// GetOrderService returns the order service instance
func GetOrderService() *OrderService {
	return orderServiceInstance
}

// GetMessageService returns the message service instance
func GetMessageService() *MessageService {
	return messageServiceInstance
}

// GetNotificationService returns the notification service instance
func GetNotificationService() *NotificationService {
	return notificationServiceInstance
}
