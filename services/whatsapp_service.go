package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"golang.org/x/time/rate"

	"github.com/vee4group/order-tracker-api/config"
	"github.com/vee4group/order-tracker-api/notify"
)

// ErrInvalidPhone is returned for input with no digits.
var ErrInvalidPhone = errors.New("invalid phone number")

// messageCreator is satisfied by the Twilio API service.
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// WhatsAppService delivers notifications through Twilio's WhatsApp API.
type WhatsAppService struct {
	api         messageCreator
	from        string
	countryCode string
	enabled     bool
	limiter     *rate.Limiter
}

// NewWhatsAppService creates the WhatsApp channel. Without Twilio credentials the
// channel reports itself disabled.
func NewWhatsAppService(cfg *config.Config) *WhatsAppService {
	s := &WhatsAppService{
		from:        cfg.TwilioWhatsAppFrom,
		countryCode: cfg.DefaultCountryCode,
		enabled:     cfg.WhatsAppConfigured(),
		limiter:     sendLimiter(cfg.WhatsAppSendRate),
	}
	if s.enabled {
		client := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		})
		s.api = client.Api
	}
	return s
}

// NewWhatsAppServiceWithAPI is used by tests to stub the Twilio API. perSecond <= 0 means unlimited.
func NewWhatsAppServiceWithAPI(api messageCreator, from, countryCode string, perSecond int) *WhatsAppService {
	return &WhatsAppService{api: api, from: from, countryCode: countryCode, enabled: true, limiter: sendLimiter(perSecond)}
}

// sendLimiter caps outbound messages per second for the sender number.
func sendLimiter(perSecond int) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(perSecond), perSecond)
}

func (s *WhatsAppService) Name() string {
	return "whatsapp"
}

func (s *WhatsAppService) Enabled() bool {
	return s.enabled
}

func (s *WhatsAppService) Address(r notify.Recipient) string {
	return strings.TrimSpace(r.Phone)
}

// Send normalizes the phone number and returns the Twilio message SID.
func (s *WhatsAppService) Send(ctx context.Context, address string, content notify.Content) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	phone, err := NormalizePhone(address, s.countryCode)
	if err != nil {
		return "", err
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("whatsapp send throttled: %w", err)
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(whatsappAddress(phone))
	params.SetFrom(whatsappAddress(s.from))
	params.SetBody(content.Text)

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("failed to send WhatsApp message: %w", err)
	}
	if resp == nil || resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

func whatsappAddress(phone string) string {
	if strings.HasPrefix(phone, "whatsapp:") {
		return phone
	}
	return "whatsapp:" + phone
}

// NormalizePhone converts free-form input into E.164 form.
//
//   - a leading "+" is trusted and the digits pass through
//   - a leading 0 is replaced by the country code
//   - numbers already carrying the country code (country code + 10 digits) pass through
//   - 10-digit local numbers get the country code
//   - 11-digit numbers starting with 1 (North America) pass through
//   - anything else gets the country code prepended
func NormalizePhone(raw, countryCode string) (string, error) {
	trimmed := strings.TrimSpace(raw)

	var b strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, raw)
	}

	switch {
	case strings.HasPrefix(trimmed, "+"):
	case strings.HasPrefix(digits, "0"):
		digits = countryCode + digits[1:]
	case strings.HasPrefix(digits, countryCode) && len(digits) == len(countryCode)+10:
	case len(digits) == 10:
		digits = countryCode + digits
	case strings.HasPrefix(digits, "1") && len(digits) == 11:
	default:
		digits = countryCode + digits
	}

	return "+" + digits, nil
}
