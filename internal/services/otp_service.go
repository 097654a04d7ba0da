package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/isdelr/signup-otp-be/internal/sms"
	"github.com/rs/zerolog/log"
)

const (
	otpMin = 100000
	otpMax = 999999

	defaultMessageTemplate = "Your OTP is {code}"
)

// CodeGenerator produces a one-time code.
type CodeGenerator func() (string, error)

// RandomCode returns a uniformly random 6-digit code in [100000, 999999].
func RandomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return strconv.FormatInt(n.Int64()+otpMin, 10), nil
}

// OTPDispatcherProvider defines the interface for OTP dispatch.
type OTPDispatcherProvider interface {
	SendOTP(ctx context.Context, phone string) (string, error)
	Enabled() bool
	CountryPrefix() string
}

// OTPOptions configures an OTPService.
type OTPOptions struct {
	CountryPrefix   string
	MessageTemplate string // "{code}" is replaced with the generated code
	Generate        CodeGenerator
}

// OTPService generates codes and hands them to the SMS gateway. Codes are
// returned to the caller and never stored; verification happens elsewhere.
type OTPService struct {
	sender   sms.Sender
	from     string
	prefix   string
	template string
	generate CodeGenerator
	events   EventServiceProvider
}

// NewOTPService creates a dispatcher sending from the given number. A nil
// sender yields a disabled dispatcher that rejects every send.
func NewOTPService(sender sms.Sender, from string, opts OTPOptions, events EventServiceProvider) *OTPService {
	s := &OTPService{
		sender:   sender,
		from:     from,
		prefix:   opts.CountryPrefix,
		template: opts.MessageTemplate,
		generate: opts.Generate,
		events:   events,
	}
	if s.template == "" {
		s.template = defaultMessageTemplate
	}
	if s.generate == nil {
		s.generate = RandomCode
	}
	return s
}

// Enabled reports whether a gateway client is configured.
func (s *OTPService) Enabled() bool {
	return s.sender != nil
}

// CountryPrefix returns the required phone number prefix.
func (s *OTPService) CountryPrefix() string {
	return s.prefix
}

// SendOTP validates phone, generates a code and sends it. The code is returned
// only when the gateway accepted the message.
func (s *OTPService) SendOTP(ctx context.Context, phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" || !strings.HasPrefix(phone, s.prefix) {
		return "", fmt.Errorf("%w: must start with %s", ErrInvalidPhone, s.prefix)
	}
	if s.sender == nil {
		return "", ErrDispatcherDisabled
	}

	code, err := s.generate()
	if err != nil {
		return "", err
	}

	body := strings.ReplaceAll(s.template, "{code}", code)
	messageID, err := s.sender.Send(ctx, s.from, phone, body)
	if err != nil {
		recordEvent(ctx, s.events, EventOTPFailed, "error", fmt.Sprintf("OTP dispatch to %s failed: %v", maskPhone(phone), err))
		return "", err
	}

	log.Info().Str("to", maskPhone(phone)).Str("message_id", messageID).Msg("OTP dispatched")
	recordEvent(ctx, s.events, EventOTPSent, "info", fmt.Sprintf("OTP sent to %s", maskPhone(phone)))
	return code, nil
}

// maskPhone keeps the last four digits of a phone number.
func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
