package sms

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type stubAPI struct {
	params *twilioapi.CreateMessageParams
	sid    string
	err    error
	calls  int
}

func (s *stubAPI) CreateMessage(params *twilioapi.CreateMessageParams) (*twilioapi.ApiV2010Message, error) {
	s.calls++
	s.params = params
	if s.err != nil {
		return nil, s.err
	}
	sid := s.sid
	return &twilioapi.ApiV2010Message{Sid: &sid}, nil
}

func TestTwilioSenderSend(t *testing.T) {
	api := &stubAPI{sid: "SM123"}
	sender := &TwilioSender{api: api}

	id, err := sender.Send(context.Background(), "+15550001111", "+919876543210", "Your OTP is 123456")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if id != "SM123" {
		t.Fatalf("expected SM123 got %s", id)
	}
	if *api.params.From != "+15550001111" || *api.params.To != "+919876543210" || *api.params.Body != "Your OTP is 123456" {
		t.Fatalf("unexpected params: from=%s to=%s body=%s", *api.params.From, *api.params.To, *api.params.Body)
	}
}

func TestTwilioSenderWrapsGatewayError(t *testing.T) {
	gatewayErr := errors.New("authenticate: 401")
	sender := &TwilioSender{api: &stubAPI{err: gatewayErr}}

	_, err := sender.Send(context.Background(), "+1", "+91", "x")
	if !errors.Is(err, gatewayErr) {
		t.Fatalf("expected wrapped gateway error, got %v", err)
	}
}

func TestTwilioSenderSkipsCallOnCanceledContext(t *testing.T) {
	api := &stubAPI{sid: "SM1"}
	sender := &TwilioSender{api: api}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := sender.Send(ctx, "+1", "+91", "x"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if api.calls != 0 {
		t.Fatalf("expected no gateway call, got %d", api.calls)
	}
}

func TestLogSenderWritesMessage(t *testing.T) {
	var buf bytes.Buffer
	sender := NewLogSender(zerolog.New(&buf))

	id, err := sender.Send(context.Background(), "+1555", "+919876543210", "Your OTP is 654321")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.HasPrefix(id, "log-") {
		t.Fatalf("unexpected id %q", id)
	}
	if !strings.Contains(buf.String(), "+919876543210") {
		t.Fatalf("expected destination in log output: %s", buf.String())
	}
}
