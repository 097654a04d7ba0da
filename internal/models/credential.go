package models

// GatewayCredential holds the SMS gateway account used to send OTP messages.
type GatewayCredential struct {
	ID          int64  `json:"id"`
	AccountSID  string `json:"accountSid"`
	AuthToken   string `json:"-"`
	PhoneNumber string `json:"phoneNumber"` // sender number
}
