package domain

import "fmt"

// APIKeyPrefix is the literal prefix every Pushbullet access token carries.
const APIKeyPrefix = "o."

// Device is a Pushbullet device record as returned by GET /devices.
type Device struct {
	Iden     string `json:"iden"`
	Active   bool   `json:"active"`
	HasSMS   bool   `json:"has_sms"`
	Nickname string `json:"nickname"`
}

// Eligible reports whether the device can be used to send an SMS.
func (d Device) Eligible() bool { return d.Active && d.HasSMS }

// DevicesResponse is the body of GET /devices.
type DevicesResponse struct {
	Devices []Device `json:"devices"`
}

// CurrentUser is the (partial) body of GET /users/me.
type CurrentUser struct {
	Iden  string `json:"iden"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// SmsRequest is the payload of POST /texts.
type SmsRequest struct {
	Data SmsData `json:"data"`
}

// SmsData is the inner object of SmsRequest.
type SmsData struct {
	TargetDeviceIden string   `json:"target_device_iden"`
	Addresses        []string `json:"addresses"`
	Message          string   `json:"message"`
}

// NewSmsRequest builds a request for a single destination address.
func NewSmsRequest(deviceIden, address, message string) SmsRequest {
	return SmsRequest{Data: SmsData{
		TargetDeviceIden: deviceIden,
		Addresses:        []string{address},
		Message:          message,
	}}
}

// ErrorResponse is the structured error envelope Pushbullet returns on failure.
type ErrorResponse struct {
	Error *ErrorDetail `json:"error"`
}

// ErrorDetail carries the remote error fields.
type ErrorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Cat     string `json:"cat"`
}

// SendOutcome is the reported result of a text send.
//
// A non-delivered outcome is not an error: the remote service answered and
// the caller only reports Message.
type SendOutcome struct {
	Delivered  bool
	StatusCode int
	Reason     string // HTTP reason phrase
	Message    string // remote error message, if the body carried one
}

// Summary renders the outcome the way it is shown to the user.
func (o SendOutcome) Summary() string {
	switch {
	case o.Delivered:
		return "SMS message sent successfully."
	case o.Message != "":
		return fmt.Sprintf("%s (HTTP %d)", o.Message, o.StatusCode)
	default:
		return fmt.Sprintf("HTTP %d - %s", o.StatusCode, o.Reason)
	}
}
