package verification

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Channel is the delivery method for a verification code.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelPhone Channel = "phone"
)

// ParseChannel converts a wire value into a Channel.
func ParseChannel(s string) (Channel, bool) {
	switch Channel(strings.ToLower(strings.TrimSpace(s))) {
	case ChannelEmail:
		return ChannelEmail, true
	case ChannelPhone:
		return ChannelPhone, true
	default:
		return "", false
	}
}

// State is the position of the verification state machine.
type State string

const (
	StateCollectingDetails State = "collecting_details"
	StateAwaitingCode      State = "awaiting_code"
	StateVerified          State = "verified"
)

// Draft holds the user-entered, not-yet-verified profile data. Exactly one
// contact method is populated, matching Channel.
type Draft struct {
	Name        string
	Channel     Channel
	Email       string
	CountryCode string
	PhoneNumber string
}

// Identity returns the finalized identity record for a draft that passed
// verification.
func (d Draft) Identity() Identity {
	return Identity{
		Name:        strings.TrimSpace(d.Name),
		Channel:     d.Channel,
		Email:       strings.TrimSpace(d.Email),
		CountryCode: d.CountryCode,
		PhoneNumber: DigitsOnly(d.PhoneNumber),
	}
}

// Identity is the verified counterpart of a Draft, handed to the session
// outcome handler.
type Identity struct {
	Name        string
	Channel     Channel
	Email       string
	CountryCode string
	PhoneNumber string
}

// Contact returns the verified contact value for display and delivery.
func (id Identity) Contact() string {
	if id.Channel == ChannelPhone {
		return id.CountryCode + " " + id.PhoneNumber
	}
	return id.Email
}

// MaskedContact returns the contact value with most characters hidden, for
// surfaces that have not proven ownership of the contact.
func (id Identity) MaskedContact() string {
	if id.Channel == ChannelPhone {
		return id.CountryCode + " " + maskDigits(id.PhoneNumber)
	}
	return maskEmail(id.Email)
}

func maskDigits(digits string) string {
	const visible = 4
	if len(digits) <= visible {
		return strings.Repeat("*", len(digits))
	}
	return strings.Repeat("*", len(digits)-visible) + digits[len(digits)-visible:]
}

func maskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	local := []rune(email[:at])
	return string(local[0]) + "***" + email[at:]
}

// Challenge is an issued code held until consumed or replaced. Only a bcrypt
// hash of the code is kept; the plaintext leaves the process through the
// notifier at issuance time.
type Challenge struct {
	codeHash []byte
	Channel  Channel
	IssuedAt time.Time
}

// Message kinds for transient user-facing messages.
const (
	MessageInfo  = "info"
	MessageError = "error"
)

// Message is a transient user-facing message carried in API responses.
type Message struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// Result reports the state machine's position after an operation, together
// with the message to surface. Identity is set once the flow is verified.
type Result struct {
	State    State
	Message  Message
	Identity *Identity
}

// ErrCodeMismatch is returned when a submitted code does not match the
// stored challenge. The draft and challenge survive so the user may retry.
var ErrCodeMismatch = errors.New("verification code mismatch")

// ErrSessionNotFound is returned for unknown verification session ids.
var ErrSessionNotFound = errors.New("verification session not found")

// MissingFieldError names the first required field the draft left empty.
// Field uses the wire spelling so the client knows exactly what to fix.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "missing field: " + e.Field
}

// UnknownCountryCodeError is returned when the country code is not in the
// catalog.
type UnknownCountryCodeError struct {
	Code string
}

func (e *UnknownCountryCodeError) Error() string {
	return fmt.Sprintf("unknown country code %q", e.Code)
}

// UnsupportedChannelError is returned when the chosen channel is disabled by
// the active rules.
type UnsupportedChannelError struct {
	Channel Channel
}

func (e *UnsupportedChannelError) Error() string {
	return fmt.Sprintf("channel %q is not available", e.Channel)
}

// CodeLengthError is returned when the candidate, after digit filtering and
// truncation, is shorter than the expected length.
type CodeLengthError struct {
	Channel Channel
	Want    int
}

func (e *CodeLengthError) Error() string {
	return fmt.Sprintf("expected a %d-digit code", e.Want)
}

// InvalidTransitionError is returned when an operation is not legal in the
// flow's current state.
type InvalidTransitionError struct {
	Op    string
	State State
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s in state %s", e.Op, e.State)
}

// DigitsOnly strips every non-decimal-digit rune, mirroring the input mask
// applied on the client.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// UserMessage maps a flow outcome error to the text shown to the user.
func UserMessage(err error, ch Channel) Message {
	var missing *MissingFieldError
	var badLen *CodeLengthError
	var unknownCC *UnknownCountryCodeError
	var unsupported *UnsupportedChannelError

	switch {
	case errors.As(err, &missing):
		return Message{Kind: MessageError, Text: missingFieldText(missing.Field)}
	case errors.As(err, &badLen):
		if badLen.Channel == ChannelPhone {
			return Message{Kind: MessageError, Text: "Please enter the 4-digit OTP"}
		}
		return Message{Kind: MessageError, Text: "Please enter the 6-digit verification code"}
	case errors.As(err, &unknownCC):
		return Message{Kind: MessageError, Text: "Please select a valid country code"}
	case errors.As(err, &unsupported):
		return Message{Kind: MessageError, Text: "This verification method is not available"}
	case errors.Is(err, ErrCodeMismatch):
		if ch == ChannelPhone {
			return Message{Kind: MessageError, Text: "Invalid OTP"}
		}
		return Message{Kind: MessageError, Text: "Invalid verification code"}
	default:
		return Message{Kind: MessageError, Text: err.Error()}
	}
}

func missingFieldText(field string) string {
	switch field {
	case "name":
		return "Please enter your name"
	case "channel":
		return "Please choose a verification method"
	case "email":
		return "Please enter your email address"
	case "country_code":
		return "Please select your country code"
	case "phone_number":
		return "Please enter your phone number"
	default:
		return "Please fill in the required fields"
	}
}

func sentMessage(ch Channel) Message {
	if ch == ChannelPhone {
		return Message{Kind: MessageInfo, Text: "OTP sent to your phone!"}
	}
	return Message{Kind: MessageInfo, Text: "Verification code sent to your email!"}
}

func verifiedMessage(ch Channel) Message {
	if ch == ChannelPhone {
		return Message{Kind: MessageInfo, Text: "Phone verified successfully!"}
	}
	return Message{Kind: MessageInfo, Text: "Email verified successfully!"}
}
