package verification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/notegenius/server/internal/notification"
)

// Hook is invoked exactly once, when the flow enters the verified state.
type Hook func(ctx context.Context, identity Identity)

// Flow is one verification attempt: it owns the step sequence, triggers code
// issuance, validates submitted codes, and drives the transition to success
// or back to input. State is owned exclusively by the flow for the lifetime
// of the attempt.
type Flow struct {
	rules      Rules
	issuer     Issuer
	notifier   notification.Notifier
	logger     *slog.Logger
	delay      time.Duration
	onVerified Hook

	mu        sync.Mutex
	state     State
	draft     Draft
	challenge *Challenge
	seq       uint64
}

// NewFlow creates a flow in the collecting_details state.
func NewFlow(rules Rules, issuer Issuer, notifier notification.Notifier, logger *slog.Logger, delay time.Duration, onVerified Hook) *Flow {
	return &Flow{
		rules:      rules,
		issuer:     issuer,
		notifier:   notifier,
		logger:     logger,
		delay:      delay,
		onVerified: onVerified,
		state:      StateCollectingDetails,
	}
}

// Snapshot is a read-only view of the flow for rendering step-specific UI.
type Snapshot struct {
	State State
	Draft Draft
}

// Snapshot returns the current state and draft.
func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Snapshot{State: f.state, Draft: f.draft}
}

// SubmitDetails validates the draft, issues a challenge, and moves to
// awaiting_code. A validation failure keeps the flow in collecting_details
// and names the missing field.
func (f *Flow) SubmitDetails(ctx context.Context, draft Draft) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateCollectingDetails {
		return Result{State: f.state}, &InvalidTransitionError{Op: "submit details", State: f.state}
	}

	draft.PhoneNumber = DigitsOnly(draft.PhoneNumber)
	if err := f.rules.Validate(draft); err != nil {
		return Result{State: f.state}, err
	}

	f.draft = draft
	if err := f.issueLocked(); err != nil {
		return Result{State: f.state}, err
	}
	f.state = StateAwaitingCode

	return Result{State: f.state, Message: sentMessage(draft.Channel)}, nil
}

// SubmitCode compares the candidate against the stored challenge. The
// candidate is digit-filtered and truncated to the expected length first,
// mirroring the client-side input mask. A match moves the flow to verified
// and fires the outcome hook; a mismatch leaves the draft and challenge in
// place so the user may retry.
func (f *Flow) SubmitCode(ctx context.Context, candidate string) (Result, error) {
	f.mu.Lock()

	if f.state != StateAwaitingCode || f.challenge == nil {
		state := f.state
		f.mu.Unlock()
		return Result{State: state}, &InvalidTransitionError{Op: "submit code", State: state}
	}

	ch := f.challenge.Channel
	want := CodeLength(ch)
	candidate = DigitsOnly(candidate)
	if len(candidate) > want {
		candidate = candidate[:want]
	}
	if len(candidate) < want {
		f.mu.Unlock()
		return Result{State: StateAwaitingCode}, &CodeLengthError{Channel: ch, Want: want}
	}

	if bcrypt.CompareHashAndPassword(f.challenge.codeHash, []byte(candidate)) != nil {
		f.mu.Unlock()
		return Result{State: StateAwaitingCode}, ErrCodeMismatch
	}

	f.state = StateVerified
	f.challenge = nil
	f.seq++ // any in-flight delivery becomes a no-op
	identity := f.draft.Identity()
	hook := f.onVerified
	f.mu.Unlock()

	if hook != nil {
		hook(ctx, identity)
	}

	return Result{State: StateVerified, Message: verifiedMessage(ch), Identity: &identity}, nil
}

// Resend replaces the stored challenge with a freshly issued one and
// re-dispatches delivery. Only legal while awaiting a code.
func (f *Flow) Resend(ctx context.Context) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateAwaitingCode {
		return Result{State: f.state}, &InvalidTransitionError{Op: "resend", State: f.state}
	}

	if err := f.issueLocked(); err != nil {
		return Result{State: f.state}, err
	}
	return Result{State: f.state, Message: sentMessage(f.draft.Channel)}, nil
}

// GoBack discards the stored challenge and returns to collecting_details.
// The draft is preserved for editing.
func (f *Flow) GoBack(ctx context.Context) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateAwaitingCode {
		return Result{State: f.state}, &InvalidTransitionError{Op: "go back", State: f.state}
	}

	f.challenge = nil
	f.seq++
	f.state = StateCollectingDetails
	return Result{State: f.state}, nil
}

// issueLocked generates a code, stores its hash as the current challenge,
// and schedules delivery. Caller holds f.mu.
func (f *Flow) issueLocked() error {
	code := f.issuer.Issue(f.draft.Channel)
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	f.challenge = &Challenge{
		codeHash: hash,
		Channel:  f.draft.Channel,
		IssuedAt: time.Now().UTC(),
	}

	f.seq++
	seq := f.seq
	msg := deliveryMessage(f.draft, code)

	// Delivery is simulated: it always succeeds after a fixed delay. If the
	// challenge was replaced or abandoned in the meantime, the completion is
	// a no-op.
	go func() {
		if f.delay > 0 {
			time.Sleep(f.delay)
		}

		f.mu.Lock()
		stale := seq != f.seq || f.state != StateAwaitingCode
		f.mu.Unlock()
		if stale {
			if f.logger != nil {
				f.logger.Debug("code delivery superseded", slog.String("recipient", msg.Recipient))
			}
			return
		}

		if err := f.notifier.Send(context.Background(), msg); err != nil && f.logger != nil {
			f.logger.Warn("code delivery failed", slog.String("recipient", msg.Recipient), slog.Any("error", err))
		}
	}()

	return nil
}

func deliveryMessage(d Draft, code string) notification.Message {
	if d.Channel == ChannelPhone {
		return notification.Message{
			Kind:      notification.KindSMSCode,
			Recipient: d.CountryCode + " " + DigitsOnly(d.PhoneNumber),
			Body:      "Your NoteGenius OTP is " + code,
		}
	}
	return notification.Message{
		Kind:      notification.KindEmailCode,
		Recipient: d.Email,
		Body:      "Your NoteGenius verification code is " + code,
	}
}
