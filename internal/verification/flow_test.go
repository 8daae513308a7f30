package verification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/notegenius/server/internal/logging"
	"github.com/notegenius/server/internal/notification"
)

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []notification.Message
}

func (r *recordingNotifier) Send(_ context.Context, m notification.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, m)
	return nil
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.msgs)
}

// queueIssuer hands out codes in order, so tests can observe a resend
// replacing the previous challenge.
type queueIssuer struct {
	codes []string
	next  int
}

func (q *queueIssuer) Issue(Channel) string {
	code := q.codes[q.next]
	q.next++
	return code
}

func demoFlow(hook Hook) (*Flow, *recordingNotifier) {
	notifier := &recordingNotifier{}
	issuer := FixedIssuer{EmailCode: "123456", PhoneCode: "1234"}
	flow := NewFlow(DefaultRules(), issuer, notifier, logging.Discard(), 0, hook)
	return flow, notifier
}

func emailDraft() Draft {
	return Draft{Name: "Ava", Channel: ChannelEmail, Email: "ava@x.com"}
}

func TestEmailFlowVerifies(t *testing.T) {
	var gotIdentity *Identity
	flow, _ := demoFlow(func(_ context.Context, id Identity) {
		gotIdentity = &id
	})
	ctx := context.Background()

	res, err := flow.SubmitDetails(ctx, emailDraft())
	if err != nil {
		t.Fatalf("submit details: %v", err)
	}
	if res.State != StateAwaitingCode {
		t.Fatalf("expected awaiting_code, got %s", res.State)
	}
	if res.Message.Kind != MessageInfo {
		t.Fatalf("expected info message, got %+v", res.Message)
	}

	res, err = flow.SubmitCode(ctx, "123456")
	if err != nil {
		t.Fatalf("submit code: %v", err)
	}
	if res.State != StateVerified {
		t.Fatalf("expected verified, got %s", res.State)
	}
	if res.Identity == nil || res.Identity.Name != "Ava" || res.Identity.Email != "ava@x.com" {
		t.Fatalf("unexpected identity %+v", res.Identity)
	}
	if gotIdentity == nil || gotIdentity.Contact() != "ava@x.com" {
		t.Fatalf("hook not invoked with identity, got %+v", gotIdentity)
	}
}

func TestSubmitCodeMismatchKeepsState(t *testing.T) {
	flow, _ := demoFlow(nil)
	ctx := context.Background()

	if _, err := flow.SubmitDetails(ctx, emailDraft()); err != nil {
		t.Fatalf("submit details: %v", err)
	}

	res, err := flow.SubmitCode(ctx, "000000")
	if !errors.Is(err, ErrCodeMismatch) {
		t.Fatalf("expected code mismatch, got %v", err)
	}
	if res.State != StateAwaitingCode {
		t.Fatalf("expected awaiting_code after mismatch, got %s", res.State)
	}

	// The challenge survives a mismatch, so the right code still works.
	res, err = flow.SubmitCode(ctx, "123456")
	if err != nil {
		t.Fatalf("retry with correct code: %v", err)
	}
	if res.State != StateVerified {
		t.Fatalf("expected verified after retry, got %s", res.State)
	}
}

func TestSubmitCodeLengthPolicy(t *testing.T) {
	flow, _ := demoFlow(nil)
	ctx := context.Background()

	if _, err := flow.SubmitDetails(ctx, emailDraft()); err != nil {
		t.Fatalf("submit details: %v", err)
	}

	var badLen *CodeLengthError
	if _, err := flow.SubmitCode(ctx, "123"); !errors.As(err, &badLen) {
		t.Fatalf("expected CodeLengthError, got %v", err)
	}
	if badLen.Want != 6 {
		t.Fatalf("expected want=6, got %d", badLen.Want)
	}

	// Non-digits are filtered before the length check.
	if _, err := flow.SubmitCode(ctx, "12-34-56"); err != nil {
		t.Fatalf("expected masked candidate to verify, got %v", err)
	}
}

func TestSubmitCodeTruncatesOverlongInput(t *testing.T) {
	flow, _ := demoFlow(nil)
	ctx := context.Background()

	if _, err := flow.SubmitDetails(ctx, emailDraft()); err != nil {
		t.Fatalf("submit details: %v", err)
	}

	// Extra trailing digits are dropped, as the input mask does client-side.
	res, err := flow.SubmitCode(ctx, "1234567")
	if err != nil {
		t.Fatalf("expected truncated candidate to verify, got %v", err)
	}
	if res.State != StateVerified {
		t.Fatalf("expected verified, got %s", res.State)
	}
}

func TestSubmitDetailsValidationKeepsCollecting(t *testing.T) {
	flow, notifier := demoFlow(nil)
	ctx := context.Background()

	draft := Draft{Name: "Ava", Channel: ChannelPhone, CountryCode: "+91"}
	res, err := flow.SubmitDetails(ctx, draft)
	assertMissingField(t, err, "phone_number")
	if res.State != StateCollectingDetails {
		t.Fatalf("expected collecting_details, got %s", res.State)
	}
	if got := flow.Snapshot().State; got != StateCollectingDetails {
		t.Fatalf("expected snapshot collecting_details, got %s", got)
	}
	if notifier.count() != 0 {
		t.Fatalf("expected no delivery, got %d", notifier.count())
	}
}

func TestResendReplacesChallenge(t *testing.T) {
	notifier := &recordingNotifier{}
	issuer := &queueIssuer{codes: []string{"111111", "222222"}}
	flow := NewFlow(DefaultRules(), issuer, notifier, logging.Discard(), 0, nil)
	ctx := context.Background()

	if _, err := flow.SubmitDetails(ctx, emailDraft()); err != nil {
		t.Fatalf("submit details: %v", err)
	}
	if _, err := flow.Resend(ctx); err != nil {
		t.Fatalf("resend: %v", err)
	}

	if _, err := flow.SubmitCode(ctx, "111111"); !errors.Is(err, ErrCodeMismatch) {
		t.Fatalf("expected replaced code to stop matching, got %v", err)
	}
	res, err := flow.SubmitCode(ctx, "222222")
	if err != nil {
		t.Fatalf("submit replacement code: %v", err)
	}
	if res.State != StateVerified {
		t.Fatalf("expected verified, got %s", res.State)
	}
}

func TestGoBackPreservesDraft(t *testing.T) {
	flow, _ := demoFlow(nil)
	ctx := context.Background()

	if _, err := flow.SubmitDetails(ctx, emailDraft()); err != nil {
		t.Fatalf("submit details: %v", err)
	}
	res, err := flow.GoBack(ctx)
	if err != nil {
		t.Fatalf("go back: %v", err)
	}
	if res.State != StateCollectingDetails {
		t.Fatalf("expected collecting_details, got %s", res.State)
	}

	snap := flow.Snapshot()
	if snap.Draft.Email != "ava@x.com" || snap.Draft.Name != "Ava" {
		t.Fatalf("expected draft preserved, got %+v", snap.Draft)
	}

	// The challenge is gone, so a code submission is no longer legal.
	var invalid *InvalidTransitionError
	if _, err := flow.SubmitCode(ctx, "123456"); !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}

	// Editing and resubmitting restarts the challenge.
	if _, err := flow.SubmitDetails(ctx, emailDraft()); err != nil {
		t.Fatalf("resubmit details: %v", err)
	}
}

func TestIllegalTransitions(t *testing.T) {
	flow, _ := demoFlow(nil)
	ctx := context.Background()

	var invalid *InvalidTransitionError
	if _, err := flow.Resend(ctx); !errors.As(err, &invalid) {
		t.Fatalf("expected resend to be illegal before details, got %v", err)
	}
	if _, err := flow.GoBack(ctx); !errors.As(err, &invalid) {
		t.Fatalf("expected go back to be illegal before details, got %v", err)
	}
	if _, err := flow.SubmitCode(ctx, "123456"); !errors.As(err, &invalid) {
		t.Fatalf("expected submit code to be illegal before details, got %v", err)
	}

	if _, err := flow.SubmitDetails(ctx, emailDraft()); err != nil {
		t.Fatalf("submit details: %v", err)
	}
	if _, err := flow.SubmitCode(ctx, "123456"); err != nil {
		t.Fatalf("submit code: %v", err)
	}
	if _, err := flow.SubmitCode(ctx, "123456"); !errors.As(err, &invalid) {
		t.Fatalf("expected verified to be terminal, got %v", err)
	}
}

func TestDeliveryArrives(t *testing.T) {
	flow, notifier := demoFlow(nil)

	if _, err := flow.SubmitDetails(context.Background(), emailDraft()); err != nil {
		t.Fatalf("submit details: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for notifier.count() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("delivery never arrived")
		}
		time.Sleep(5 * time.Millisecond)
	}

	notifier.mu.Lock()
	msg := notifier.msgs[0]
	notifier.mu.Unlock()
	if msg.Kind != notification.KindEmailCode || msg.Recipient != "ava@x.com" {
		t.Fatalf("unexpected delivery %+v", msg)
	}
}

func TestGoBackSupersedesPendingDelivery(t *testing.T) {
	notifier := &recordingNotifier{}
	issuer := FixedIssuer{EmailCode: "123456", PhoneCode: "1234"}
	flow := NewFlow(DefaultRules(), issuer, notifier, logging.Discard(), 50*time.Millisecond, nil)
	ctx := context.Background()

	if _, err := flow.SubmitDetails(ctx, emailDraft()); err != nil {
		t.Fatalf("submit details: %v", err)
	}
	if _, err := flow.GoBack(ctx); err != nil {
		t.Fatalf("go back: %v", err)
	}

	time.Sleep(150 * time.Millisecond)
	if notifier.count() != 0 {
		t.Fatalf("expected stale delivery to be dropped, got %d deliveries", notifier.count())
	}
}

func TestPhoneFlowVerifies(t *testing.T) {
	flow, _ := demoFlow(nil)
	ctx := context.Background()

	draft := Draft{Name: "Ravi", Channel: ChannelPhone, CountryCode: "+91", PhoneNumber: "98765 43210"}
	if _, err := flow.SubmitDetails(ctx, draft); err != nil {
		t.Fatalf("submit details: %v", err)
	}

	res, err := flow.SubmitCode(ctx, "1234")
	if err != nil {
		t.Fatalf("submit code: %v", err)
	}
	if res.State != StateVerified {
		t.Fatalf("expected verified, got %s", res.State)
	}
	if got := res.Identity.Contact(); got != "+91 9876543210" {
		t.Fatalf("expected contact '+91 9876543210', got %q", got)
	}
}
