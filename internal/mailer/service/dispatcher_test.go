package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mrb1sh0p/email-mass-api/internal/mailer/domain"
)

// fakeTransport records sends and fails the addresses listed in failFor.
type fakeTransport struct {
	mu       sync.Mutex
	sent     []string
	inFlight int
	maxSeen  int
	failFor  map[string]bool
	delay    time.Duration
	verify   error
}

func (f *fakeTransport) Verify(ctx context.Context) error { return f.verify }

func (f *fakeTransport) Send(ctx context.Context, msg domain.Message) error {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxSeen {
		f.maxSeen = f.inFlight
	}
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.inFlight--
	f.sent = append(f.sent, msg.To)
	f.mu.Unlock()

	if f.failFor[msg.To] {
		return errors.New("550 mailbox unavailable")
	}
	return nil
}

func recipients(n int) []domain.ValidatedRecipient {
	out := make([]domain.ValidatedRecipient, n)
	for i := range out {
		out[i] = domain.ValidatedRecipient{Email: fmt.Sprintf("r%02d@example.com", i)}
	}
	return out
}

func TestDispatcher_ResultsInInputOrder(t *testing.T) {
	tr := &fakeTransport{}
	results, err := NewDispatcher().Dispatch(context.Background(), tr, "from@example.com",
		domain.Template{Title: "s", Body: "b"}, recipients(12))
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(results) != 12 {
		t.Fatalf("got %d results", len(results))
	}
	for i, r := range results {
		want := fmt.Sprintf("r%02d@example.com", i)
		if r.Email != want {
			t.Errorf("results[%d] = %s, want %s", i, r.Email, want)
		}
		if !r.Success {
			t.Errorf("results[%d] failed: %s", i, r.Error)
		}
	}
}

func TestDispatcher_BoundsConcurrency(t *testing.T) {
	tr := &fakeTransport{delay: 10 * time.Millisecond}
	if _, err := NewDispatcher().Dispatch(context.Background(), tr, "from@example.com",
		domain.Template{}, recipients(23)); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if tr.maxSeen > batchSize {
		t.Fatalf("saw %d concurrent sends, cap is %d", tr.maxSeen, batchSize)
	}
	if len(tr.sent) != 23 {
		t.Fatalf("sent %d, want 23", len(tr.sent))
	}
}

func TestDispatcher_PartialFailure(t *testing.T) {
	tr := &fakeTransport{failFor: map[string]bool{
		"r01@example.com": true,
		"r06@example.com": true,
	}}
	results, err := NewDispatcher().Dispatch(context.Background(), tr, "from@example.com",
		domain.Template{}, recipients(8))
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	var failed int
	for _, r := range results {
		if !r.Success {
			failed++
			if r.ErrorCode != domain.CodeEmailSendFailed {
				t.Errorf("%s: errorCode = %s", r.Email, r.ErrorCode)
			}
			if r.Error == "" {
				t.Errorf("%s: missing error message", r.Email)
			}
		}
	}
	if failed != 2 {
		t.Fatalf("failed = %d, want 2", failed)
	}
}

func TestDispatcher_CCsSenderOnEveryMessage(t *testing.T) {
	var mu sync.Mutex
	var ccs []string
	tr := transportFunc(func(ctx context.Context, msg domain.Message) error {
		mu.Lock()
		ccs = append(ccs, msg.CC)
		mu.Unlock()
		return nil
	})
	if _, err := NewDispatcher().Dispatch(context.Background(), tr, "sender@example.com",
		domain.Template{}, recipients(3)); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	for _, cc := range ccs {
		if cc != "sender@example.com" {
			t.Fatalf("cc = %q, want sender@example.com", cc)
		}
	}
}

func TestDispatcher_CancelledBetweenBatches(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tr := transportFunc(func(ctx context.Context, msg domain.Message) error {
		cancel()
		return nil
	})
	results, err := NewDispatcher().Dispatch(ctx, tr, "from@example.com",
		domain.Template{}, recipients(7))
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if len(results) != batchSize {
		t.Fatalf("got %d results, want the first batch of %d", len(results), batchSize)
	}
}

// transportFunc adapts a send function to the Transport interface.
type transportFunc func(ctx context.Context, msg domain.Message) error

func (f transportFunc) Verify(ctx context.Context) error { return nil }

func (f transportFunc) Send(ctx context.Context, msg domain.Message) error { return f(ctx, msg) }
