package weavetest

import (
	"testing"

	pool "github.com/iov-one/pool"
	"github.com/iov-one/pool/errors"
)

func TestSuccessfulDecorator(t *testing.T) {
	var (
		d Decorator
		h Handler
	)

	_, _ = d.Check(nil, nil, nil, &h)
	assertHCounts(t, &h, 1, 0)

	_, _ = d.Deliver(nil, nil, nil, &h)
	assertHCounts(t, &h, 1, 1)
}

func TestDecoratorWithError(t *testing.T) {
	d := Decorator{
		CheckErr:   errors.ErrUnauthorized,
		DeliverErr: errors.ErrNotFound,
	}

	// When using an error returning decorator, handler is never called.
	// Otherwise using nil would panic.
	var handler pool.Handler

	_, err := d.Check(nil, nil, nil, handler)
	if want := errors.ErrUnauthorized; !want.Is(err) {
		t.Errorf("want %q, got %q", want, err)
	}

	_, err = d.Deliver(nil, nil, nil, handler)
	if want := errors.ErrNotFound; !want.Is(err) {
		t.Errorf("want %q, got %q", want, err)
	}
}

func TestDecorate(t *testing.T) {
	var (
		d Decorator
		h Handler
	)
	handler := Decorate(&h, &d)

	_, _ = handler.Check(nil, nil, nil)
	_, _ = handler.Deliver(nil, nil, nil)
	_, _ = handler.Deliver(nil, nil, nil)

	if d.CheckCallCount() != 1 || d.DeliverCallCount() != 2 {
		t.Fatalf("unexpected decorator calls: %d, %d", d.CheckCallCount(), d.DeliverCallCount())
	}
	assertHCounts(t, &h, 1, 2)
	if h.CallCount() != 3 {
		t.Fatalf("want 3 calls, got %d", h.CallCount())
	}
}

func TestHandlerErrors(t *testing.T) {
	h := Handler{
		CheckErr:   errors.ErrInvalidInput,
		DeliverErr: errors.ErrInvalidState,
	}
	if _, err := h.Check(nil, nil, nil); !errors.ErrInvalidInput.Is(err) {
		t.Fatalf("unexpected check error: %v", err)
	}
	if _, err := h.Deliver(nil, nil, nil); !errors.ErrInvalidState.Is(err) {
		t.Fatalf("unexpected deliver error: %v", err)
	}
}

func TestAuth(t *testing.T) {
	a, b, c := NewCondition(), NewCondition(), NewCondition()
	auth := &Auth{Signer: a, Signers: []pool.Condition{b}}

	if !auth.HasAddress(nil, a.Address()) || !auth.HasAddress(nil, b.Address()) {
		t.Fatal("declared signers must be authenticated")
	}
	if auth.HasAddress(nil, c.Address()) {
		t.Fatal("unknown signer must not be authenticated")
	}
	if n := len(auth.GetConditions(nil)); n != 2 {
		t.Fatalf("want 2 conditions, got %d", n)
	}
}

func assertHCounts(t testing.TB, h *Handler, wantCheck, wantDeliver int) {
	t.Helper()
	if got := h.CheckCallCount(); got != wantCheck {
		t.Errorf("want %d check calls, got %d", wantCheck, got)
	}
	if got := h.DeliverCallCount(); got != wantDeliver {
		t.Errorf("want %d deliver calls, got %d", wantDeliver, got)
	}
}
