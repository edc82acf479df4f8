package notify

import (
	"testing"
	"time"

	"github.com/astrasemi/astrasemi/internal/model"
)

func TestShowPreservesArrivalOrder(t *testing.T) {
	h := NewHub(time.Minute)
	defer h.Close()

	h.Show("one", model.SeverityInfo)
	h.Show("two", model.SeverityError)
	h.Show("one", model.SeverityInfo) // identical text, distinct identity

	active := h.Active()
	if len(active) != 3 {
		t.Fatalf("active = %d, want 3", len(active))
	}
	if active[0].Text != "one" || active[1].Text != "two" || active[2].Text != "one" {
		t.Errorf("order = %q,%q,%q", active[0].Text, active[1].Text, active[2].Text)
	}
	if active[0].ID == active[2].ID {
		t.Error("two toasts share identity")
	}
}

func TestAutoDismissAfterTTL(t *testing.T) {
	h := NewHub(30 * time.Millisecond)
	defer h.Close()

	h.Show("transient", model.SeveritySuccess)
	if len(h.Active()) != 1 {
		t.Fatal("toast not shown")
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(h.Active()) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("toast never auto-dismissed")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestEarlyDismissCancelsTimer(t *testing.T) {
	h := NewHub(50 * time.Millisecond)
	defer h.Close()

	toast := h.Show("bye", model.SeverityWarning)
	h.Dismiss(toast.ID)
	if len(h.Active()) != 0 {
		t.Fatal("toast still active after dismiss")
	}

	// Double dismissal and post-timer firing must both be harmless.
	h.Dismiss(toast.ID)
	time.Sleep(80 * time.Millisecond)
	if len(h.Active()) != 0 {
		t.Error("toast reappeared")
	}
}

func TestSubscribeReceivesShowAndDismiss(t *testing.T) {
	h := NewHub(time.Minute)
	defer h.Close()

	id, ch := h.Subscribe()
	defer h.Unsubscribe(id)

	toast := h.Success("done")
	h.Dismiss(toast.ID)

	ev := <-ch
	if ev.Type != EventShow || ev.Toast.ID != toast.ID {
		t.Errorf("first event = %+v", ev)
	}
	ev = <-ch
	if ev.Type != EventDismiss || ev.Toast.ID != toast.ID {
		t.Errorf("second event = %+v", ev)
	}
}

func TestSeverityShorthands(t *testing.T) {
	h := NewHub(time.Minute)
	defer h.Close()

	if got := h.Error("x").Severity; got != model.SeverityError {
		t.Errorf("Error severity = %q", got)
	}
	if got := h.Info("x").Severity; got != model.SeverityInfo {
		t.Errorf("Info severity = %q", got)
	}
}
