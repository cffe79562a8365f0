package toast_test

import (
	"testing"

	"github.com/vango-dev/storefront/pkg/toast"
)

type emitted struct {
	name string
	data map[string]string
}

type recorder struct {
	events []emitted
}

func (r *recorder) Emit(name string, data map[string]string) {
	r.events = append(r.events, emitted{name, data})
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name  string
		show  func(toast.Emitter, string)
		level toast.Type
	}{
		{"success", toast.Success, toast.TypeSuccess},
		{"error", toast.Error, toast.TypeError},
		{"warning", toast.Warning, toast.TypeWarning},
		{"info", toast.Info, toast.TypeInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			tt.show(rec, "hello")
			if len(rec.events) != 1 {
				t.Fatalf("expected 1 event, got %d", len(rec.events))
			}
			ev := rec.events[0]
			if ev.name != toast.EventName {
				t.Errorf("name = %q, want %q", ev.name, toast.EventName)
			}
			if ev.data["level"] != string(tt.level) {
				t.Errorf("level = %q, want %q", ev.data["level"], tt.level)
			}
			if ev.data["message"] != "hello" {
				t.Errorf("message = %q", ev.data["message"])
			}
		})
	}
}

func TestWithTitle(t *testing.T) {
	rec := &recorder{}
	toast.WithTitle(rec, toast.TypeSuccess, "Order placed", "Thanks!")

	if len(rec.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(rec.events))
	}
	data := rec.events[0].data
	if data["title"] != "Order placed" || data["message"] != "Thanks!" {
		t.Errorf("data = %v", data)
	}
}

func TestShow_SkipsEmpty(t *testing.T) {
	rec := &recorder{}
	toast.Show(rec, toast.TypeInfo, "")
	if len(rec.events) != 0 {
		t.Errorf("expected no events, got %d", len(rec.events))
	}

	// A nil emitter is ignored.
	toast.Success(nil, "ignored")
}
