package model

import (
	"errors"
	"testing"
)

func TestDecodeActionComplete(t *testing.T) {
	act, err := DecodeAction([]byte(`{"action":"complete","block_id":"b1","date":"2026-09-01"}`), 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if act.Kind != ActionComplete || act.BlockID != "b1" || act.Date != "2026-09-01" {
		t.Fatalf("unexpected action: %#v", act)
	}
}

func TestDecodeActionSnoozeDefaultsDuration(t *testing.T) {
	act, err := DecodeAction([]byte(`{"action":"snooze","block_id":"b1","date":"2026-09-01"}`), 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if act.SnoozeMinutes != DefaultSnoozeMinutes {
		t.Fatalf("snooze minutes = %d, want default %d", act.SnoozeMinutes, DefaultSnoozeMinutes)
	}
}

func TestDecodeActionSnoozeConfiguredDefault(t *testing.T) {
	act, err := DecodeAction([]byte(`{"action":"snooze","block_id":"b1","date":"2026-09-01"}`), 20)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if act.SnoozeMinutes != 20 {
		t.Fatalf("snooze minutes = %d, want configured 20", act.SnoozeMinutes)
	}
}

func TestDecodeActionSnoozeExplicitDuration(t *testing.T) {
	act, err := DecodeAction([]byte(`{"action":"snooze","block_id":"b1","date":"2026-09-01","snooze_minutes":15}`), 20)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if act.SnoozeMinutes != 15 {
		t.Fatalf("snooze minutes = %d, want 15", act.SnoozeMinutes)
	}
}

func TestDecodeActionNormalizesCase(t *testing.T) {
	act, err := DecodeAction([]byte(`{"action":" Skip ","block_id":"b1","date":"2026-09-01"}`), 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if act.Kind != ActionSkip {
		t.Fatalf("kind = %q, want skip", act.Kind)
	}
}

func TestDecodeActionRejectsUnknownKind(t *testing.T) {
	_, err := DecodeAction([]byte(`{"action":"archive","block_id":"b1","date":"2026-09-01"}`), 0)
	if err == nil || !errors.Is(err, ErrInvalidActionKind) {
		t.Fatalf("expected ErrInvalidActionKind, got: %v", err)
	}
}

func TestDecodeActionRejectsMissingFields(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"no block id", `{"action":"complete","date":"2026-09-01"}`},
		{"bad date", `{"action":"complete","block_id":"b1","date":"tomorrow"}`},
		{"not json", `complete b1`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeAction([]byte(tc.raw), 0); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}
