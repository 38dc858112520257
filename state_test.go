package sense

import "testing"

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "idle"},
		{StateProbing, "probing"},
		{StateUnsupported, "unsupported"},
		{StateReady, "ready"},
		{StateSubscribed, "subscribed"},
		{StateTornDown, "torn_down"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestState_String_Unknown(t *testing.T) {
	unknown := State(999)
	if s := unknown.String(); s != "unknown" {
		t.Errorf("expected 'unknown', got %q", s)
	}
}

func TestState_Values(t *testing.T) {
	// Verify iota ordering
	if StateIdle != 0 {
		t.Errorf("expected StateIdle=0, got %d", StateIdle)
	}
	if StateTornDown != 5 {
		t.Errorf("expected StateTornDown=5, got %d", StateTornDown)
	}
}
