package core

import "testing"

func TestInputFrame(t *testing.T) {
	f := NewInputFrame()
	if !f.Empty() {
		t.Fatal("new frame should be empty")
	}

	f.Set(ActionLeft)
	f.Set(ActionConfirm)
	f.Click(Point{X: 3, Y: 4})

	if !f.Has(ActionLeft) || !f.Has(ActionConfirm) {
		t.Error("Has() should report set actions")
	}
	if f.Has(ActionHint) {
		t.Error("Has(ActionHint) = true for an unset action")
	}
	if len(f.Clicks) != 1 || f.Clicks[0] != (Point{X: 3, Y: 4}) {
		t.Errorf("Clicks = %v", f.Clicks)
	}

	f.Clear()
	if !f.Empty() {
		t.Errorf("frame not empty after Clear: %+v", f)
	}
}

func TestInputFrameZeroValue(t *testing.T) {
	var f InputFrame
	if f.Has(ActionUp) {
		t.Error("zero frame should have no actions")
	}
	f.Set(ActionUp)
	if !f.Has(ActionUp) {
		t.Error("Set on a zero frame should allocate")
	}
}

func TestActionString(t *testing.T) {
	tests := []struct {
		a    Action
		want string
	}{
		{ActionNone, "None"},
		{ActionRight, "Right"},
		{ActionHint, "Hint"},
		{ActionPause, "Pause"},
		{Action(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.a.String(); got != tt.want {
			t.Errorf("Action(%d).String() = %q, want %q", int(tt.a), got, tt.want)
		}
	}
}
