package readterm

import "testing"

func TestFromPackedARGB8(t *testing.T) {
	got := FromPackedARGB8(0xff00ff00)
	if got != Green {
		t.Errorf("FromPackedARGB8(0xff00ff00) = %#v, want green", got)
	}

	got = FromPackedARGB8(0x80ff0000)
	want := FromRGBA8(0xff, 0, 0, 0x80)
	if got != want {
		t.Errorf("FromPackedARGB8(0x80ff0000) = %#v, want %#v", got, want)
	}
}

func TestFromRGB8IsOpaque(t *testing.T) {
	if got := FromRGB8(255, 255, 255); got != White {
		t.Errorf("FromRGB8(255, 255, 255) = %#v, want white", got)
	}
	if got := FromRGB8(0, 0, 0); got.Alpha != 1 {
		t.Errorf("alpha = %v, want 1", got.Alpha)
	}
}

func TestColor256(t *testing.T) {
	if got := Color256(1); got != ANSIColors[1] {
		t.Errorf("Color256(1) = %#v, want ANSI red", got)
	}
	// 196 is pure red in the 6x6x6 cube.
	if got := Color256(196); got != FromRGB8(255, 0, 0) {
		t.Errorf("Color256(196) = %#v, want red", got)
	}
	// 232 is the darkest gray in the ramp.
	if got := Color256(232); got != FromRGB8(8, 8, 8) {
		t.Errorf("Color256(232) = %#v", got)
	}
	// Out-of-range indexes clamp instead of panicking.
	if got := Color256(-5); got != ANSIColors[0] {
		t.Errorf("Color256(-5) = %#v, want black", got)
	}
	if got := Color256(999); got != FromRGB8(238, 238, 238) {
		t.Errorf("Color256(999) = %#v", got)
	}
}

func TestDefaultStyleIsBlack(t *testing.T) {
	if DefaultStyle().Color != Black {
		t.Errorf("DefaultStyle() = %#v", DefaultStyle())
	}
}
