package micconditioner

import "testing"

func TestDecide(t *testing.T) {
	cases := []struct {
		name           string
		muted          bool
		volume         float32
		wantUnmute     bool
		wantVolume     float32
	}{
		{"muted and below threshold", true, 0.0, true, DefaultVolume},
		{"muted but volume already ok", true, 0.5, true, 0},
		{"not muted but below threshold", false, 0.05, false, DefaultVolume},
		{"not muted and volume ok", false, 0.8, false, 0},
		{"volume exactly at threshold is not raised", false, VolumeThreshold, false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotUnmute, gotVolume := decide(tc.muted, tc.volume)
			if gotUnmute != tc.wantUnmute {
				t.Errorf("decide(%v, %v) unmute = %v, want %v", tc.muted, tc.volume, gotUnmute, tc.wantUnmute)
			}
			if gotVolume != tc.wantVolume {
				t.Errorf("decide(%v, %v) volume = %v, want %v", tc.muted, tc.volume, gotVolume, tc.wantVolume)
			}
		})
	}
}

func TestResultChanged(t *testing.T) {
	if (Result{}).Changed() {
		t.Fatal("zero Result should report unchanged")
	}
	if !(Result{UnmutedByUs: true}).Changed() {
		t.Fatal("UnmutedByUs should report changed")
	}
	if !(Result{VolumeRaisedTo: 0.8}).Changed() {
		t.Fatal("VolumeRaisedTo should report changed")
	}
}
