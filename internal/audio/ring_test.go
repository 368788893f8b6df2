package audio

import "testing"

func TestRingCapEnforcement(t *testing.T) {
	r := NewRing()
	block := make([]float32, 16000) // 1 second
	for i := 0; i < MaxSeconds+1; i++ {
		r.Append(block)
	}
	if got := r.Len(); got != MaxSamples {
		t.Fatalf("ring length = %d, want exactly %d", got, MaxSamples)
	}
	select {
	case <-r.CapSignal():
	default:
		t.Fatal("expected CapSignal to fire once capacity was reached")
	}
}

func TestRingCapSignalFiresOnlyOnce(t *testing.T) {
	r := NewRing()
	block := make([]float32, MaxSamples)
	r.Append(block)
	r.Append([]float32{1, 2, 3}) // further appends past cap must not re-signal
	fired := 0
	for {
		select {
		case <-r.CapSignal():
			fired++
		default:
			if fired != 1 {
				t.Fatalf("CapSignal fired %d times, want exactly 1", fired)
			}
			return
		}
	}
}

func TestRingTakeResets(t *testing.T) {
	r := NewRing()
	r.Append([]float32{1, 2, 3})
	got := r.Take()
	if len(got) != 3 {
		t.Fatalf("Take() len = %d, want 3", len(got))
	}
	if r.Len() != 0 {
		t.Fatalf("ring should be reset after Take, len = %d", r.Len())
	}
}

func TestRingLevelReflectsRMS(t *testing.T) {
	r := NewRing()
	r.UpdateLevel([]float32{1, -1, 1, -1})
	if lvl := r.Level(); lvl < 0.99 || lvl > 1.01 {
		t.Fatalf("Level() = %v, want ~1.0", lvl)
	}
}
