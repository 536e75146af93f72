package audio

import "testing"

func TestCounter(t *testing.T) {
	var c Counter
	c.Play(Fired)
	c.Play(Fired)
	c.Play(Explosion)
	c.Play(Event(99))

	if c.Count(Fired) != 2 || c.Count(Explosion) != 1 || c.Count(Pickup) != 0 {
		t.Errorf("counts = fired %d explosion %d pickup %d, want 2 1 0",
			c.Count(Fired), c.Count(Explosion), c.Count(Pickup))
	}
}

func TestSynthWithoutSpeaker(t *testing.T) {
	s := NewSynth(0, 0.5)
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Synth panicked without initialization: %v", r)
		}
	}()
	for e := Event(0); e < eventCount; e++ {
		s.Play(e)
	}
	s.SetMuted(true)
	s.Close()
}

func TestSynthSounds(t *testing.T) {
	s := NewSynth(8000, 1)
	for e := Event(0); e < eventCount; e++ {
		if s.sound(e) == nil {
			t.Errorf("no sound for %v", e)
		}
	}
	if s.sound(eventCount) != nil {
		t.Error("sound for an unknown event")
	}
}

func TestNoiseDecays(t *testing.T) {
	n := newNoise(1000, 10_000_000) // 10 ms at 1 kHz
	buf := make([][2]float64, 64)
	got, ok := n.Stream(buf)
	if got != 10 || !ok {
		t.Fatalf("Stream = %d, %v; want 10 samples", got, ok)
	}
	if got, ok := n.Stream(buf); got != 0 || ok {
		t.Errorf("exhausted Stream = %d, %v; want 0, false", got, ok)
	}
}
