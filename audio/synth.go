package audio

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

// Synth plays synthesized effects through the speaker.
// Every method is safe to call before Init or after Init failed.
type Synth struct {
	mu          sync.Mutex
	rate        beep.SampleRate
	volume      float64
	mixer       *beep.Mixer
	initialized bool
	muted       bool
}

// NewSynth creates a synth at the given sample rate and master volume in [0, 1].
func NewSynth(sampleRate int, volume float64) *Synth {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	return &Synth{
		rate:   beep.SampleRate(sampleRate),
		volume: volume,
		mixer:  &beep.Mixer{},
	}
}

// Init opens the speaker. A second call is a no-op.
func (s *Synth) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := speaker.Init(s.rate, s.rate.N(50*time.Millisecond)); err != nil {
		return fmt.Errorf("initializing speaker: %w", err)
	}
	speaker.Play(s.mixer)
	s.initialized = true
	return nil
}

// SetMuted silences or restores playback.
func (s *Synth) SetMuted(muted bool) {
	s.mu.Lock()
	s.muted = muted
	s.mu.Unlock()
}

// Play queues the sound for e on the mixer.
func (s *Synth) Play(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized || s.muted {
		return
	}
	st := s.sound(e)
	if st == nil {
		return
	}
	speaker.Lock()
	s.mixer.Add(st)
	speaker.Unlock()
}

// Close stops every sound.
func (s *Synth) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
	s.initialized = false
}

func (s *Synth) sound(e Event) beep.Streamer {
	switch e {
	case Fired:
		return s.tone(1320, 30*time.Millisecond, 0.3)
	case Hit:
		return s.tone(220, 60*time.Millisecond, 0.5)
	case Pickup:
		return beep.Seq(s.tone(988, 50*time.Millisecond, 0.4), s.tone(1319, 80*time.Millisecond, 0.4))
	case LevelUp:
		return beep.Seq(
			s.tone(523, 80*time.Millisecond, 0.5),
			s.tone(659, 80*time.Millisecond, 0.5),
			s.tone(784, 160*time.Millisecond, 0.5),
		)
	case Explosion:
		return s.gain(beep.Take(s.rate.N(250*time.Millisecond), newNoise(s.rate, 250*time.Millisecond)), 0.6)
	}
	return nil
}

func (s *Synth) tone(freq float64, d time.Duration, vol float64) beep.Streamer {
	sine, err := generators.SineTone(s.rate, freq)
	if err != nil {
		return nil
	}
	return s.gain(beep.Take(s.rate.N(d), sine), vol)
}

// gain scales st by vol times the master volume.
func (s *Synth) gain(st beep.Streamer, vol float64) beep.Streamer {
	v := vol * s.volume
	if v <= 0 {
		return &effects.Volume{Streamer: st, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: st, Base: 2, Volume: math.Log2(v)}
}

// noise is white noise with a linear decay.
type noise struct {
	pos, total int
	rng        *rand.Rand
}

func newNoise(sr beep.SampleRate, d time.Duration) *noise {
	return &noise{total: sr.N(d), rng: rand.New(rand.NewSource(1))}
}

func (n *noise) Stream(samples [][2]float64) (int, bool) {
	if n.pos >= n.total {
		return 0, false
	}
	i := 0
	for ; i < len(samples) && n.pos < n.total; i++ {
		env := 1 - float64(n.pos)/float64(n.total)
		v := (n.rng.Float64()*2 - 1) * env
		samples[i][0], samples[i][1] = v, v
		n.pos++
	}
	return i, true
}

func (n *noise) Err() error { return nil }
