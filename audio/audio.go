// Package audio turns game events into sound.
package audio

// Event is a fire-and-forget sound trigger.
type Event uint8

const (
	Fired Event = iota
	Explosion
	Pickup
	Hit
	LevelUp
	eventCount
)

var eventNames = [...]string{
	Fired:     "fired",
	Explosion: "explosion",
	Pickup:    "pickup",
	Hit:       "hit",
	LevelUp:   "level_up",
}

func (e Event) String() string {
	if int(e) < len(eventNames) {
		return eventNames[e]
	}
	return "unknown"
}

// Sink receives sound triggers. Play must not block.
type Sink interface {
	Play(e Event)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Play(Event) {}

// Counter counts events per type. Headless runs and tests use it.
type Counter struct {
	counts [eventCount]int
}

func (c *Counter) Play(e Event) {
	if int(e) < len(c.counts) {
		c.counts[e]++
	}
}

// Count returns how many times e was played.
func (c *Counter) Count(e Event) int {
	if int(e) < len(c.counts) {
		return c.counts[e]
	}
	return 0
}
