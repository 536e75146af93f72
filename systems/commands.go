package systems

import (
	"fmt"
	"strings"
)

// SpawnKind names an entity the spawner can build.
type SpawnKind uint8

const (
	SpawnSwarm SpawnKind = iota
	SpawnAsteroid
	SpawnFireball
	SpawnSlashBullet
	SpawnSineShip
	SpawnChaser
	SpawnOrbitBoss
	SpawnSimpleBullet
	SpawnRoundBullet
	SpawnRadialBurst
	SpawnMissile
	SpawnGem
	SpawnExplosion
)

var spawnKindNames = [...]string{
	SpawnSwarm:        "swarm",
	SpawnAsteroid:     "asteroid",
	SpawnFireball:     "fireball",
	SpawnSlashBullet:  "slashbullet",
	SpawnSineShip:     "sineship",
	SpawnChaser:       "chaser",
	SpawnOrbitBoss:    "orbitboss",
	SpawnSimpleBullet: "simplebullet",
	SpawnRoundBullet:  "roundbullet",
	SpawnRadialBurst:  "radialburst",
	SpawnMissile:      "missile",
	SpawnGem:          "gem",
	SpawnExplosion:    "explosion",
}

func (k SpawnKind) String() string {
	if int(k) < len(spawnKindNames) {
		return spawnKindNames[k]
	}
	return fmt.Sprintf("spawn(%d)", k)
}

// ParseSpawnKind resolves a level-table event name.
func ParseSpawnKind(name string) (SpawnKind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range spawnKindNames {
		if s == n {
			return SpawnKind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSpawn, name)
}

// SpawnRequest is an abstract "spawn X" command.
// X and Y are used only when Placed is set; otherwise the spawner picks a position.
type SpawnRequest struct {
	Kind   SpawnKind
	X, Y   float64
	VX, VY float64
	Placed bool

	Size      int     // asteroid tier, explosion scale, gem level
	Group     int     // sine ship squadron size
	Level     int     // sine ship fire level
	ShootTime float64 // sine ship seconds between shots
	Count     int     // radial burst bullet count
	Speed     float64 // radial burst bullet speed
}

// CommandQueue buffers spawn requests until the simulation drains them once per frame.
type CommandQueue struct {
	pending []SpawnRequest
	spare   []SpawnRequest
}

// Push enqueues a request.
func (q *CommandQueue) Push(req SpawnRequest) {
	q.pending = append(q.pending, req)
}

// Len returns the number of queued requests.
func (q *CommandQueue) Len() int {
	return len(q.pending)
}

// Drain hands every queued request to fn in push order.
// Requests pushed by fn are kept for the next drain.
func (q *CommandQueue) Drain(fn func(SpawnRequest)) int {
	reqs := q.pending
	q.pending = q.spare[:0]
	for _, r := range reqs {
		fn(r)
	}
	q.spare = reqs[:0]
	return len(reqs)
}

// Reset drops every queued request.
func (q *CommandQueue) Reset() {
	q.pending = q.pending[:0]
}
