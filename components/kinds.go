package components

// Group is a collision group. Collision rules and destruction cascades differ per group.
type Group uint8

const (
	GroupPlayer Group = iota
	GroupPlayerShot
	GroupWingman
	GroupRotatingShield
	GroupDeflector
	GroupEnemyShip
	GroupEnemyProjectile
	GroupGem
	GroupEffect
	groupCount
)

// GroupCount is the number of collision groups.
const GroupCount = int(groupCount)

var groupNames = [...]string{
	GroupPlayer:          "player",
	GroupPlayerShot:      "player_shot",
	GroupWingman:         "wingman",
	GroupRotatingShield:  "rotating_shield",
	GroupDeflector:       "deflector",
	GroupEnemyShip:       "enemy_ship",
	GroupEnemyProjectile: "enemy_projectile",
	GroupGem:             "gem",
	GroupEffect:          "effect",
}

func (g Group) String() string {
	if int(g) < len(groupNames) {
		return groupNames[g]
	}
	return "unknown"
}

// Hostile reports whether entities of the group damage the player on contact.
func (g Group) Hostile() bool {
	return g == GroupEnemyShip || g == GroupEnemyProjectile
}

// Kind identifies the catalog entry an entity was built from.
type Kind uint8

const (
	KindPlayer Kind = iota
	KindShot
	KindMissile
	KindWingman
	KindRotatingShield
	KindDeflector
	KindSwarmer
	KindAsteroid
	KindChaser
	KindSineShip
	KindOrbitBoss
	KindSimpleBullet
	KindRoundBullet
	KindSlashBullet
	KindFireBullet
	KindGem
	KindExplosion
	kindCount
)

// KindCount is the number of catalog kinds.
const KindCount = int(kindCount)

var kindNames = [...]string{
	KindPlayer:         "player",
	KindShot:           "shot",
	KindMissile:        "missile",
	KindWingman:        "wingman",
	KindRotatingShield: "rotating_shield",
	KindDeflector:      "deflector",
	KindSwarmer:        "swarmer",
	KindAsteroid:       "asteroid",
	KindChaser:         "chaser",
	KindSineShip:       "sine_ship",
	KindOrbitBoss:      "orbit_boss",
	KindSimpleBullet:   "simple_bullet",
	KindRoundBullet:    "round_bullet",
	KindSlashBullet:    "slash_bullet",
	KindFireBullet:     "fire_bullet",
	KindGem:            "gem",
	KindExplosion:      "explosion",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}
