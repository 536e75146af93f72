package systems

import "errors"

var (
	// ErrNotImplemented marks a configured behavior tier or upgrade with no implementation.
	ErrNotImplemented = errors.New("not implemented")

	// ErrPlacement is returned when a spawn could not find a free position.
	ErrPlacement = errors.New("no free placement")

	// ErrUnknownSpawn is returned for spawn kinds the spawner cannot build.
	ErrUnknownSpawn = errors.New("unknown spawn kind")

	// ErrDeadEntity is returned when an operation targets a removed entity.
	ErrDeadEntity = errors.New("entity is not alive")
)
