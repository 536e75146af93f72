package systems

// SystemInfo describes a step phase for UI display.
type SystemInfo struct {
	ID          string // Internal identifier (used for perf tracking)
	Name        string // Display name
	Description string // What this system does
	Category    string // Grouping (e.g., "core", "visual", "ai")
}

// SystemRegistry holds metadata about all step phases.
// IDs match the phase names the perf collector records.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all known systems.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds every step phase in pipeline order.
// Update this when adding new systems.
func (r *SystemRegistry) registerDefaults() {
	// Scripted spawning
	r.Register(SystemInfo{ID: "levels", Name: "Levels", Description: "Advances the level plan and pops due spawn events", Category: "script"})
	r.Register(SystemInfo{ID: "spawn", Name: "Spawn", Description: "Drains the command queue into new entities", Category: "script"})

	// Player
	r.Register(SystemInfo{ID: "ship", Name: "Ship", Description: "Applies input, health bar and position history", Category: "player"})
	r.Register(SystemInfo{ID: "weapons", Name: "Weapons", Description: "Fires volleys and manages escorts and shields", Category: "player"})

	// Motion
	r.Register(SystemInfo{ID: "behavior", Name: "Behavior", Description: "Runs per-kind enemy and escort updates", Category: "ai"})
	r.Register(SystemInfo{ID: "kinematics", Name: "Kinematics", Description: "Integrates motion and hit flashes", Category: "physics"})
	r.Register(SystemInfo{ID: "tweens", Name: "Tweens", Description: "Advances scripted moves", Category: "physics"})

	// Interactions
	r.Register(SystemInfo{ID: "collision", Name: "Collision", Description: "Resolves hits, pickups and impacts", Category: "physics"})

	// Cleanup
	r.Register(SystemInfo{ID: "reap", Name: "Reap", Description: "Removes dead entities", Category: "core"})
	r.Register(SystemInfo{ID: "telemetry", Name: "Telemetry", Description: "Records window statistics", Category: "internal"})
}

// Register adds a system to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// Get returns system info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a system ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered systems.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}

// ByCategory returns systems filtered by category.
func (r *SystemRegistry) ByCategory(category string) []SystemInfo {
	var result []SystemInfo
	for _, info := range r.systems {
		if info.Category == category {
			result = append(result, info)
		}
	}
	return result
}

// Categories returns all unique categories.
func (r *SystemRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, info := range r.systems {
		if !seen[info.Category] {
			seen[info.Category] = true
			cats = append(cats, info.Category)
		}
	}
	return cats
}

// IDs returns all system IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
