package workflow

// Config contains workflow execution settings.
type Config struct {
	// MaxSteps bounds the number of step transitions in a single turn.
	MaxSteps int `toml:"max_steps"`
	// RecentTurns is the dialogue window included in the context digest.
	RecentTurns int `toml:"recent_turns"`
}

// DefaultConfig returns a workflow configuration with standard defaults.
func DefaultConfig() Config {
	return Config{
		MaxSteps:    16,
		RecentTurns: 10,
	}
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.MaxSteps > 0 {
		c.MaxSteps = overlay.MaxSteps
	}
	if overlay.RecentTurns > 0 {
		c.RecentTurns = overlay.RecentTurns
	}
}
