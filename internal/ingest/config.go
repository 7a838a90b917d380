package ingest

// Config contains source resolution settings.
type Config struct {
	// FileRoot restricts file sources to paths beneath this directory.
	FileRoot string `toml:"file_root"`
	// MaxSourceBytes caps the size of any single resolved source.
	MaxSourceBytes int64 `toml:"max_source_bytes"`
}

// DefaultConfig returns an ingest configuration with standard defaults.
func DefaultConfig() Config {
	return Config{
		FileRoot:       "data/inbox",
		MaxSourceBytes: 10 * 1024 * 1024,
	}
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.FileRoot != "" {
		c.FileRoot = overlay.FileRoot
	}
	if overlay.MaxSourceBytes > 0 {
		c.MaxSourceBytes = overlay.MaxSourceBytes
	}
}
