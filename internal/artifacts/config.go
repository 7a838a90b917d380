package artifacts

// Config contains artifact persistence settings.
type Config struct {
	// LocalDir is the directory for locally saved drafts.
	LocalDir string `toml:"local_dir"`
	// BlobPrefix namespaces draft blobs within the storage container.
	BlobPrefix string `toml:"blob_prefix"`
}

// DefaultConfig returns an artifact configuration with standard defaults.
func DefaultConfig() Config {
	return Config{
		LocalDir:   "data/drafts",
		BlobPrefix: "drafts",
	}
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.LocalDir != "" {
		c.LocalDir = overlay.LocalDir
	}
	if overlay.BlobPrefix != "" {
		c.BlobPrefix = overlay.BlobPrefix
	}
}
