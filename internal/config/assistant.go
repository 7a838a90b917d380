package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/JaimeStill/epistle/internal/artifacts"
	"github.com/JaimeStill/epistle/internal/ingest"
	"github.com/JaimeStill/epistle/internal/workflow"
)

const (
	EnvAssistantCallTimeout = "EPISTLE_ASSISTANT_CALL_TIMEOUT"
	EnvWorkflowMaxSteps     = "EPISTLE_WORKFLOW_MAX_STEPS"
	EnvWorkflowRecentTurns  = "EPISTLE_WORKFLOW_RECENT_TURNS"
	EnvIngestFileRoot       = "EPISTLE_INGEST_FILE_ROOT"
	EnvIngestMaxSourceBytes = "EPISTLE_INGEST_MAX_SOURCE_BYTES"
	EnvArtifactsLocalDir    = "EPISTLE_ARTIFACTS_LOCAL_DIR"
	EnvArtifactsBlobPrefix  = "EPISTLE_ARTIFACTS_BLOB_PREFIX"
)

// AssistantConfig groups the workflow engine, source resolution, and
// artifact persistence settings, plus the per-model-call timeout.
type AssistantConfig struct {
	CallTimeout string           `toml:"call_timeout"`
	Workflow    workflow.Config  `toml:"workflow"`
	Ingest      ingest.Config    `toml:"ingest"`
	Artifacts   artifacts.Config `toml:"artifacts"`
}

// CallTimeoutDuration returns CallTimeout as a time.Duration.
func (c *AssistantConfig) CallTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.CallTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AssistantConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *AssistantConfig) Merge(overlay *AssistantConfig) {
	if overlay.CallTimeout != "" {
		c.CallTimeout = overlay.CallTimeout
	}

	c.Workflow.Merge(&overlay.Workflow)
	c.Ingest.Merge(&overlay.Ingest)
	c.Artifacts.Merge(&overlay.Artifacts)
}

func (c *AssistantConfig) loadDefaults() {
	if c.CallTimeout == "" {
		c.CallTimeout = "2m"
	}

	defaults := workflow.DefaultConfig()
	defaults.Merge(&c.Workflow)
	c.Workflow = defaults

	ingestDefaults := ingest.DefaultConfig()
	ingestDefaults.Merge(&c.Ingest)
	c.Ingest = ingestDefaults

	artifactDefaults := artifacts.DefaultConfig()
	artifactDefaults.Merge(&c.Artifacts)
	c.Artifacts = artifactDefaults
}

func (c *AssistantConfig) loadEnv() {
	if v := os.Getenv(EnvAssistantCallTimeout); v != "" {
		c.CallTimeout = v
	}
	if v := os.Getenv(EnvWorkflowMaxSteps); v != "" {
		if steps, err := strconv.Atoi(v); err == nil {
			c.Workflow.MaxSteps = steps
		}
	}
	if v := os.Getenv(EnvWorkflowRecentTurns); v != "" {
		if turns, err := strconv.Atoi(v); err == nil {
			c.Workflow.RecentTurns = turns
		}
	}
	if v := os.Getenv(EnvIngestFileRoot); v != "" {
		c.Ingest.FileRoot = v
	}
	if v := os.Getenv(EnvIngestMaxSourceBytes); v != "" {
		if size, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Ingest.MaxSourceBytes = size
		}
	}
	if v := os.Getenv(EnvArtifactsLocalDir); v != "" {
		c.Artifacts.LocalDir = v
	}
	if v := os.Getenv(EnvArtifactsBlobPrefix); v != "" {
		c.Artifacts.BlobPrefix = v
	}
}

func (c *AssistantConfig) validate() error {
	if _, err := time.ParseDuration(c.CallTimeout); err != nil {
		return fmt.Errorf("invalid call_timeout: %w", err)
	}
	if c.Workflow.MaxSteps < 1 {
		return fmt.Errorf("invalid max_steps: %d", c.Workflow.MaxSteps)
	}
	if c.Ingest.MaxSourceBytes < 1 {
		return fmt.Errorf("invalid max_source_bytes: %d", c.Ingest.MaxSourceBytes)
	}
	return nil
}
