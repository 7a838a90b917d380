package workflow

import (
	"log/slog"

	"github.com/JaimeStill/epistle/internal/artifacts"
	"github.com/JaimeStill/epistle/internal/ingest"
	"github.com/JaimeStill/epistle/internal/sessions"
)

// Runtime bundles the dependencies that workflow steps require.
// It is constructed by higher-level composition code from Infrastructure
// and Domain systems.
type Runtime struct {
	Config     Config
	Store      sessions.Store
	Locks      *sessions.TurnLocks
	Classifier Classifier
	Generator  Generator
	Sources    ingest.Resolver
	Artifacts  artifacts.Saver
	Prompts    PromptSource
	Logger     *slog.Logger
}
