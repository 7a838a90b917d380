package api

import (
	"github.com/JaimeStill/epistle/internal/agents"
	"github.com/JaimeStill/epistle/internal/artifacts"
	"github.com/JaimeStill/epistle/internal/ingest"
	"github.com/JaimeStill/epistle/internal/prompts"
	"github.com/JaimeStill/epistle/internal/sessions"
	"github.com/JaimeStill/epistle/internal/workflow"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Sessions sessions.System
	Prompts  prompts.System
	Workflow *workflow.Coordinator
}

// NewDomain creates all domain systems from the API runtime. The workflow
// coordinator is wired over the session store, the prompt system, the
// model client, and the source and artifact capabilities.
func NewDomain(runtime *Runtime) *Domain {
	sessionSystem := sessions.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	promptSystem := prompts.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	client := agents.NewClient(
		runtime.Agent,
		runtime.Assistant.CallTimeoutDuration(),
		runtime.Logger,
	)

	coordinator := workflow.NewCoordinator(
		&workflow.Runtime{
			Config:     runtime.Assistant.Workflow,
			Store:      sessionSystem,
			Locks:      sessions.NewTurnLocks(),
			Classifier: client,
			Generator:  client,
			Sources:    ingest.New(runtime.Assistant.Ingest, runtime.Storage, runtime.Logger),
			Artifacts:  artifacts.New(runtime.Assistant.Artifacts, runtime.Storage, runtime.Logger),
			Prompts:    promptSystem,
			Logger:     runtime.Logger,
		},
		workflow.DefaultRegistry(),
	)

	return &Domain{
		Sessions: sessionSystem,
		Prompts:  promptSystem,
		Workflow: coordinator,
	}
}
