package artifacts

import "errors"

// Domain errors for artifact persistence.
var (
	ErrUnknownTarget = errors.New("unknown save target")
	ErrNoBlobStorage = errors.New("blob storage is not configured")
	ErrEmptyArtifact = errors.New("artifact has no content")
)
