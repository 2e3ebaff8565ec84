package model

import (
	"fmt"
	"path/filepath"
)

const (
	limitArtifact    = "limit_model.json"
	approvalArtifact = "approval_model.json"
)

// Registry holds the two fitted preprocessor+model pairs. It is loaded once
// at startup and shared read-only across all requests.
type Registry struct {
	Limit    *Pipeline
	Approval *Pipeline
}

// LoadRegistry reads both model artifacts from dir.
func LoadRegistry(dir string) (*Registry, error) {
	limit, err := LoadPipeline(filepath.Join(dir, limitArtifact))
	if err != nil {
		return nil, fmt.Errorf("load limit model: %w", err)
	}

	approval, err := LoadPipeline(filepath.Join(dir, approvalArtifact))
	if err != nil {
		return nil, fmt.Errorf("load approval model: %w", err)
	}

	return &Registry{Limit: limit, Approval: approval}, nil
}
