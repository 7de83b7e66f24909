package ai

import (
	"context"

	"github.com/spigell/resume-fit/internal/matching"
)

// Review is a narrative take on a finished analysis. It is advisory only and never changes
// scores or suggestions.
type Review struct {
	Summary string   `json:"summary"`
	Tips    []string `json:"tips"`
	Raw     string   `json:"-"`
}

type Reviewer interface {
	Review(ctx context.Context, result *matching.Result) (*Review, error)
}
