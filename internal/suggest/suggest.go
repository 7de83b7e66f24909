package suggest

import (
	"go.uber.org/zap"

	"github.com/spigell/resume-fit/internal/analyzer"
	"github.com/spigell/resume-fit/internal/scoring"
)

// Priority is advisory; suggestions are never reordered by it.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Suggestion is a single improvement hint.
type Suggestion struct {
	Category    string   `json:"category"`
	Priority    Priority `json:"priority"`
	Suggestion  string   `json:"suggestion"`
	Description string   `json:"description"`
}

// Input is everything a rule may look at.
type Input struct {
	Candidate   analyzer.SignalBundle
	Requirement analyzer.SignalBundle
	Breakdown   scoring.Breakdown
}

// Rule produces at most one suggestion. Rules are independent of each other.
type Rule interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Evaluate(in Input) (Suggestion, bool)
}

// Status represents runtime information about a rule.
type Status struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	Reason  string `json:"reason,omitempty"`
}

// DisableByName marks a rule with the provided name as disabled while keeping it in the list.
func DisableByName(rules []Rule, name, reason string) bool {
	found := false
	for _, rule := range rules {
		if rule.Name() == name {
			rule.Disable(reason)
			found = true
		}
	}
	return found
}

// Run evaluates every enabled rule in order and collects the suggestions they produce.
func Run(rules []Rule, in Input, logger *zap.Logger) []Suggestion {
	if logger == nil {
		logger = zap.NewNop()
	}

	suggestions := make([]Suggestion, 0, len(rules))
	for _, rule := range rules {
		if !rule.IsEnabled() {
			logger.Debug("rule disabled", zap.String("name", rule.Name()))
			continue
		}

		s, ok := rule.Evaluate(in)
		logger.Debug("rule evaluated",
			zap.String("name", rule.Name()),
			zap.Bool("triggered", ok),
		)
		if ok {
			suggestions = append(suggestions, s)
		}
	}
	return suggestions
}

// Describe returns status entries for the provided rules.
func Describe(rules []Rule) []Status {
	statuses := make([]Status, 0, len(rules))
	for _, rule := range rules {
		status := Status{Name: rule.Name(), Enabled: rule.IsEnabled()}
		if reporter, ok := rule.(interface{ DisabledReason() string }); ok {
			status.Reason = reporter.DisabledReason()
		}
		statuses = append(statuses, status)
	}
	return statuses
}
