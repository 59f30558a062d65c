// Package score combines stage, task ledger, repository cleanliness, and
// human-override metadata into a risk level, a set of human-requirement
// flags, and a weighted priority number that orders the portfolio for human
// attention.
package score

import (
	"time"

	"github.com/specfleet/specfleet/internal/gitstat"
	"github.com/specfleet/specfleet/internal/ledger"
	"github.com/specfleet/specfleet/internal/stage"
)

// Requirement names a kind of human involvement a project needs.
type Requirement string

const (
	NeedsReview   Requirement = "review"
	NeedsInput    Requirement = "input"
	NeedsFix      Requirement = "fix"
	NeedsTest     Requirement = "test"
	NeedsDeploy   Requirement = "deploy"
	NeedsDecision Requirement = "decision"
)

// Weights tunes the priority formula. Weights are configuration, never
// hard-coded at call sites.
type Weights struct {
	NeedsHuman float64 `json:"needs_human" mapstructure:"needs_human" toml:"needs_human"`
	Risk       float64 `json:"risk" mapstructure:"risk" toml:"risk"`
	Staleness  float64 `json:"staleness" mapstructure:"staleness" toml:"staleness"`
	Impact     float64 `json:"impact" mapstructure:"impact" toml:"impact"`
	Confidence float64 `json:"confidence" mapstructure:"confidence" toml:"confidence"`
}

// DefaultWeights make "needs human" dominate, staleness and impact
// secondary, and push human-approved projects down the list.
func DefaultWeights() Weights {
	return Weights{
		NeedsHuman: 40,
		Risk:       25,
		Staleness:  15,
		Impact:     15,
		Confidence: 10,
	}
}

// RiskLevel counts how many risk conditions hold, capped at 3: a build/test
// failure signal, more than 3 parallel-marked tasks, any blocked task, and a
// dirty working tree.
func RiskLevel(hasErrors bool, tasks ledger.Ledger, repo gitstat.Status) int {
	risk := 0
	if hasErrors {
		risk++
	}
	if tasks.ParallelMarked > 3 {
		risk++
	}
	if tasks.Blocked > 0 {
		risk++
	}
	if !repo.Clean {
		risk++
	}
	if risk > 3 {
		risk = 3
	}
	return risk
}

// Requirements derives the human-requirement set. Each rule fires at most
// once, so a requirement value never repeats within one call.
func Requirements(s stage.Stage, repo gitstat.Status, tasks ledger.Ledger) []Requirement {
	var reqs []Requirement

	switch s {
	case stage.Bootstrap, stage.Specify, stage.Plan:
		reqs = append(reqs, NeedsInput)
	case stage.Review:
		reqs = append(reqs, NeedsReview)
	case stage.Test:
		if tasks.Completed < tasks.Total {
			reqs = append(reqs, NeedsTest)
		}
	}

	if !repo.Clean {
		reqs = append(reqs, NeedsFix)
	}
	if tasks.Blocked > 0 {
		reqs = append(reqs, NeedsDecision)
	}

	return reqs
}

// Calculator computes priority scores with a fixed weight set.
type Calculator struct {
	Weights Weights
}

// Priority computes the weighted score:
//
//	w_human*needsHuman + w_risk*(risk/3) + w_staleness*staleness
//	  + w_impact*impactNorm - w_confidence*(confidence/2)
//
// Staleness saturates after seven days without updates. The result is
// unbounded but typically falls in 0–100 with default weights.
func (c Calculator) Priority(reqs []Requirement, riskLevel int, lastUpdated time.Time, impact, confidence int, now time.Time) float64 {
	needsHuman := 0.0
	if len(reqs) > 0 {
		needsHuman = 1.0
	}

	return c.Weights.NeedsHuman*needsHuman +
		c.Weights.Risk*(float64(riskLevel)/3.0) +
		c.Weights.Staleness*staleness(lastUpdated, now) +
		c.Weights.Impact*impactNorm(impact) -
		c.Weights.Confidence*(float64(confidence)/2.0)
}

// staleness normalizes days since last update into [0, 1], saturating at
// seven days.
func staleness(lastUpdated, now time.Time) float64 {
	days := now.Sub(lastUpdated).Hours() / 24.0
	s := days / 7.0
	if s > 1.0 {
		return 1.0
	}
	if s < 0.0 {
		return 0.0
	}
	return s
}

// impactNorm maps impact levels 1..3 onto {0.33, 0.66, 1.0}; anything else
// falls back to the middle value.
func impactNorm(impact int) float64 {
	switch impact {
	case 1:
		return 0.33
	case 2:
		return 0.66
	case 3:
		return 1.0
	default:
		return 0.5
	}
}
