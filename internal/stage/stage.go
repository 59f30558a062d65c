// Package stage derives a project's lifecycle stage from its artifact set
// and maps each stage to its recommended next action.
package stage

import (
	"github.com/specfleet/specfleet/internal/artifact"
)

// Stage is a project's position in the eight-state lifecycle. The order is
// strict: Bootstrap → Specify → Plan → Tasks → Implement → Test → Review →
// Done. Review and Done are representable but never emitted by Detect; they
// are reserved for explicit human marking.
type Stage string

const (
	Bootstrap Stage = "bootstrap"
	Specify   Stage = "specify"
	Plan      Stage = "plan"
	Tasks     Stage = "tasks"
	Implement Stage = "implement"
	Test      Stage = "test"
	Review    Stage = "review"
	Done      Stage = "done"
)

// All lists every stage in lifecycle order.
var All = []Stage{Bootstrap, Specify, Plan, Tasks, Implement, Test, Review, Done}

// AutomationLevel is an ordinal risk level for a next action.
type AutomationLevel string

const (
	L0 AutomationLevel = "L0" // read-only
	L1 AutomationLevel = "L1" // low risk
	L2 AutomationLevel = "L2" // medium risk
	L3 AutomationLevel = "L3" // high risk
)

// NextAction is the recommended command for a stage.
type NextAction struct {
	Command     string          `json:"command"`
	Description string          `json:"description"`
	Automated   bool            `json:"automated"`
	RiskLevel   AutomationLevel `json:"risk_level"`
}

// Detect derives the stage from artifact presence. It is a total,
// deterministic function of the four presence booleans and the
// implementation-artifact signal, evaluated in fixed order.
func Detect(set artifact.Set, kind Kind, projectDir string) Stage {
	if set.Constitution == nil {
		return Bootstrap
	}
	if set.Specification == nil {
		return Specify
	}
	if set.Plan == nil {
		return Plan
	}
	if set.TaskList == nil {
		return Tasks
	}
	if !HasImplementationArtifacts(projectDir, kind) {
		return Implement
	}
	return Test
}

// nextActions maps every stage to its fixed next action. An exhaustiveness
// test guards this table against missing entries.
var nextActions = map[Stage]NextAction{
	Bootstrap: {
		Command:     "create-constitution",
		Description: "Create project constitution to establish core values and principles",
		Automated:   false,
		RiskLevel:   L2,
	},
	Specify: {
		Command:     "create-specification",
		Description: "Create specification with user stories and requirements",
		Automated:   false,
		RiskLevel:   L2,
	},
	Plan: {
		Command:     "create-plan",
		Description: "Create implementation plan with technical design",
		Automated:   false,
		RiskLevel:   L2,
	},
	Tasks: {
		Command:     "generate-tasks",
		Description: "Generate task breakdown for implementation",
		Automated:   true,
		RiskLevel:   L1,
	},
	Implement: {
		Command:     "begin-implementation",
		Description: "Begin implementation of tasks",
		Automated:   false,
		RiskLevel:   L3,
	},
	Test: {
		Command:     "run-tests",
		Description: "Execute test suite and validate functionality",
		Automated:   true,
		RiskLevel:   L1,
	},
	Review: {
		Command:     "review-code",
		Description: "Perform code review and quality checks",
		Automated:   false,
		RiskLevel:   L1,
	},
	Done: {
		Command:     "",
		Description: "All stages completed successfully",
		Automated:   false,
		RiskLevel:   L0,
	},
}

// Next returns the fixed next action for the stage.
func Next(s Stage) NextAction {
	return nextActions[s]
}

// NeedsHumanAttention reports whether the stage inherently requires a human
// in the loop. This is distinct from the scorer's per-project requirement
// set.
func NeedsHumanAttention(s Stage) bool {
	switch s {
	case Bootstrap, Specify, Plan, Review:
		return true
	default:
		return false
	}
}

// Description returns a short human-readable summary of the stage.
func Description(s Stage) string {
	switch s {
	case Bootstrap:
		return "Needs constitution - establish project identity"
	case Specify:
		return "Needs specification - define requirements"
	case Plan:
		return "Needs plan - design technical approach"
	case Tasks:
		return "Needs tasks - break down work items"
	case Implement:
		return "In implementation - coding in progress"
	case Test:
		return "In testing - validating functionality"
	case Review:
		return "In review - awaiting approval"
	case Done:
		return "Complete - all stages finished"
	}
	return string(s)
}
