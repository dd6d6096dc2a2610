// Package policy implements chronokv's write evaluator (spec.md §4.D): it
// runs the applicable guards against a proposed value, aggregates a
// WriteEvaluation, and arbitrates the result through one of three decision
// policies. None of this mutates the store — see spec.md invariant I6.
package policy

import (
	"strings"

	"github.com/chronokv/chronokv/internal/guard"
	"github.com/chronokv/chronokv/internal/model"
	"go.uber.org/zap"
)

// Evaluator runs guard checks for a proposed write. The aggregation shape
// (iterate checks in order, short-circuit on hard failure, merge soft
// failures into one structured result) mirrors the sequential
// Check-pipeline pattern used for governance decisions in the wider
// example pack; here it is grounded concretely in guard.Registry/Evaluate.
type Evaluator struct {
	registry *guard.Registry
	logger   *zap.Logger
}

// NewEvaluator creates a write evaluator bound to a guard registry.
func NewEvaluator(registry *guard.Registry, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{registry: registry, logger: logger}
}

// Simulate runs every enabled guard applicable to key against value and
// aggregates the result. It never mutates any component (spec.md I6).
func (e *Evaluator) Simulate(key, value string) model.WriteEvaluation {
	ev := model.WriteEvaluation{Key: key, ProposedValue: value}

	guards := e.registry.ForKey(key)
	if len(guards) == 0 {
		ev.Result = model.ResultAccept
		ev.Reason = "No guards defined for this key"
		return ev
	}

	var reasons []string
	var alternatives []model.Alternative
	seenAlt := make(map[string]bool)
	anyCounterOffer := false

	for _, g := range guards {
		verdict, reason := guard.Evaluate(g, value)

		switch verdict {
		case model.Reject:
			ev.Result = model.ResultReject
			ev.TriggeredGuards = append(ev.TriggeredGuards, g.Name)
			ev.Reason = reason
			return ev

		case model.CounterOffer:
			anyCounterOffer = true
			ev.TriggeredGuards = append(ev.TriggeredGuards, g.Name)
			reasons = append(reasons, reason)

			for _, alt := range guard.Alternatives(g, value) {
				if seenAlt[alt.Value] {
					continue
				}
				seenAlt[alt.Value] = true
				alternatives = append(alternatives, alt)
			}

		case model.Accept:
			// no change
		}
	}

	if anyCounterOffer {
		ev.Result = model.ResultCounterOffer
		ev.Reason = strings.Join(reasons, "; ")
		ev.Alternatives = alternatives
		return ev
	}

	ev.Result = model.ResultAccept
	ev.Reason = "All guards passed"
	return ev
}

// ApplyPolicy arbitrates a WriteEvaluation through the given decision
// policy, per spec.md §4.D's table. It returns the (possibly mutated)
// evaluation; the input's Result/Alternatives may be replaced, but
// TriggeredGuards and Reason from guard evaluation are preserved.
func ApplyPolicy(ev model.WriteEvaluation, p model.DecisionPolicy) model.WriteEvaluation {
	ev.AppliedPolicy = p

	switch ev.Result {
	case model.ResultAccept:
		ev.PolicyReasoning = "No policy applied"
		return ev

	case model.ResultCounterOffer:
		switch p {
		case model.Strict:
			ev.Result = model.ResultReject
			ev.Alternatives = nil
			ev.PolicyReasoning = "Rejected under STRICT policy: guard counter-offers are not permitted"
		case model.SafeDefault:
			if len(ev.Alternatives) > 0 {
				ev.PolicyReasoning = "SAFE_DEFAULT policy: safe alternatives available"
			} else {
				ev.Result = model.ResultReject
				ev.PolicyReasoning = "SAFE_DEFAULT policy: no safe alternatives available"
			}
		case model.DevFriendly:
			ev.PolicyReasoning = "DEV_FRIENDLY policy: showing alternatives"
		}
		return ev

	case model.ResultReject:
		switch p {
		case model.Strict:
			ev.PolicyReasoning = "Rejected: critical violation under STRICT policy"
		case model.SafeDefault:
			ev.PolicyReasoning = "Rejected: critical violation"
		case model.DevFriendly:
			ev.PolicyReasoning = "Rejected: cannot be salvaged, no recovery attempted"
		}
		return ev
	}

	return ev
}
