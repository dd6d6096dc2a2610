package policy

import (
	"testing"

	"github.com/chronokv/chronokv/internal/guard"
	"github.com/chronokv/chronokv/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRegistryWithRangeGuard(name string, min, max int64) *guard.Registry {
	r := guard.NewRegistry()
	r.Add(model.Guard{Name: name, KeyPattern: "*", Enabled: true, Kind: model.GuardRangeInt, RangeIntMin: min, RangeIntMax: max})
	return r
}

func TestEvaluator_Simulate_NoGuardsAccepts(t *testing.T) {
	e := NewEvaluator(guard.NewRegistry(), zap.NewNop())
	ev := e.Simulate("k", "anything")
	assert.Equal(t, model.ResultAccept, ev.Result)
	assert.Empty(t, ev.TriggeredGuards)
}

func TestEvaluator_Simulate_AcceptsWithinRange(t *testing.T) {
	e := NewEvaluator(newRegistryWithRangeGuard("g", 0, 100), zap.NewNop())
	ev := e.Simulate("k", "50")
	assert.Equal(t, model.ResultAccept, ev.Result)
}

func TestEvaluator_Simulate_CounterOfferOutsideRange(t *testing.T) {
	e := NewEvaluator(newRegistryWithRangeGuard("g", 0, 100), zap.NewNop())
	ev := e.Simulate("k", "150")
	require.Equal(t, model.ResultCounterOffer, ev.Result)
	assert.Equal(t, []string{"g"}, ev.TriggeredGuards)
	assert.NotEmpty(t, ev.Alternatives)
}

func TestEvaluator_Simulate_RejectShortCircuits(t *testing.T) {
	r := guard.NewRegistry()
	r.Add(model.Guard{Name: "reject-me", KeyPattern: "*", Enabled: true, Kind: model.GuardRangeInt, RangeIntMin: 0, RangeIntMax: 100})
	r.Add(model.Guard{Name: "never-reached", KeyPattern: "*", Enabled: true, Kind: model.GuardLength, LengthMin: 0, LengthMax: 1})
	e := NewEvaluator(r, zap.NewNop())

	ev := e.Simulate("k", "not-an-int")
	assert.Equal(t, model.ResultReject, ev.Result)
	assert.Equal(t, []string{"reject-me"}, ev.TriggeredGuards)
}

func TestEvaluator_Simulate_DoesNotMutateRegistry(t *testing.T) {
	r := newRegistryWithRangeGuard("g", 0, 100)
	e := NewEvaluator(r, zap.NewNop())

	before := r.List()
	e.Simulate("k", "150")
	after := r.List()

	assert.Equal(t, before, after)
}

func TestApplyPolicy_Accept_NeverChanges(t *testing.T) {
	ev := model.WriteEvaluation{Result: model.ResultAccept}
	for _, p := range []model.DecisionPolicy{model.DevFriendly, model.SafeDefault, model.Strict} {
		out := ApplyPolicy(ev, p)
		assert.Equal(t, model.ResultAccept, out.Result)
	}
}

func TestApplyPolicy_CounterOffer_Strict_Rejects(t *testing.T) {
	ev := model.WriteEvaluation{
		Result:       model.ResultCounterOffer,
		Alternatives: []model.Alternative{{Value: "10", Explanation: "x"}},
	}
	out := ApplyPolicy(ev, model.Strict)
	assert.Equal(t, model.ResultReject, out.Result)
	assert.Nil(t, out.Alternatives)
}

func TestApplyPolicy_CounterOffer_SafeDefault_WithAlternatives(t *testing.T) {
	ev := model.WriteEvaluation{
		Result:       model.ResultCounterOffer,
		Alternatives: []model.Alternative{{Value: "10", Explanation: "x"}},
	}
	out := ApplyPolicy(ev, model.SafeDefault)
	assert.Equal(t, model.ResultCounterOffer, out.Result)
	assert.NotEmpty(t, out.Alternatives)
}

func TestApplyPolicy_CounterOffer_SafeDefault_NoAlternativesRejects(t *testing.T) {
	ev := model.WriteEvaluation{Result: model.ResultCounterOffer}
	out := ApplyPolicy(ev, model.SafeDefault)
	assert.Equal(t, model.ResultReject, out.Result)
}

func TestApplyPolicy_CounterOffer_DevFriendly_PassesThrough(t *testing.T) {
	ev := model.WriteEvaluation{
		Result:       model.ResultCounterOffer,
		Alternatives: []model.Alternative{{Value: "10", Explanation: "x"}},
	}
	out := ApplyPolicy(ev, model.DevFriendly)
	assert.Equal(t, model.ResultCounterOffer, out.Result)
	assert.NotEmpty(t, out.Alternatives)
}

func TestApplyPolicy_Reject_StaysRejectedUnderEveryPolicy(t *testing.T) {
	ev := model.WriteEvaluation{Result: model.ResultReject}
	for _, p := range []model.DecisionPolicy{model.DevFriendly, model.SafeDefault, model.Strict} {
		out := ApplyPolicy(ev, p)
		assert.Equal(t, model.ResultReject, out.Result)
		assert.NotEmpty(t, out.PolicyReasoning)
	}
}
