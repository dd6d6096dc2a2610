package guard

import (
	"testing"

	"github.com/chronokv/chronokv/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_RangeInt(t *testing.T) {
	g := model.Guard{Kind: model.GuardRangeInt, RangeIntMin: 10, RangeIntMax: 20}

	verdict, _ := Evaluate(g, "15")
	assert.Equal(t, model.Accept, verdict)

	verdict, reason := Evaluate(g, "5")
	assert.Equal(t, model.CounterOffer, verdict)
	assert.Contains(t, reason, "below the minimum")

	verdict, reason = Evaluate(g, "25")
	assert.Equal(t, model.CounterOffer, verdict)
	assert.Contains(t, reason, "above the maximum")

	verdict, reason = Evaluate(g, "not-a-number")
	assert.Equal(t, model.Reject, verdict)
	assert.Contains(t, reason, "not a valid integer")
}

func TestAlternatives_RangeInt(t *testing.T) {
	g := model.Guard{Kind: model.GuardRangeInt, RangeIntMin: 10, RangeIntMax: 20}

	alts := Alternatives(g, "5")
	require.NotEmpty(t, alts)
	assert.Equal(t, "10", alts[0].Value)
	assert.Equal(t, "Minimum allowed value", alts[0].Explanation)

	alts = Alternatives(g, "25")
	require.NotEmpty(t, alts)
	assert.Equal(t, "20", alts[0].Value)
	assert.Equal(t, "Maximum allowed value", alts[0].Explanation)
}

func TestEvaluate_Enum(t *testing.T) {
	g := model.Guard{Kind: model.GuardEnum, EnumValues: []string{"red", "green", "blue"}}

	verdict, _ := Evaluate(g, "green")
	assert.Equal(t, model.Accept, verdict)

	verdict, reason := Evaluate(g, "purple")
	assert.Equal(t, model.CounterOffer, verdict)
	assert.Contains(t, reason, "not one of the allowed values")
}

func TestAlternatives_Enum_CaseCorrection(t *testing.T) {
	g := model.Guard{Kind: model.GuardEnum, EnumValues: []string{"Red", "Green", "Blue"}}

	alts := Alternatives(g, "red")
	require.NotEmpty(t, alts)
	assert.Equal(t, "Red", alts[0].Value)
	assert.Equal(t, "Case-corrected", alts[0].Explanation)
}

func TestAlternatives_Enum_Similarity(t *testing.T) {
	g := model.Guard{Kind: model.GuardEnum, EnumValues: []string{"production", "staging", "development"}}

	alts := Alternatives(g, "prod")
	require.NotEmpty(t, alts)
	assert.Equal(t, "production", alts[0].Value)
	assert.Equal(t, "Similar to proposed value", alts[0].Explanation)
}

func TestAlternatives_Enum_FallsBackToFirstValues(t *testing.T) {
	g := model.Guard{Kind: model.GuardEnum, EnumValues: []string{"a", "b", "c", "d"}}

	alts := Alternatives(g, "zzz")
	require.Len(t, alts, 3)
	for _, a := range alts {
		assert.Equal(t, "Allowed value", a.Explanation)
	}
}

func TestEvaluate_Length(t *testing.T) {
	g := model.Guard{Kind: model.GuardLength, LengthMin: 3, LengthMax: 8}

	verdict, _ := Evaluate(g, "hello")
	assert.Equal(t, model.Accept, verdict)

	verdict, reason := Evaluate(g, "ab")
	assert.Equal(t, model.CounterOffer, verdict)
	assert.Contains(t, reason, "below the minimum")

	verdict, reason = Evaluate(g, "waytoolongvalue")
	assert.Equal(t, model.CounterOffer, verdict)
	assert.Contains(t, reason, "above the maximum")
}

func TestAlternatives_Length(t *testing.T) {
	g := model.Guard{Kind: model.GuardLength, LengthMin: 5, LengthMax: 8}

	alts := Alternatives(g, "ab")
	require.Len(t, alts, 1)
	assert.Equal(t, "ab***", alts[0].Value)
	assert.Equal(t, "Padded to minimum length", alts[0].Explanation)

	alts = Alternatives(g, "waytoolongvalue")
	require.NotEmpty(t, alts)
	assert.Equal(t, "waytoolo", alts[0].Value)
	assert.Equal(t, "Truncated to maximum length", alts[0].Explanation)
}

func TestEvaluate_UnknownKindAccepts(t *testing.T) {
	g := model.Guard{Kind: model.GuardKind(99)}
	verdict, reason := Evaluate(g, "anything")
	assert.Equal(t, model.Accept, verdict)
	assert.Empty(t, reason)
}
