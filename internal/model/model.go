// Package model holds the data types shared across chronokv's core
// components: versions, guards, write evaluations and decision policies.
package model

import "time"

// Version is a single (timestamp, value) tuple in a key's history.
type Version struct {
	Timestamp time.Time
	Value     string
}

// RetentionKind tags the variant of RetentionPolicy in effect.
type RetentionKind int

const (
	// RetentionFull keeps every version of every key forever.
	RetentionFull RetentionKind = iota
	// RetentionLastN keeps only the N newest versions per key.
	RetentionLastN
	// RetentionLastT keeps only versions newer than now-T.
	RetentionLastT
)

// RetentionPolicy bounds how many versions of a key are kept.
type RetentionPolicy struct {
	Kind RetentionKind
	N    int           // valid when Kind == RetentionLastN, must be > 0
	T    time.Duration // valid when Kind == RetentionLastT, must be > 0
}

// FullRetention keeps everything.
func FullRetention() RetentionPolicy {
	return RetentionPolicy{Kind: RetentionFull}
}

// LastNRetention keeps the n newest versions per key.
func LastNRetention(n int) RetentionPolicy {
	return RetentionPolicy{Kind: RetentionLastN, N: n}
}

// LastTRetention keeps versions with timestamp >= now-d.
func LastTRetention(d time.Duration) RetentionPolicy {
	return RetentionPolicy{Kind: RetentionLastT, T: d}
}

// DecisionPolicy selects how the write evaluator arbitrates guard verdicts.
type DecisionPolicy int

const (
	// DevFriendly always surfaces counter-offers with their alternatives.
	DevFriendly DecisionPolicy = iota
	// SafeDefault surfaces counter-offers only when safe alternatives exist,
	// otherwise rejects.
	SafeDefault
	// Strict never counter-offers; any violation is a rejection.
	Strict
)

// String renders the wire/log name of a DecisionPolicy.
func (p DecisionPolicy) String() string {
	switch p {
	case DevFriendly:
		return "DEV_FRIENDLY"
	case SafeDefault:
		return "SAFE_DEFAULT"
	case Strict:
		return "STRICT"
	default:
		return "UNKNOWN"
	}
}

// ParsePolicy parses a wire/log policy name. It returns ok=false for any
// name other than the three recognized ones.
func ParsePolicy(name string) (DecisionPolicy, bool) {
	switch name {
	case "DEV_FRIENDLY":
		return DevFriendly, true
	case "SAFE_DEFAULT":
		return SafeDefault, true
	case "STRICT":
		return Strict, true
	default:
		return DevFriendly, false
	}
}

// GuardKind tags the variant of a Guard's body.
type GuardKind int

const (
	GuardRangeInt GuardKind = iota
	GuardEnum
	GuardLength
)

// Guard is a named validation constraint attached to a key pattern.
//
// KeyPattern is one of: "*" (any key), "prefix*" (prefix match), or a
// literal key (exact match). The RangeInt*, Enum* and Length* fields carry
// the variant-specific parameters; only the group selected by Kind is
// meaningful.
type Guard struct {
	Name       string
	KeyPattern string
	Enabled    bool
	Kind       GuardKind

	RangeIntMin int64
	RangeIntMax int64

	EnumValues []string

	LengthMin int
	LengthMax int
}

// Alternative is a candidate value a guard proposes when it counter-offers.
type Alternative struct {
	Value       string
	Explanation string
}

// GuardVerdict is the raw per-guard evaluation outcome.
type GuardVerdict int

const (
	Accept GuardVerdict = iota
	CounterOffer
	Reject
)

// WriteResult is the outcome of a proposed write after guard evaluation and
// policy arbitration.
type WriteResult int

const (
	ResultAccept WriteResult = iota
	ResultReject
	ResultCounterOffer
)

func (r WriteResult) String() string {
	switch r {
	case ResultAccept:
		return "Accept"
	case ResultReject:
		return "Reject"
	case ResultCounterOffer:
		return "CounterOffer"
	default:
		return "Unknown"
	}
}

// WriteEvaluation is the structured result of running guards and a decision
// policy against a proposed write, without committing it.
type WriteEvaluation struct {
	Key             string
	ProposedValue   string
	Result          WriteResult
	Reason          string
	Alternatives    []Alternative
	TriggeredGuards []string
	AppliedPolicy   DecisionPolicy
	PolicyReasoning string
}

// ExplainResult is a diagnostic read describing how a temporal query
// resolved.
type ExplainResult struct {
	Key             string
	QueryTimestamp  time.Time
	Found           bool
	TotalVersions   int
	SelectedVersion *Version
	Reasoning       string
	SkippedVersions []Version
}
