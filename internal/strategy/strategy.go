// Package strategy maps an analyzer.Analysis to a correction Strategy
// through a fixed decision table. Classify is a pure function: the
// classifier is the only place algorithm-selection policy lives, so
// codecs themselves never know why they were picked.
package strategy

import (
	"fmt"

	"github.com/satcomm/fectel/internal/analyzer"
)

// Algorithm is the tagged primary correction algorithm a Strategy names.
type Algorithm int

const (
	AlgoNone Algorithm = iota
	AlgoViterbi
	AlgoBCH
	AlgoRS
	AlgoLDPC
	AlgoHamming
	AlgoInterleaverOnly
	AlgoResync
	AlgoSafeDefault
	AlgoRequestRetransmit
)

func (a Algorithm) String() string {
	switch a {
	case AlgoNone:
		return "NONE"
	case AlgoViterbi:
		return "VITERBI"
	case AlgoBCH:
		return "BCH"
	case AlgoRS:
		return "RS"
	case AlgoLDPC:
		return "LDPC"
	case AlgoHamming:
		return "HAMMING"
	case AlgoInterleaverOnly:
		return "INTERLEAVER_ONLY"
	case AlgoResync:
		return "RESYNC"
	case AlgoSafeDefault:
		return "SAFE_DEFAULT"
	case AlgoRequestRetransmit:
		return "REQUEST_RETRANSMIT"
	default:
		return "UNKNOWN"
	}
}

// Strategy is the correction plan the classifier emits.
type Strategy struct {
	Primary      Algorithm
	Secondary    Algorithm // AlgoNone when there is none
	HasSecondary bool
	Config       string
	Confidence   float64
	Rationale    string
}

// LDPCAvailable gates the GAUSSIAN_NOISE row of the decision table: when
// no LDPC codec is wired into the orchestrator, Gaussian noise falls back
// to BCH as a safe default.
var LDPCAvailable = true

// Classify applies the decision table to a.
func Classify(a analyzer.Analysis) Strategy {
	switch a.Primary {
	case analyzer.None, analyzer.Minor:
		return Strategy{
			Primary:    AlgoNone,
			Confidence: 0.95,
			Rationale:  "error density below correction threshold",
		}

	case analyzer.SyncDrift:
		if a.SyncDriftScore > 0.3 && a.BurstScore < 0.3 {
			return Strategy{
				Primary:    AlgoViterbi,
				Confidence: min(0.85, 1.5*a.SyncDriftScore),
				Rationale:  "sync drift with low burst contamination corrects via Viterbi resync",
			}
		}
		return Strategy{
			Primary:    AlgoBCH,
			Confidence: 0.75,
			Rationale:  "sync drift pattern too ambiguous for Viterbi, falling back to safe default",
		}

	case analyzer.RandomBit:
		return Strategy{
			Primary:    AlgoBCH,
			Confidence: 0.90,
			Rationale:  "independent bit errors match BCH's bounded error-correction model",
		}

	case analyzer.Burst:
		return Strategy{
			Primary:    AlgoBCH,
			Confidence: 0.80,
			Rationale:  "Viterbi is explicitly unsafe for burst errors, using BCH as the safe default",
		}

	case analyzer.GaussianNoise:
		if LDPCAvailable {
			return Strategy{
				Primary:    AlgoLDPC,
				Confidence: 0.80,
				Rationale:  "Gaussian-distributed errors match LDPC's soft-decision model",
			}
		}
		return Strategy{
			Primary:    AlgoBCH,
			Confidence: 0.70,
			Rationale:  "LDPC unavailable, using BCH until it is",
		}

	case analyzer.PacketLoss:
		return Strategy{
			Primary:    AlgoRequestRetransmit,
			Confidence: 0.60,
			Rationale:  "packet loss exceeds any codec's correction capacity, LDPC/Turbo planned",
		}

	case analyzer.Mixed:
		return classifyMixed(a)

	default:
		return Strategy{
			Primary:    AlgoSafeDefault,
			Confidence: 0.50,
			Rationale:  "unrecognized primary type",
		}
	}
}

// classifyMixed recurses on the dominant sub-score if it clears 0.25,
// re-running Classify against a synthetic Analysis pinned to that
// sub-type; otherwise falls back to the BCH safe default.
func classifyMixed(a analyzer.Analysis) Strategy {
	type scored struct {
		primary analyzer.PrimaryType
		score   float64
	}
	candidates := []scored{
		{analyzer.PacketLoss, a.PacketLossScore},
		{analyzer.SyncDrift, a.SyncDriftScore},
		{analyzer.Burst, a.BurstScore},
		{analyzer.GaussianNoise, a.GaussianScore},
		{analyzer.RandomBit, a.RandomScore},
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.score > best.score {
			best = c
		}
	}
	if best.score <= 0.25 {
		return Strategy{
			Primary:    AlgoBCH,
			Confidence: 0.65,
			Rationale:  "mixed error pattern with no dominant sub-type, using BCH as the safe default",
		}
	}

	sub := a
	sub.Primary = best.primary
	inner := Classify(sub)
	inner.HasSecondary = true
	inner.Secondary = AlgoSafeDefault
	inner.Config = fmt.Sprintf("mixed/dominant=%s", best.primary)
	inner.Rationale = "mixed pattern, recursed on dominant sub-score: " + inner.Rationale
	return inner
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
