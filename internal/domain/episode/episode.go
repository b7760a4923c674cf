// Package episode implements the Episode memory kind: a record of a past
// event with participants, outcome and emotional valence (spec §3.2).
package episode

import "github.com/google/uuid"

// Valence is the closed vocabulary of emotional valence (spec §3.2).
type Valence string

const (
	ValencePositive Valence = "positive"
	ValenceNegative Valence = "negative"
	ValenceNeutral  Valence = "neutral"
	ValenceMixed    Valence = "mixed"
)

// NormalizeValence defaults an unrecognized valence to neutral.
func NormalizeValence(s string) Valence {
	switch Valence(s) {
	case ValencePositive, ValenceNegative, ValenceNeutral, ValenceMixed:
		return Valence(s)
	default:
		return ValenceNeutral
	}
}

// Episode is append-only (spec §3.4): once materialized it is never updated.
type Episode struct {
	ID           string
	Summary      string // ≤20 words
	Context      string
	Outcome      string
	Participants []string // entity names
	Valence      Valence
	Importance   float64 // clamped to [0,1] (spec §4.7)
	HappenedAt   string  // ISO date, optional ("" if absent)
}

// New creates an Episode with a fresh opaque ID.
func New(summary, context, outcome string, participants []string, valence Valence, importance float64, happenedAt string) Episode {
	return Episode{
		ID:           uuid.NewString(),
		Summary:      summary,
		Context:      context,
		Outcome:      outcome,
		Participants: participants,
		Valence:      valence,
		Importance:   ClampImportance(importance),
		HappenedAt:   happenedAt,
	}
}

// ClampImportance restricts importance to [0,1] (spec §4.7).
func ClampImportance(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
