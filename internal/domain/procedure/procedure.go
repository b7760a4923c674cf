// Package procedure implements the Procedure memory kind: a named ordered
// sequence of steps triggered by some condition (spec §3.2).
package procedure

import "github.com/google/uuid"

// Step is one action in a Procedure's ordered sequence.
type Step struct {
	Action string
	Detail string // optional, "" if absent
}

// Procedure is append-only (spec §3.4).
type Procedure struct {
	ID        string
	Name      string
	Trigger   string
	Steps     []Step
	Entities  []string // involved entity names
}

// New creates a Procedure with a fresh opaque ID.
func New(name, trigger string, steps []Step, entities []string) Procedure {
	return Procedure{
		ID:       uuid.NewString(),
		Name:     name,
		Trigger:  trigger,
		Steps:    steps,
		Entities: entities,
	}
}
