package listing

import (
	"fmt"

	"github.com/listforge/backend/internal/domain/shared"
)

// Phase is one step of listing content generation. Phases run in a fixed
// order; each consumes the confirmed output of every earlier phase.
type Phase string

const (
	PhaseNone        Phase = "none"
	PhaseTitle       Phase = "title"
	PhaseBullets     Phase = "bullets"
	PhaseDescription Phase = "description"
	PhaseComplete    Phase = "complete"
)

// phaseOrder declares the dependency order between phases exactly once.
// Cascading invalidation and precondition checks are both derived from it.
var phaseOrder = []Phase{PhaseNone, PhaseTitle, PhaseBullets, PhaseDescription, PhaseComplete}

// phaseSections maps each runnable phase to the section types it produces.
var phaseSections = map[Phase][]SectionType{
	PhaseTitle:       {SectionTypeTitle},
	PhaseBullets:     {SectionTypeBullet},
	PhaseDescription: {SectionTypeDescription, SectionTypeSearchTerms},
	PhaseComplete:    {SectionTypeSubjectMatter, SectionTypeBackendAttributes},
}

// ParsePhase validates a phase name supplied by a caller
func ParsePhase(s string) (Phase, error) {
	p := Phase(s)
	switch p {
	case PhaseTitle, PhaseBullets, PhaseDescription, PhaseComplete:
		return p, nil
	}
	return "", shared.NewValidationError(fmt.Sprintf("Unknown generation phase: %s", s))
}

// Rank returns the position of the phase in the generation order
func (p Phase) Rank() int {
	for i, candidate := range phaseOrder {
		if candidate == p {
			return i
		}
	}
	return -1
}

// Before reports whether p comes strictly before other in the generation order
func (p Phase) Before(other Phase) bool {
	return p.Rank() < other.Rank()
}

// SectionTypes returns the section types this phase produces
func (p Phase) SectionTypes() []SectionType {
	return phaseSections[p]
}

// DownstreamSectionTypes returns the section types produced by every phase
// strictly after p. Regenerating p deletes all of them, because they were
// generated assuming p's previous output.
func (p Phase) DownstreamSectionTypes() []SectionType {
	var types []SectionType
	for _, candidate := range phaseOrder {
		if p.Before(candidate) {
			types = append(types, phaseSections[candidate]...)
		}
	}
	return types
}

// InvalidationSectionTypes returns the section types deleted when p is
// regenerated: p's own sections plus everything downstream of p.
func (p Phase) InvalidationSectionTypes() []SectionType {
	return append(append([]SectionType{}, phaseSections[p]...), p.DownstreamSectionTypes()...)
}
