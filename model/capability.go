// Package model provides capability-based model selection for pipeline
// phases. Phases specify capabilities (translation, revision) rather than
// model names; the registry resolves them to configured endpoints with
// fallback chains and tracks endpoint health.
package model

// Capability represents a semantic capability for model selection.
type Capability string

const (
	// CapabilityTranslation is for phase-1 source-language translation.
	CapabilityTranslation Capability = "translation"

	// CapabilityRevision is for phase-2 cadence and style revision.
	CapabilityRevision Capability = "revision"

	// CapabilityFast is for quick mechanical tasks.
	CapabilityFast Capability = "fast"
)

// PhaseCapabilities maps pipeline phases to their default capability.
var PhaseCapabilities = map[string]Capability{
	"translate": CapabilityTranslation,
	"polish":    CapabilityRevision,
}

// CapabilityForPhase returns the default capability for a pipeline phase.
// Returns CapabilityTranslation for unknown phases.
func CapabilityForPhase(phase string) Capability {
	if cap, ok := PhaseCapabilities[phase]; ok {
		return cap
	}
	return CapabilityTranslation
}

// IsValid checks if a capability string is a known capability.
func (c Capability) IsValid() bool {
	switch c {
	case CapabilityTranslation, CapabilityRevision, CapabilityFast:
		return true
	}
	return false
}

// String returns the string representation of the capability.
func (c Capability) String() string {
	return string(c)
}

// ParseCapability converts a string to a Capability, returning empty for
// invalid values.
func ParseCapability(s string) Capability {
	cap := Capability(s)
	if cap.IsValid() {
		return cap
	}
	return ""
}
