package authz

// ScopeQuery input ของ Resolve
//
// SupportedModes is ordered from most to least restrictive. Modes outside
// this list are ignored even when granted.
type ScopeQuery struct {
	Pack           string
	Verb           Verb
	Entity         string // optional, enables the entity-level lookup
	SupportedModes []Mode
	FallbackMode   Mode
}

// DefaultSupportedModes job-core entities are system-level: no ownership
// fields, so only none|all.
var DefaultSupportedModes = []Mode{ModeNone, ModeAll}

// Resolve computes the effective scope mode.
//
// Grants from the pack default ({pack}.{verb}.scope.{mode}) and, when an
// entity is given, the entity override ({pack}.{entity}.{verb}.scope.{mode})
// are considered together. If several supported modes are granted the most
// restrictive one wins. If none is granted the fallback is returned.
// Pure: depends only on the grant table.
func Resolve(grants *GrantTable, q ScopeQuery) Mode {
	supported := q.SupportedModes
	if len(supported) == 0 {
		supported = DefaultSupportedModes
	}

	for _, mode := range supported {
		if grants.hasScope(q.Pack, packLevel, q.Verb, mode) {
			return mode
		}
		if q.Entity != "" && grants.hasScope(q.Pack, q.Entity, q.Verb, mode) {
			return mode
		}
	}

	return q.FallbackMode
}

// Rank position in the restrictiveness order, -1 when unsupported.
func Rank(mode Mode, supported []Mode) int {
	for i, m := range supported {
		if m == mode {
			return i
		}
	}
	return -1
}
