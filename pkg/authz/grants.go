package authz

import "strings"

// Mode coarse-grained access level. Only none and all are understood here;
// other strings may appear in grant keys and are carried but never matched.
type Mode string

const (
	ModeNone Mode = "none"
	ModeAll  Mode = "all"
)

type Verb string

const (
	VerbRead   Verb = "read"
	VerbWrite  Verb = "write"
	VerbDelete Verb = "delete"
)

const scopeToken = "scope"

// packLevel entity key used for {pack}.{verb}.scope.{mode} grants
const packLevel = ""

// GrantTable layered lookup pack -> entity -> verb -> mode.
// Pack-wide grants live under the empty entity.
// Keys that are not scope grants are kept as boolean action grants.
type GrantTable struct {
	scopes  map[string]map[string]map[Verb]map[Mode]bool
	actions map[string]bool
}

func NewGrantTable(keys ...string) *GrantTable {
	g := &GrantTable{
		scopes:  make(map[string]map[string]map[Verb]map[Mode]bool),
		actions: make(map[string]bool),
	}
	for _, k := range keys {
		g.Grant(k)
	}
	return g
}

// Grant adds one permission key.
//
//	job-core.read.scope.all         pack default
//	job-core.task.write.scope.none  entity override
//	job-core.list.execute           action
func (g *GrantTable) Grant(key string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}

	parts := strings.Split(key, ".")
	n := len(parts)
	if n >= 4 && parts[n-2] == scopeToken {
		mode := Mode(parts[n-1])
		verb := Verb(parts[n-3])
		prefix := parts[:n-3]
		switch len(prefix) {
		case 1:
			g.setScope(prefix[0], packLevel, verb, mode)
			return
		case 2:
			g.setScope(prefix[0], prefix[1], verb, mode)
			return
		}
	}

	g.actions[key] = true
}

func (g *GrantTable) setScope(pack, entity string, verb Verb, mode Mode) {
	entities, ok := g.scopes[pack]
	if !ok {
		entities = make(map[string]map[Verb]map[Mode]bool)
		g.scopes[pack] = entities
	}
	verbs, ok := entities[entity]
	if !ok {
		verbs = make(map[Verb]map[Mode]bool)
		entities[entity] = verbs
	}
	modes, ok := verbs[verb]
	if !ok {
		modes = make(map[Mode]bool)
		verbs[verb] = modes
	}
	modes[mode] = true
}

// Merge copies every grant of other into g.
func (g *GrantTable) Merge(other *GrantTable) {
	if other == nil {
		return
	}
	for pack, entities := range other.scopes {
		for entity, verbs := range entities {
			for verb, modes := range verbs {
				for mode, granted := range modes {
					if granted {
						g.setScope(pack, entity, verb, mode)
					}
				}
			}
		}
	}
	for action, granted := range other.actions {
		if granted {
			g.actions[action] = true
		}
	}
}

func (g *GrantTable) HasAction(key string) bool {
	if g == nil {
		return false
	}
	return g.actions[key]
}

func (g *GrantTable) hasScope(pack, entity string, verb Verb, mode Mode) bool {
	if g == nil {
		return false
	}
	return g.scopes[pack][entity][verb][mode]
}
