package authz

import (
	"fmt"
	"strings"

	"jobcore-api/domain/models"
	"jobcore-api/pkg/errors"
)

// Op operation ของ endpoint ที่ต้องผ่าน entity authz
type Op string

const (
	OpList   Op = "list"
	OpDetail Op = "detail"
	OpEdit   Op = "edit"
	OpDelete Op = "delete"
)

func (op Op) Verb() Verb {
	switch op {
	case OpEdit:
		return VerbWrite
	case OpDelete:
		return VerbDelete
	default:
		return VerbRead
	}
}

// Guard gates endpoints by entity scope and by action permission.
type Guard struct {
	policy         *Policy
	supportedModes []Mode
	fallback       Mode
	required       Mode
}

func NewGuard(policy *Policy) *Guard {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Guard{
		policy:         policy,
		supportedModes: DefaultSupportedModes,
		fallback:       ModeNone,
		required:       ModeAll,
	}
}

// ResolveEntityScope effective mode of identity for op on entityKey ("job-core.task").
func (g *Guard) ResolveEntityScope(identity *models.Identity, entityKey string, op Op) Mode {
	pack, entity := splitEntityKey(entityKey)
	return Resolve(g.policy.GrantsFor(identity), ScopeQuery{
		Pack:           pack,
		Verb:           op.Verb(),
		Entity:         entity,
		SupportedModes: g.supportedModes,
		FallbackMode:   g.fallback,
	})
}

// RequireEntity returns Unauthorized without identity, Forbidden when the
// resolved mode is below all.
func (g *Guard) RequireEntity(identity *models.Identity, entityKey string, op Op) error {
	if identity == nil {
		return errors.Unauthorized("authentication required")
	}

	mode := g.ResolveEntityScope(identity, entityKey, op)
	if Rank(mode, g.supportedModes) < Rank(g.required, g.supportedModes) {
		return errors.Forbidden(fmt.Sprintf("%s access to %s denied", op.Verb(), entityKey))
	}
	return nil
}

// RequireAction checks a boolean action grant such as job-core.list.execute.
func (g *Guard) RequireAction(identity *models.Identity, actionKey string) error {
	if identity == nil {
		return errors.Unauthorized("authentication required")
	}
	if !g.policy.GrantsFor(identity).HasAction(actionKey) {
		return errors.Forbidden(fmt.Sprintf("missing permission %s", actionKey))
	}
	return nil
}

func splitEntityKey(entityKey string) (pack, entity string) {
	i := strings.LastIndex(entityKey, ".")
	if i < 0 {
		return entityKey, ""
	}
	return entityKey[:i], entityKey[i+1:]
}
