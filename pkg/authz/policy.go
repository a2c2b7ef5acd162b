package authz

import (
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"jobcore-api/domain/models"
	"jobcore-api/pkg/errors"
)

const (
	PackJobCore = "job-core"

	EntityTask      = "job-core.task"
	EntityExecution = "job-core.execution"

	ActionExecute = "job-core.list.execute"
)

// AdminRole role ที่ได้ grants ครบเมื่อไม่มี permissions file
const AdminRole = "admin"

// DefaultAdminGrants grants ของ admin ใน built-in policy
var DefaultAdminGrants = []string{
	"job-core.read.scope.all",
	"job-core.write.scope.all",
	ActionExecute,
}

// Policy role -> grant table
type Policy struct {
	roles map[string]*GrantTable
}

// policyFile รูปแบบไฟล์ permissions
//
//	roles:
//	  admin:
//	    - job-core.read.scope.all
//	  viewer:
//	    - job-core.read.scope.all
//	    - job-core.task.read.scope.none
type policyFile struct {
	Roles map[string][]string `yaml:"roles"`
}

func NewPolicy(roles map[string][]string) *Policy {
	p := &Policy{roles: make(map[string]*GrantTable, len(roles))}
	for role, keys := range roles {
		p.roles[role] = NewGrantTable(keys...)
	}
	return p
}

func DefaultPolicy() *Policy {
	return NewPolicy(map[string][]string{AdminRole: DefaultAdminGrants})
}

// LoadPolicy reads a YAML permissions file. Empty path returns DefaultPolicy.
func LoadPolicy(path string) (*Policy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read permissions file %s", path)
	}
	return ParsePolicy(raw)
}

func ParsePolicy(raw []byte) (*Policy, error) {
	var f policyFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, errors.Wrap(err, "parse permissions yaml")
	}
	if len(f.Roles) == 0 {
		return nil, errors.New("permissions file defines no roles")
	}
	return NewPolicy(f.Roles), nil
}

// GrantsFor union of the grants of every role the identity holds.
// Unknown roles contribute nothing.
func (p *Policy) GrantsFor(identity *models.Identity) *GrantTable {
	g := NewGrantTable()
	if p == nil || identity == nil {
		return g
	}
	for _, role := range identity.Roles {
		g.Merge(p.roles[role])
	}
	return g
}

func (p *Policy) Roles() []string {
	names := make([]string, 0, len(p.roles))
	for role := range p.roles {
		names = append(names, role)
	}
	sort.Strings(names)
	return names
}
