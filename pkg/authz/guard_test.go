package authz

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobcore-api/domain/models"
	"jobcore-api/pkg/errors"
)

const testPolicy = `
roles:
  admin:
    - job-core.read.scope.all
    - job-core.write.scope.all
    - job-core.list.execute
  viewer:
    - job-core.read.scope.all
  no-tasks:
    - job-core.read.scope.all
    - job-core.task.read.scope.none
`

func TestGuardRequireEntity(t *testing.T) {
	policy, err := ParsePolicy([]byte(testPolicy))
	require.NoError(t, err)
	g := NewGuard(policy)

	admin := &models.Identity{Subject: "a", Roles: []string{"admin"}}
	viewer := &models.Identity{Subject: "v", Roles: []string{"viewer"}}
	noTasks := &models.Identity{Subject: "n", Roles: []string{"no-tasks"}}
	stranger := &models.Identity{Subject: "s", Roles: []string{"unknown"}}

	assert.NoError(t, g.RequireEntity(admin, EntityTask, OpEdit))
	assert.NoError(t, g.RequireEntity(viewer, EntityTask, OpList))
	assert.NoError(t, g.RequireEntity(viewer, EntityExecution, OpDetail))

	assert.True(t, errors.IsForbidden(g.RequireEntity(viewer, EntityTask, OpEdit)))
	assert.True(t, errors.IsForbidden(g.RequireEntity(noTasks, EntityTask, OpList)))
	assert.NoError(t, g.RequireEntity(noTasks, EntityExecution, OpList))
	assert.True(t, errors.IsForbidden(g.RequireEntity(stranger, EntityTask, OpList)))

	assert.True(t, errors.IsUnauthorized(g.RequireEntity(nil, EntityTask, OpList)))
}

func TestGuardRolesCombine(t *testing.T) {
	policy, err := ParsePolicy([]byte(testPolicy))
	require.NoError(t, err)
	g := NewGuard(policy)

	// admin + no-tasks: the task-level none override is the most restrictive grant
	both := &models.Identity{Roles: []string{"admin", "no-tasks"}}
	assert.Equal(t, ModeNone, g.ResolveEntityScope(both, EntityTask, OpList))
	assert.Equal(t, ModeAll, g.ResolveEntityScope(both, EntityTask, OpEdit))
}

func TestGuardRequireAction(t *testing.T) {
	policy, err := ParsePolicy([]byte(testPolicy))
	require.NoError(t, err)
	g := NewGuard(policy)

	assert.NoError(t, g.RequireAction(&models.Identity{Roles: []string{"admin"}}, ActionExecute))
	assert.True(t, errors.IsForbidden(g.RequireAction(&models.Identity{Roles: []string{"viewer"}}, ActionExecute)))
	assert.True(t, errors.IsUnauthorized(g.RequireAction(nil, ActionExecute)))
}

func TestDefaultPolicy(t *testing.T) {
	g := NewGuard(nil)
	admin := &models.Identity{Roles: []string{AdminRole}}

	assert.NoError(t, g.RequireEntity(admin, EntityTask, OpEdit))
	assert.NoError(t, g.RequireAction(admin, ActionExecute))
	assert.True(t, errors.IsForbidden(g.RequireEntity(&models.Identity{}, EntityTask, OpList)))
}

func TestLoadPolicy(t *testing.T) {
	p, err := LoadPolicy("")
	require.NoError(t, err)
	assert.Equal(t, []string{AdminRole}, p.Roles())

	path := filepath.Join(t.TempDir(), "permissions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testPolicy), 0o644))
	p, err = LoadPolicy(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin", "no-tasks", "viewer"}, p.Roles())

	_, err = LoadPolicy(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = ParsePolicy([]byte("roles: {}"))
	assert.Error(t, err)

	_, err = ParsePolicy([]byte("roles: [not, a, map"))
	assert.Error(t, err)
}

func TestOpVerb(t *testing.T) {
	assert.Equal(t, VerbRead, OpList.Verb())
	assert.Equal(t, VerbRead, OpDetail.Verb())
	assert.Equal(t, VerbWrite, OpEdit.Verb())
	assert.Equal(t, VerbDelete, OpDelete.Verb())
}
