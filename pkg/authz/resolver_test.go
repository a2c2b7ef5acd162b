package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func query(verb Verb, entity string) ScopeQuery {
	return ScopeQuery{
		Pack:           PackJobCore,
		Verb:           verb,
		Entity:         entity,
		SupportedModes: []Mode{ModeNone, ModeAll},
		FallbackMode:   ModeNone,
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		grants []string
		q      ScopeQuery
		want   Mode
	}{
		{
			name:   "pack default all",
			grants: []string{"job-core.read.scope.all"},
			q:      query(VerbRead, "task"),
			want:   ModeAll,
		},
		{
			name:   "entity override none beats pack all",
			grants: []string{"job-core.read.scope.all", "job-core.task.read.scope.none"},
			q:      query(VerbRead, "task"),
			want:   ModeNone,
		},
		{
			name:   "pack none beats entity all",
			grants: []string{"job-core.write.scope.none", "job-core.task.write.scope.all"},
			q:      query(VerbWrite, "task"),
			want:   ModeNone,
		},
		{
			name:   "entity override applies only to its entity",
			grants: []string{"job-core.read.scope.all", "job-core.task.read.scope.none"},
			q:      query(VerbRead, "execution"),
			want:   ModeAll,
		},
		{
			name:   "entity grant alone",
			grants: []string{"job-core.execution.read.scope.all"},
			q:      query(VerbRead, "execution"),
			want:   ModeAll,
		},
		{
			name:   "entity grant ignored without entity in query",
			grants: []string{"job-core.execution.read.scope.all"},
			q:      query(VerbRead, ""),
			want:   ModeNone,
		},
		{
			name:   "no grants falls back",
			grants: nil,
			q:      query(VerbRead, "task"),
			want:   ModeNone,
		},
		{
			name:   "other verb does not leak",
			grants: []string{"job-core.read.scope.all"},
			q:      query(VerbWrite, "task"),
			want:   ModeNone,
		},
		{
			name:   "unsupported mode ignored",
			grants: []string{"job-core.read.scope.own"},
			q:      query(VerbRead, "task"),
			want:   ModeNone,
		},
		{
			name:   "other pack does not leak",
			grants: []string{"crm.read.scope.all"},
			q:      query(VerbRead, "task"),
			want:   ModeNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(NewGrantTable(tt.grants...), tt.q))
		})
	}
}

func TestResolveFallbackMode(t *testing.T) {
	q := query(VerbRead, "task")
	q.FallbackMode = ModeAll
	assert.Equal(t, ModeAll, Resolve(NewGrantTable(), q))

	// a granted mode still wins over the fallback
	assert.Equal(t, ModeNone, Resolve(NewGrantTable("job-core.read.scope.none"), q))
}

func TestResolveDefaultSupportedModes(t *testing.T) {
	q := ScopeQuery{Pack: PackJobCore, Verb: VerbRead, FallbackMode: ModeNone}
	assert.Equal(t, ModeAll, Resolve(NewGrantTable("job-core.read.scope.all"), q))
}

func TestResolveNilTable(t *testing.T) {
	assert.Equal(t, ModeNone, Resolve(nil, query(VerbRead, "task")))
}

func TestGrantTableActions(t *testing.T) {
	g := NewGrantTable("job-core.list.execute", "  ", "job-core.read.scope.all")

	assert.True(t, g.HasAction("job-core.list.execute"))
	assert.False(t, g.HasAction("job-core.read.scope.all"))
	assert.False(t, g.HasAction(""))
}

func TestGrantTableMerge(t *testing.T) {
	g := NewGrantTable("job-core.read.scope.all")
	g.Merge(NewGrantTable("job-core.task.read.scope.none", "job-core.list.execute"))
	g.Merge(nil)

	assert.Equal(t, ModeNone, Resolve(g, query(VerbRead, "task")))
	assert.True(t, g.HasAction(ActionExecute))
}

func TestRank(t *testing.T) {
	assert.Equal(t, 0, Rank(ModeNone, DefaultSupportedModes))
	assert.Equal(t, 1, Rank(ModeAll, DefaultSupportedModes))
	assert.Equal(t, -1, Rank(Mode("own"), DefaultSupportedModes))
}
