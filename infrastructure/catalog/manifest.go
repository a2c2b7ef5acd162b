package catalog

import (
	"encoding/json"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"jobcore-api/domain/models"
	"jobcore-api/pkg/errors"
	"jobcore-api/pkg/logger"
	"jobcore-api/pkg/scheduler"
)

// manifest shape ของ hit_tasks_manifest.json
//
//	{"tasks": {"nightly-report": {"command": "...", "cron": "0 2 * * *"}}}
type manifest struct {
	Tasks map[string]manifestTask `json:"tasks" yaml:"tasks"`
}

type manifestTask struct {
	Description *string `json:"description" yaml:"description"`
	Command     *string `json:"command" yaml:"command"`
	Script      *string `json:"script" yaml:"script"`
	SQL         *string `json:"sql" yaml:"sql"`
	Cron        *string `json:"cron" yaml:"cron"`
	ServiceName *string `json:"service_name" yaml:"service_name"`
}

// snapshot immutable view of one manifest read
type snapshot struct {
	byName  map[string]*models.TaskDefinition
	ordered []models.TaskDefinition
}

func newSnapshot(tasks []models.TaskDefinition) *snapshot {
	s := &snapshot{byName: make(map[string]*models.TaskDefinition, len(tasks))}
	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		t.Name = strings.TrimSpace(t.Name)
		if t.Name == "" || seen[t.Name] {
			continue
		}
		seen[t.Name] = true
		s.ordered = append(s.ordered, t)
	}

	sort.Slice(s.ordered, func(i, j int) bool { return s.ordered[i].Name < s.ordered[j].Name })
	for i := range s.ordered {
		s.byName[s.ordered[i].Name] = &s.ordered[i]
	}
	return s
}

func (s *snapshot) list() []models.TaskDefinition {
	out := make([]models.TaskDefinition, len(s.ordered))
	copy(out, s.ordered)
	return out
}

func (s *snapshot) lookup(name string) (*models.TaskDefinition, error) {
	t, ok := s.byName[strings.TrimSpace(name)]
	if !ok {
		return nil, errors.NotFound("Task not found")
	}
	copied := *t
	return &copied, nil
}

// parseManifest decodes by extension: .yaml/.yml with yaml.v3, anything else as JSON.
// Empty input is an empty catalog.
func parseManifest(raw []byte, path string) (*snapshot, error) {
	var m manifest
	if len(strings.TrimSpace(string(raw))) > 0 {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			if err := yaml.Unmarshal(raw, &m); err != nil {
				return nil, errors.Wrapf(err, "parse task manifest %s", path)
			}
		default:
			if err := json.Unmarshal(raw, &m); err != nil {
				return nil, errors.Wrapf(err, "parse task manifest %s", path)
			}
		}
	}

	tasks := make([]models.TaskDefinition, 0, len(m.Tasks))
	for name, entry := range m.Tasks {
		t := models.TaskDefinition{
			Name:        name,
			Description: entry.Description,
			Command:     entry.Command,
			Script:      entry.Script,
			SQL:         entry.SQL,
			Cron:        entry.Cron,
			ServiceName: entry.ServiceName,
		}
		if t.HasCron() {
			if err := scheduler.ValidateCron(t.CronExpr()); err != nil {
				// ยังให้ task แสดงใน list ได้ แค่ไม่มี next_run
				logger.Warn("Task manifest has invalid cron", "task", name, "cron", t.CronExpr(), "error", err)
			}
		}
		tasks = append(tasks, t)
	}

	return newSnapshot(tasks), nil
}
