package models

import "strings"

// TaskDefinition entry จาก task manifest (read-only)
// command/script/sql เป็น payload ของ worker ระบบนี้ไม่ตีความ
type TaskDefinition struct {
	Name        string  `json:"name" yaml:"name"`
	Description *string `json:"description" yaml:"description"`
	Command     *string `json:"command" yaml:"command"`
	Script      *string `json:"script" yaml:"script"`
	SQL         *string `json:"sql" yaml:"sql"`
	Cron        *string `json:"cron" yaml:"cron"`
	ServiceName *string `json:"service_name" yaml:"service_name"`
}

func (t *TaskDefinition) HasCron() bool {
	return t != nil && t.Cron != nil && strings.TrimSpace(*t.Cron) != ""
}

// CronExpr empty string when the task is manual-only.
func (t *TaskDefinition) CronExpr() string {
	if !t.HasCron() {
		return ""
	}
	return strings.TrimSpace(*t.Cron)
}

// Matches case-insensitive substring on name or description.
// needle must already be lower-cased.
func (t *TaskDefinition) Matches(needle string) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(t.Name), needle) {
		return true
	}
	return t.Description != nil && strings.Contains(strings.ToLower(*t.Description), needle)
}
