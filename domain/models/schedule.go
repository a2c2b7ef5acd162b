package models

import "time"

// Schedule one row per task whose scheduling has ever been toggled.
// No row means "use the task default" (enabled).
// schedule_enabled has no gorm default: gorm would swap an explicit false for it.
type Schedule struct {
	TaskName        string    `gorm:"primaryKey" json:"task_name"`
	ScheduleEnabled bool      `gorm:"not null" json:"schedule_enabled"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

func (Schedule) TableName() string {
	return "task_schedules"
}

// EffectiveEnabled tasks without cron are always enabled (manual-only).
// Otherwise the stored flag wins, and a missing row defaults to enabled.
func EffectiveEnabled(task *TaskDefinition, sched *Schedule) bool {
	if task == nil || !task.HasCron() {
		return true
	}
	if sched == nil {
		return true
	}
	return sched.ScheduleEnabled
}
