package cron_feature

import (
	"context"
	"time"
)

const (
	JobSweepSessions = "sweep_sessions"
	JobSweepLists    = "sweep_list_controllers"
)

type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusFailed  RunStatus = "failed"
)

// Job is a housekeeping task run on the sweep schedule.
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) (int, error)
}

// JobRun records the last execution of a job.
type JobRun struct {
	JobName         string     `json:"job_name"`
	Status          RunStatus  `json:"status"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	RecordsAffected int        `json:"records_affected"`
	Error           string     `json:"error,omitempty"`
}

// JobInfo is what the housekeeping endpoint reports per job.
type JobInfo struct {
	Name     string     `json:"name"`
	Schedule string     `json:"schedule"`
	NextRun  *time.Time `json:"next_run,omitempty"`
	LastRun  *JobRun    `json:"last_run,omitempty"`
}
