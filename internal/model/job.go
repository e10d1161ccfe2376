package model

// JobState tracks an entity job through the orchestrator.
type JobState string

const (
	JobPending    JobState = "pending"
	JobSearching  JobState = "searching"
	JobExtracting JobState = "extracting"
	JobVerifying  JobState = "verifying"
	JobDone       JobState = "done"
	JobFailed     JobState = "failed"
)

// EntityJob is the unit the orchestrator tracks: one job per input row.
// Identity is the row position, not the entity text, so duplicate entity
// names are independent jobs.
type EntityJob struct {
	Row     int
	Entity  string
	Query   string
	State   JobState
	Err     string
	Profile Profile
}

// Terminal reports whether the job has reached a terminal state.
func (j *EntityJob) Terminal() bool {
	return j.State == JobDone || j.State == JobFailed
}

// Fail moves the job to the failed state with the given error text.
func (j *EntityJob) Fail(msg string) {
	j.State = JobFailed
	j.Err = msg
}
