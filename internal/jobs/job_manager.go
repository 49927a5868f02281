package jobs

import (
	"fmt"
)

// Job is a background task with an explicit lifecycle.
type Job interface {
	Start() error
	Stop()
}

// JobManager starts and stops the scheduled jobs together.
type JobManager struct {
	jobs    map[string]Job
	order   []string
	started []string
}

func NewJobManager() *JobManager {
	return &JobManager{jobs: make(map[string]Job)}
}

// Register adds a job under name. Jobs start in registration order.
func (jm *JobManager) Register(name string, job Job) {
	if _, ok := jm.jobs[name]; !ok {
		jm.order = append(jm.order, name)
	}
	jm.jobs[name] = job
}

// StartAll starts every registered job. If one fails, the jobs already started
// are stopped again.
func (jm *JobManager) StartAll() error {
	for _, name := range jm.order {
		if err := jm.jobs[name].Start(); err != nil {
			jm.StopAll()
			return fmt.Errorf("failed to start %s job: %w", name, err)
		}
		jm.started = append(jm.started, name)
	}
	return nil
}

// StopAll stops the started jobs in reverse order.
func (jm *JobManager) StopAll() {
	for i := len(jm.started) - 1; i >= 0; i-- {
		jm.jobs[jm.started[i]].Stop()
	}
	jm.started = nil
}
