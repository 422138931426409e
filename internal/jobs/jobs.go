package jobs

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

type Result struct {
	RadiusKm float64 `json:"radius_km"`
	Limit    int     `json:"limit"`
	Rows     int     `json:"rows"`
	Sheet    string  `json:"sheet"`
	Output   string  `json:"-"`
	Filename string  `json:"filename"`
}

// Job tracks one background report export.
type Job struct {
	ID        string
	CreatedAt time.Time

	mu       sync.RWMutex
	status   Status
	logs     []string
	progress int // 0-100
	result   *Result
	err      string
	cancel   func()
}

// Snapshot is a consistent copy of a job's state.
type Snapshot struct {
	ID        string    `json:"id"`
	Status    Status    `json:"status"`
	Progress  int       `json:"progress"`
	Logs      []string  `json:"logs"`
	Result    *Result   `json:"result,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func newJob() *Job {
	return &Job{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		status:    StatusRunning,
		logs:      []string{},
	}
}

func (j *Job) Log(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.appendLog(msg)
}

func (j *Job) appendLog(msg string) {
	ts := time.Now().Format("15:04:05")
	j.logs = append(j.logs, fmt.Sprintf("[%s] %s", ts, msg))
}

func (j *Job) SetProgress(current, total int, msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if total > 0 {
		j.progress = int(float64(current) / float64(total) * 100)
		if j.progress > 100 {
			j.progress = 100
		}
	}
	if msg != "" {
		j.appendLog(msg)
	}
}

func (j *Job) Fail(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status != StatusRunning {
		return
	}
	j.status = StatusError
	j.err = msg
	j.logs = append(j.logs, "[ERROR] "+msg)
}

func (j *Job) Finish(res Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status != StatusRunning {
		return
	}
	j.status = StatusDone
	j.result = &res
	j.progress = 100
	j.appendLog("Export completed.")
}

// SetCancel registers the function that stops the job's work.
func (j *Job) SetCancel(cancel func()) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cancel = cancel
}

// Cancel stops a running job. It reports false when the job already ended.
func (j *Job) Cancel() bool {
	j.mu.Lock()
	cancel := j.cancel
	running := j.status == StatusRunning
	if running {
		j.appendLog("Cancellation requested.")
	}
	j.mu.Unlock()

	if running && cancel != nil {
		cancel()
	}
	return running
}

func (j *Job) Status() Status {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.status
}

func (j *Job) Snapshot() Snapshot {
	j.mu.RLock()
	defer j.mu.RUnlock()

	logs := make([]string, len(j.logs))
	copy(logs, j.logs)

	s := Snapshot{
		ID:        j.ID,
		Status:    j.status,
		Progress:  j.progress,
		Logs:      logs,
		Error:     j.err,
		CreatedAt: j.CreatedAt,
	}
	if j.result != nil {
		res := *j.result
		s.Result = &res
	}
	return s
}

// Registry keeps jobs in memory for the lifetime of the process.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

func NewRegistry() *Registry {
	return &Registry{jobs: make(map[string]*Job)}
}

func (r *Registry) New() *Job {
	job := newJob()
	r.mu.Lock()
	r.jobs[job.ID] = job
	r.mu.Unlock()
	return job
}

func (r *Registry) Get(id string) *Job {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.jobs[id]
}

// Prune drops finished jobs created before cutoff and returns how many went.
func (r *Registry) Prune(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, job := range r.jobs {
		if job.CreatedAt.Before(cutoff) && job.Status() != StatusRunning {
			delete(r.jobs, id)
			n++
		}
	}
	return n
}
