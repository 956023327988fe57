package server

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/katalvlaran/lvroute/planner"
)

// Job states.
const (
	stateRunning = "running"
	stateDone    = "done"
	stateFailed  = "failed"
)

var errJobNotFound = errors.New("server: plan not found")

// job is one background planning run. It is the planner's Progress sink.
type job struct {
	id     string
	algo   planner.Algorithm
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	count atomic.Uint64
	max   atomic.Uint64

	mu     sync.Mutex
	label  string
	state  string
	result planner.Result
	err    error
}

// SetLabel implements planner.Progress.
func (j *job) SetLabel(label string) {
	j.mu.Lock()
	j.label = label
	j.mu.Unlock()
}

// SetProgress implements planner.Progress.
func (j *job) SetProgress(count, max uint64) {
	j.max.Store(max)
	j.count.Store(count)
}

// IsCancelled implements planner.Progress.
func (j *job) IsCancelled() bool {
	return j.ctx.Err() != nil
}

func (j *job) finish(res planner.Result, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result, j.err = res, err
	if err != nil {
		j.state = stateFailed
	} else {
		j.state = stateDone
	}
	close(j.done)
}

// view copies the job for rendering.
func (j *job) view() planJSON {
	j.mu.Lock()
	defer j.mu.Unlock()

	v := planJSON{
		ID:        j.id,
		State:     j.state,
		Algorithm: string(j.algo),
		Label:     j.label,
		Count:     j.count.Load(),
		Max:       j.max.Load(),
	}
	switch j.state {
	case stateDone:
		r := toResultJSON(j.result)
		v.Result = &r
	case stateFailed:
		v.Error = j.err.Error()
	}

	return v
}

// jobRegistry tracks every plan started since the server came up.
type jobRegistry struct {
	mu   sync.Mutex
	jobs map[string]*job
	wg   sync.WaitGroup
}

func newJobRegistry() *jobRegistry {
	return &jobRegistry{jobs: make(map[string]*job)}
}

// start registers a job and runs fn on its own goroutine.
func (r *jobRegistry) start(algo planner.Algorithm, fn func(ctx context.Context, j *job) (planner.Result, error)) *job {
	ctx, cancel := context.WithCancel(context.Background())
	j := &job{
		id:     uuid.NewString(),
		algo:   algo,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
		state:  stateRunning,
	}

	r.mu.Lock()
	r.jobs[j.id] = j
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer cancel()
		j.finish(fn(ctx, j))
	}()

	return j
}

func (r *jobRegistry) get(id string) (*job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, errJobNotFound
	}

	return j, nil
}

// shutdown cancels every job and waits for them or for ctx.
func (r *jobRegistry) shutdown(ctx context.Context) error {
	r.mu.Lock()
	for _, j := range r.jobs {
		j.cancel()
	}
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
