// Package worker provides background execution of analysis jobs.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/toniu/playscore/internal/core/domain"
	"github.com/toniu/playscore/internal/core/services"
)

const defaultJobTimeout = 2 * time.Minute

// Job carries one pending analysis to run in the background.
type Job struct {
	Analysis domain.Analysis
}

// Pool manages background workers draining the analysis queue.
type Pool struct {
	svc     *services.Analyzer
	jobs    chan Job
	wg      sync.WaitGroup
	timeout time.Duration
}

// NewPool creates a worker pool with the given queue size and per-job
// timeout. A non-positive timeout falls back to the default.
func NewPool(svc *services.Analyzer, queueSize int, timeout time.Duration) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	if timeout <= 0 {
		timeout = defaultJobTimeout
	}
	return &Pool{svc: svc, jobs: make(chan Job, queueSize), timeout: timeout}
}

// Start launches the worker goroutines.
func (p *Pool) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.processJob(job)
			}
		}()
	}
}

// Stop waits for workers to finish after closing the queue.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}

// Submit queues a job without blocking. It reports false when the queue is
// full so the caller can surface backpressure.
func (p *Pool) Submit(job Job) bool {
	select {
	case p.jobs <- job:
		return true
	default:
		slog.Warn("worker: queue full, dropping job", "analysis", job.Analysis.ID)
		return false
	}
}

func (p *Pool) processJob(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	analysis, err := p.svc.Run(ctx, job.Analysis)
	if err != nil {
		slog.Warn("worker: analysis failed", "analysis", job.Analysis.ID, "playlist", job.Analysis.PlaylistID, "error", err)
		return
	}
	slog.Info("worker: analysis complete",
		"analysis", analysis.ID,
		"playlist", analysis.PlaylistID,
		"overall", analysis.Report.Overall,
		"recommendations", len(analysis.Recommendations),
	)
}
