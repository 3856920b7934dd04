// Package workerpool runs a fixed-size pool of goroutines off a shared task
// channel, supervised by a tomb.Tomb so the whole pool dies together.
package workerpool

import (
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

// defaultTaskChanSize bounds how many pending tasks can queue before
// AddTask blocks.
const defaultTaskChanSize = 100

// Function is the shape of work a pool runs: given the supervising tomb and
// one task, do the work and report an error. A non-nil return kills the
// worker that produced it.
type Function = func(t *tomb.Tomb, task any) error

// Pool is a fixed-size worker pool fed by a single task channel.
type Pool struct {
	n     int
	tasks chan any
}

// New returns a pool sized for n concurrent workers.
func New(n int) Pool {
	return Pool{
		n:     n,
		tasks: make(chan any, defaultTaskChanSize),
	}
}

// AddTask enqueues a task for the next free worker.
func (p *Pool) AddTask(task any) {
	p.tasks <- task
}

// Setup keeps the pool topped up at n active workers until t starts dying.
// Each worker handles exactly one task then exits, at which point Setup
// replaces it. A slot is freed only when its work func returns, so a
// wedged work func keeps its slot.
func (p *Pool) Setup(t *tomb.Tomb, work Function) {
	log.Info().Int("workers", p.n).Msg("starting worker pool")
	active := 0
	for {
		select {
		case <-t.Dying():
			return
		default:
			if active < p.n {
				t.Go(func() error {
					err := p.worker(t, work)
					active--
					return err
				})
				active++
			}
		}
	}
}

// worker waits for either the tomb dying or one task, then hands the task
// to work and returns.
func (p *Pool) worker(t *tomb.Tomb, work Function) error {
	select {
	case <-t.Dying():
		return nil
	case task := <-p.tasks:
		if err := work(t, task); err != nil {
			log.Error().Err(err).Msg("worker exiting on error")
			return err
		}
	}
	return nil
}
