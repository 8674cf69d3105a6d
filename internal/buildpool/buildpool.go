// Package buildpool runs a batch of independent execution-phase jobs (tar
// builds, in this module) across a bounded pool of goroutines. It wraps
// github.com/jimmysawczuk/worker the way the teacher's
// compilator.Compile wraps its own hand-rolled todo/done channel pair: one
// job per unit of work, a fixed worker count. Unlike Compile, tasks here
// have no inter-dependencies, so there is no synchronizer or kill channel —
// every task runs to completion and its error is collected.
package buildpool

import (
	"github.com/jimmysawczuk/worker"
)

// Task is one unit of execution-phase work. Tasks must not mutate shared
// declaration-phase state (alias.Map, tags.Attributes) — only read it — so
// that running them concurrently is safe by construction (spec.md §5).
type Task func() error

type job struct {
	task Task
	err  *error
}

func (j job) Run() {
	*j.err = j.task()
}

// Run executes tasks across a pool of workerCount goroutines (workerCount
// <= 0 means "use the library default") and returns every error produced,
// in task order. A failing task does not stop the others from running —
// each task is independent, unlike the teacher's dependency-ordered
// compile graph, so there is nothing to abort early for.
func Run(workerCount int, tasks []Task) []error {
	if len(tasks) == 0 {
		return nil
	}

	errs := make([]error, len(tasks))

	if workerCount > 0 {
		prev := worker.MaxJobs
		worker.MaxJobs = workerCount
		defer func() { worker.MaxJobs = prev }()
	}

	w := worker.NewWorker()
	for i, task := range tasks {
		w.Add(job{task: task, err: &errs[i]})
	}
	w.RunUntilDone()

	return errs
}
