// Package worker drains the activity queue and records each event.
package worker

// Option applies a configuration option to a Worker.
type Option func(*Worker)

// WithName sets the worker's name, used for its logger.
func WithName(name string) Option {
	return func(w *Worker) {
		if name != "" {
			w.name = name
		}
	}
}
