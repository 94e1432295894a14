package engine

import "go.uber.org/zap"

// Option configures a Gradebook during creation.
type Option func(*Gradebook)

// WithLogger sets the diagnostic logger. A nil logger is ignored.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Gradebook) {
		if logger != nil {
			g.logger = logger
		}
	}
}
