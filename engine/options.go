package engine

import (
	"go.uber.org/zap"
)

// Option configures a Verifier.
type Option func(*Verifier)

// WithLogger sets the logger. It uses a no-op logger by default.
func WithLogger(l *zap.Logger) Option {
	return func(v *Verifier) {
		if l != nil {
			v.logger = l
		}
	}
}

// WithInterpreter compiles with wazero's interpreter instead of the
// platform compiler.
func WithInterpreter() Option {
	return func(v *Verifier) {
		v.interpreter = true
	}
}
