package holdem

import "go.uber.org/zap"

type options struct {
	logger      *zap.Logger
	serverSeeds []string
}

// Option configures a GameEngine or RoundManager.
type Option func(*options)

// WithLogger sets the structured logger. The default discards output.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithServerSeeds fixes the server seeds of the next hands, in order.
// Once they run out, seeds are generated.
func WithServerSeeds(seeds ...string) Option {
	return func(o *options) {
		o.serverSeeds = append(o.serverSeeds, seeds...)
	}
}

func applyOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
