package protocol

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ArgumentPolicy selects how the encoder treats an argument whose shape does
// not match its data type.
type ArgumentPolicy uint8

const (
	// PolicyLenient writes an empty payload for the argument and logs a warning.
	PolicyLenient ArgumentPolicy = iota
	// PolicyStrict fails the encode call with an *ArgumentError.
	PolicyStrict
)

func (p ArgumentPolicy) String() string {
	if p == PolicyStrict {
		return "strict"
	}
	return "lenient"
}

type options struct {
	logger zerolog.Logger
	policy ArgumentPolicy
}

func defaultOptions() options {
	return options{logger: log.Logger, policy: PolicyLenient}
}

// Option configures an Encoder or Decoder.
type Option func(*options)

// WithLogger routes codec logs to logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithPolicy sets the encoder argument policy. Decoders ignore it.
func WithPolicy(p ArgumentPolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}
