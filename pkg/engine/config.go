package engine

import (
	"github.com/hashicorp/go-hclog"
	"github.com/relogic/plang/pkg/exec"
)

// Config holds construction-time knobs for a Context, in the teacher's
// SolverConfig/DefaultSolverConfig pattern: a config struct plus a
// default constructor, rather than a flag/env parsing library, since the
// core has no outer surface to configure beyond construction time.
type Config struct {
	ExistencePolicy exec.ExistenceErrorPolicy
	Logger          hclog.Logger
}

// DefaultConfig returns a Config with undefined predicates failing
// silently and a null logger.
func DefaultConfig() *Config {
	return &Config{
		ExistencePolicy: exec.ExistenceFails,
		Logger:          hclog.NewNullLogger(),
	}
}

// Option mutates a Config under construction.
type Option func(*Config)

// WithExistenceErrorPolicy overrides what happens when a goal names
// neither a builtin nor a user predicate.
func WithExistenceErrorPolicy(policy exec.ExistenceErrorPolicy) Option {
	return func(c *Config) { c.ExistencePolicy = policy }
}

// WithLogger installs a named hclog.Logger in place of the null default.
func WithLogger(logger hclog.Logger) Option {
	return func(c *Config) { c.Logger = logger }
}
