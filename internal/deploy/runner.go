package deploy

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"
)

// ErrDuplicateScript is returned when a script name is registered twice.
var ErrDuplicateScript = errors.New("script already registered")

// Script is one deploy procedure.
type Script struct {
	Name string
	// Tags select the script with --tags.
	Tags []string
	// Dependencies are tags whose scripts must run first, even when not
	// selected themselves.
	Dependencies []string
	Run          func(ctx context.Context, env *Env) error
}

func (s Script) hasTag(tag string) bool {
	return slices.Contains(s.Tags, tag)
}

// Runner runs registered scripts in registration order.
type Runner struct {
	scripts []Script
	log     zerolog.Logger
}

// NewRunner creates an empty Runner.
func NewRunner(log zerolog.Logger) *Runner {
	return &Runner{log: log}
}

// Register adds scripts.
func (r *Runner) Register(scripts ...Script) error {
	for _, s := range scripts {
		if slices.ContainsFunc(r.scripts, func(o Script) bool { return o.Name == s.Name }) {
			return fmt.Errorf("%w: %s", ErrDuplicateScript, s.Name)
		}
		r.scripts = append(r.scripts, s)
	}
	return nil
}

// Scripts returns the registered scripts.
func (r *Runner) Scripts() []Script {
	return slices.Clone(r.scripts)
}

// Select returns the scripts matching any of tags, plus those their
// dependencies name, in registration order. No tags selects every script.
func (r *Runner) Select(tags []string) []Script {
	if len(tags) == 0 {
		return r.Scripts()
	}
	want := make(map[string]bool)
	for _, t := range tags {
		want[t] = true
	}
	// Expand dependency tags until nothing new is added.
	for changed := true; changed; {
		changed = false
		for _, s := range r.scripts {
			if !r.selected(s, want) {
				continue
			}
			for _, dep := range s.Dependencies {
				if !want[dep] {
					want[dep] = true
					changed = true
				}
			}
		}
	}
	var out []Script
	for _, s := range r.scripts {
		if r.selected(s, want) {
			out = append(out, s)
		}
	}
	return out
}

func (r *Runner) selected(s Script, want map[string]bool) bool {
	if want[s.Name] {
		return true
	}
	for t := range want {
		if s.hasTag(t) {
			return true
		}
	}
	return false
}

// Run executes the scripts selected by tags. The first failing script
// aborts the run. It returns the names of the scripts that completed.
func (r *Runner) Run(ctx context.Context, env *Env, tags []string) ([]string, error) {
	selected := r.Select(tags)
	if len(selected) == 0 {
		return nil, fmt.Errorf("no scripts match tags %v", tags)
	}
	var done []string
	for _, s := range selected {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		r.log.Debug().Str("script", s.Name).Str("network", env.Network.Name).Msg("running")
		if err := s.Run(ctx, env); err != nil {
			return done, fmt.Errorf("script %s: %w", s.Name, err)
		}
		done = append(done, s.Name)
	}
	return done, nil
}
