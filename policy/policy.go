// Package policy provides an optional per-request gate that can be attached
// to the arbiter via context.  It is deliberately decoupled from the rest of
// the engine so that using it is entirely opt-in - callers that do not embed
// a Policy keep the default "auto" behaviour where every request reaches the
// safety evaluation.
package policy

import (
	"context"
)

// Arbitration modes recognised by the engine.
const (
	ModeAsk  = "ask"  // consult AskFunc before evaluating every request
	ModeAuto = "auto" // evaluate requests automatically (default)
	ModeDeny = "deny" // refuse all requests without evaluation
)

// AskFunc is invoked when Mode==ask.  Returning true lets the request
// proceed to the safety evaluation, false refuses it outright.
// Implementations MAY mutate the policy (for example, switching to ModeAuto
// after the first approval).
type AskFunc func(ctx context.Context, process int, amounts []int, p *Policy) bool

// Policy represents the gate settings for a run of the arbiter.
//
//   - Mode controls the high-level behaviour (ask / auto / deny).
//   - AllowList, BlockList filter by process index regardless of Mode.
//   - Ask is only used when Mode==ask.
//
// A nil *Policy means "evaluate everything" and is therefore the zero-cost
// default.
type Policy struct {
	Mode      string // ask / auto / deny (default = auto)
	AllowList []int  // processes allowed to request (empty => all)
	BlockList []int  // processes refused outright
	Ask       AskFunc
}

// Config is the declarative, serialisable part of a Policy.
type Config struct {
	Mode      string `json:"mode,omitempty" yaml:"mode,omitempty"`
	AllowList []int  `json:"allow,omitempty" yaml:"allow,omitempty"`
	BlockList []int  `json:"block,omitempty" yaml:"block,omitempty"`
}

// ToConfig converts a runtime Policy into a persistable Config.
func ToConfig(p *Policy) *Config {
	if p == nil {
		return nil
	}
	return &Config{
		Mode:      p.Mode,
		AllowList: append([]int(nil), p.AllowList...),
		BlockList: append([]int(nil), p.BlockList...),
	}
}

// FromConfig converts a stored Config back to a runtime Policy (without
// AskFunc).
func FromConfig(c *Config) *Policy {
	if c == nil {
		return nil
	}
	return &Policy{
		Mode:      c.Mode,
		AllowList: append([]int(nil), c.AllowList...),
		BlockList: append([]int(nil), c.BlockList...),
	}
}

// IsAllowed evaluates AllowList / BlockList for a process index.  BlockList
// has priority; an empty AllowList admits every process.
func (p *Policy) IsAllowed(process int) bool {
	if p == nil {
		return true
	}
	for _, blocked := range p.BlockList {
		if process == blocked {
			return false
		}
	}
	if len(p.AllowList) == 0 {
		return true
	}
	for _, allowed := range p.AllowList {
		if process == allowed {
			return true
		}
	}
	return false
}

type ctxKeyT struct{}

var ctxKey ctxKeyT

// WithPolicy embeds policy in ctx.
func WithPolicy(ctx context.Context, p *Policy) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey, p)
}

// FromContext extracts the Policy from ctx, or nil.
func FromContext(ctx context.Context) *Policy {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxKey).(*Policy); ok {
		return v
	}
	return nil
}
