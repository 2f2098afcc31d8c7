// Package params holds the named intensity values that drive the effect
// passes.
//
// Every value is clamped to its [Min, Max] range after each mutation. Timed
// overrides are restored through the shared scheduler, so they fire on the
// frame loop like every other deferred task.
package params

import (
	"fmt"
	"math"
	"sort"
	"time"

	"glitch/engine/sched"
)

// Logger receives diagnostic lines.
type Logger interface {
	WriteLineString(s string)
}

// OverlapPolicy decides what happens when an override starts while an
// earlier override window on the same name is still pending.
type OverlapPolicy uint8

const (
	// OverlapCoexist lets every override restore the value it saw when it
	// started. A later restore can stomp an earlier one (last writer wins).
	OverlapCoexist OverlapPolicy = iota
	// OverlapReplace cancels the pending restore and carries the value saved
	// by the first override over to the new window.
	OverlapReplace
)

func (p OverlapPolicy) String() string {
	switch p {
	case OverlapCoexist:
		return "coexist"
	case OverlapReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// ParsePolicy maps a config string to a policy.
func ParsePolicy(s string) (OverlapPolicy, error) {
	switch s {
	case "", "coexist":
		return OverlapCoexist, nil
	case "replace":
		return OverlapReplace, nil
	default:
		return OverlapCoexist, fmt.Errorf("unknown overlap policy %q", s)
	}
}

// Param is one bounded intensity value.
type Param struct {
	Name  string
	Value float64
	Min   float64
	Max   float64
}

// clamp is total: NaN maps to Min.
func (p *Param) clamp(v float64) float64 {
	if math.IsNaN(v) || v < p.Min {
		return p.Min
	}
	if v > p.Max {
		return p.Max
	}
	return v
}

// Snapshot is a copy of every value at one instant.
type Snapshot map[string]float64

type pendingOverride struct {
	saved float64
	tok   *sched.Token
}

// Store is the parameter store. It is not safe for concurrent use.
type Store struct {
	params  map[string]*Param
	order   []string
	sched   *sched.Scheduler
	policy  OverlapPolicy
	log     Logger
	pending map[string]*pendingOverride
}

// Option configures a Store.
type Option func(*Store)

// WithPolicy selects the override overlap policy.
func WithPolicy(p OverlapPolicy) Option { return func(s *Store) { s.policy = p } }

// WithLogger routes diagnostics (unknown names) to l.
func WithLogger(l Logger) Option { return func(s *Store) { s.log = l } }

// New creates an empty store that schedules restores on sc.
func New(sc *sched.Scheduler, opts ...Option) *Store {
	s := &Store{
		params:  make(map[string]*Param),
		sched:   sc,
		pending: make(map[string]*pendingOverride),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Define adds or replaces a parameter. A reversed range is swapped.
func (s *Store) Define(name string, value, min, max float64) {
	if min > max {
		min, max = max, min
	}
	p, ok := s.params[name]
	if !ok {
		p = &Param{Name: name}
		s.params[name] = p
		s.order = append(s.order, name)
	}
	p.Min, p.Max = min, max
	p.Value = p.clamp(value)
}

// Policy returns the configured overlap policy.
func (s *Store) Policy() OverlapPolicy { return s.policy }

// Names returns parameter names in definition order.
func (s *Store) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Get returns the current value, or 0 for an unknown name.
func (s *Store) Get(name string) float64 {
	v, _ := s.Lookup(name)
	return v
}

// Lookup returns the current value and whether name is defined.
func (s *Store) Lookup(name string) (float64, bool) {
	p, ok := s.params[name]
	if !ok {
		return 0, false
	}
	return p.Value, true
}

// Param returns a copy of the named parameter.
func (s *Store) Param(name string) (Param, bool) {
	p, ok := s.params[name]
	if !ok {
		return Param{}, false
	}
	return *p, true
}

// Set clamps v into range and stores it. It reports false for an unknown
// name and leaves the store unchanged.
func (s *Store) Set(name string, v float64) bool {
	p := s.lookup("set", name)
	if p == nil || !s.valid("set", name, v) {
		return false
	}
	p.Value = p.clamp(v)
	return true
}

// DecayToward moves the value a fraction rate of the way to target. Rate is
// clamped to [0, 1] with NaN treated as 0; repeated calls converge on
// clamp(target) monotonically. A NaN target is rejected.
func (s *Store) DecayToward(name string, target, rate float64) bool {
	p := s.lookup("decay", name)
	if p == nil || !s.valid("decay", name, target) {
		return false
	}
	if math.IsNaN(rate) || rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}
	p.Value = p.clamp(p.Value*(1-rate) + target*rate)
	return true
}

// Override forces v for d, then restores the value saved when the window
// opened. The returned token cancels the restore. How overlapping windows on
// the same name interact depends on the store's OverlapPolicy.
func (s *Store) Override(name string, v float64, d time.Duration) (*sched.Token, bool) {
	p := s.lookup("override", name)
	if p == nil || !s.valid("override", name, v) {
		return nil, false
	}

	saved := p.Value
	if s.policy == OverlapReplace {
		if prev, ok := s.pending[name]; ok && prev.tok.Pending() {
			prev.tok.Cancel()
			saved = prev.saved
		}
	}

	p.Value = p.clamp(v)

	po := &pendingOverride{saved: saved}
	po.tok = s.sched.After(d, func() {
		p.Value = p.clamp(po.saved)
		if cur, ok := s.pending[name]; ok && cur == po {
			delete(s.pending, name)
		}
	})
	s.pending[name] = po
	return po.tok, true
}

// PendingSaved returns the value a pending override on name will restore.
func (s *Store) PendingSaved(name string) (float64, bool) {
	po, ok := s.pending[name]
	if !ok || !po.tok.Pending() {
		return 0, false
	}
	return po.saved, true
}

// Snapshot copies every value.
func (s *Store) Snapshot() Snapshot {
	out := make(Snapshot, len(s.params))
	for name, p := range s.params {
		out[name] = p.Value
	}
	return out
}

// Restore writes back the values of a snapshot. Names the store does not
// know are ignored.
func (s *Store) Restore(snap Snapshot) {
	names := make([]string, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if p, ok := s.params[name]; ok {
			p.Value = p.clamp(snap[name])
		}
	}
}

// valid rejects NaN inputs, leaving the value untouched.
func (s *Store) valid(op, name string, v float64) bool {
	if !math.IsNaN(v) {
		return true
	}
	if s.log != nil {
		s.log.WriteLineString(fmt.Sprintf("params: %s: NaN for %q ignored", op, name))
	}
	return false
}

func (s *Store) lookup(op, name string) *Param {
	p, ok := s.params[name]
	if !ok {
		if s.log != nil {
			s.log.WriteLineString(fmt.Sprintf("params: %s: unknown parameter %q", op, name))
		}
		return nil
	}
	return p
}
