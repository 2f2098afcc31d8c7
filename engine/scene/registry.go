// Package scene holds the indexed set of scenes and swaps their objects in
// and out of the active scene graph.
package scene

import (
	"fmt"
	"time"

	"glitch/engine/observe"
	"glitch/engine/sched"
)

// DefaultSettle is how long incoming objects stay hidden after a
// non-immediate switch.
const DefaultSettle = 300 * time.Millisecond

// Object is a renderable handle that can be shown and hidden.
type Object interface {
	Visible() bool
	SetVisible(v bool)
}

// Graph is the active scene graph.
type Graph interface {
	Add(o Object)
	Remove(o Object)
}

// Descriptor is one scene: its objects and an optional per-frame hook.
type Descriptor struct {
	Index   int
	Name    string
	Objects []Object
	Update  func(t float64)
}

// Change is published after every successful switch.
type Change struct {
	Index int
	Name  string
}

// Logger receives diagnostic lines.
type Logger interface {
	WriteLineString(s string)
}

// Registry owns the scene list, the current index and the transition
// controller.
type Registry struct {
	graph   Graph
	sched   *sched.Scheduler
	log     Logger
	settle  time.Duration
	scenes  []*Descriptor
	current int
	tr      transition
	changes observe.Hub[Change]
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger routes switch diagnostics to l.
func WithLogger(l Logger) Option { return func(r *Registry) { r.log = l } }

// WithSettle overrides the settle delay. Negative values are treated as zero.
func WithSettle(d time.Duration) Option {
	return func(r *Registry) { r.settle = max(d, 0) }
}

// NewRegistry indexes scenes in the order given. No scene is active until
// Start.
func NewRegistry(g Graph, sc *sched.Scheduler, scenes []Descriptor, opts ...Option) *Registry {
	r := &Registry{
		graph:   g,
		sched:   sc,
		settle:  DefaultSettle,
		current: -1,
	}
	for i := range scenes {
		d := scenes[i]
		d.Index = i
		r.scenes = append(r.scenes, &d)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) logf(format string, args ...any) {
	if r.log == nil {
		return
	}
	r.log.WriteLineString(fmt.Sprintf(format, args...))
}

// Start shows scene 0 immediately.
func (r *Registry) Start() bool { return r.Switch(0, true) }

// Len is the number of scenes.
func (r *Registry) Len() int { return len(r.scenes) }

// Current returns the active index, or -1 before Start.
func (r *Registry) Current() int { return r.current }

// CurrentName returns the active scene's name, or "" before Start.
func (r *Registry) CurrentName() string {
	if r.current < 0 {
		return ""
	}
	return r.scenes[r.current].Name
}

// Names lists scene names by index.
func (r *Registry) Names() []string {
	out := make([]string, len(r.scenes))
	for i, d := range r.scenes {
		out[i] = d.Name
	}
	return out
}

// State returns the transition controller's state.
func (r *Registry) State() TransitionState { return r.tr.state }

// Subscribe registers fn for scene changes.
func (r *Registry) Subscribe(fn func(Change)) *observe.Subscription {
	return r.changes.Subscribe(fn)
}

// Switch makes target the active scene. It reports false, leaving every bit
// of state untouched, when target is already current, a transition is still
// pending, or target is out of range.
//
// Outgoing objects leave the graph at once. Incoming objects join it at once
// and, unless immediate, stay hidden until the settle delay has passed.
func (r *Registry) Switch(target int, immediate bool) bool {
	switch {
	case target == r.current:
		r.logf("scene: switch to %d ignored: already current", target)
		return false
	case r.tr.pending():
		r.logf("scene: switch to %d ignored: transition pending", target)
		return false
	case target < 0 || target >= len(r.scenes):
		r.logf("scene: switch to %d ignored: out of range", target)
		return false
	}

	if r.current >= 0 {
		for _, o := range r.scenes[r.current].Objects {
			r.graph.Remove(o)
		}
	}
	next := r.scenes[target]
	for _, o := range next.Objects {
		r.graph.Add(o)
		o.SetVisible(immediate)
	}

	if !immediate {
		r.tr.begin(r.current, target, r.sched.Now())
		r.sched.After(r.settle, func() {
			for _, o := range next.Objects {
				o.SetVisible(true)
			}
			r.tr.finish()
		})
	}

	r.current = target
	r.changes.Publish(Change{Index: target, Name: next.Name})
	return true
}

// Update runs the active scene's hook.
func (r *Registry) Update(t float64) {
	if r.current < 0 {
		return
	}
	if fn := r.scenes[r.current].Update; fn != nil {
		fn(t)
	}
}
