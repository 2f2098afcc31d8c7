package frame

import (
	"time"

	"glitch/engine/hud"
	"glitch/engine/sched"
)

// Loading steps shown while the app is assembled.
const (
	StepRenderer = 10
	StepModules  = 30
	StepShaders  = 60
	StepEngine   = 80
)

var stepText = map[int]string{
	StepRenderer: "LOADING_RENDERER",
	StepModules:  "INITIALIZING_MODULES",
	StepShaders:  "COMPILING_SHADERS",
	StepEngine:   "STARTING_RENDER_ENGINE",
}

// Loading reports one boot step on s.
func Loading(s hud.Surface, step int) {
	if s == nil {
		return
	}
	s.SetLoading(step, stepText[step])
}

// FinishLoading completes the bar after a second and hides it half a second
// later.
func FinishLoading(s hud.Surface, sc *sched.Scheduler) {
	if s == nil {
		return
	}
	sc.After(time.Second, func() {
		s.SetLoading(100, "COMPLETE")
		sc.After(500*time.Millisecond, s.HideLoading)
	})
}
