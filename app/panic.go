package app

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// guard turns a panic inside one frame into an error after writing the
// value and stack to the host log, line by line.
func (a *App) guard(fn func() error) (err error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		a.log.WriteLineString(fmt.Sprintf("glitch panic: tick=%d panic=%v", a.ticks, v))
		for _, line := range strings.Split(string(debug.Stack()), "\n") {
			if line == "" {
				continue
			}
			a.log.WriteLineString(line)
		}
		err = fmt.Errorf("%w: %v", errPanic, v)
	}()
	return fn()
}
