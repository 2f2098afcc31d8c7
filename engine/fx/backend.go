package fx

import "errors"

// ErrNoComposite is reported when the backend cannot render offscreen.
var ErrNoComposite = errors.New("fx: compositing unavailable")

// Target is an offscreen color buffer owned by a backend.
type Target interface {
	Size() (w, h int)
	Resize(w, h int)
}

// Kernel is a compiled screen-space pass. It reads src (and prev, the
// history frame, when the pass wants one) and writes dst.
type Kernel interface {
	Apply(dst, src, prev Target, u Uniforms) error
}

// Backend is the rendering collaborator the pipeline drives.
//
// Every Target passed back into a backend was created by that backend's
// NewTarget.
type Backend interface {
	// Composite reports whether offscreen targets are available.
	Composite() bool
	NewTarget(w, h int) Target
	// Kernel builds the program for a screen-space pass.
	Kernel(id PassID) (Kernel, error)
	// RenderScene draws the 3D scene into dst.
	RenderScene(dst Target) error
	// RenderDirect draws the 3D scene straight to the output surface.
	RenderDirect() error
	// Present copies src to the output surface.
	Present(src Target)
	Copy(dst, src Target)
	// Resize resizes the output surface.
	Resize(w, h int)
}
