// Package soft runs the effect chain on the CPU over image.RGBA buffers.
//
// It backs headless runs, screenshots and tests. The shaders mirror the Kage
// programs in package kage pixel for pixel, modulo float precision.
package soft

import (
	"fmt"
	"image"

	"glitch/engine/fx"
	"glitch/engine/quarkgl"
)

// Backend renders a quarkgl scene and shades passes in software.
type Backend struct {
	scene     *quarkgl.Scene
	renderer  *quarkgl.Renderer
	out       *Image
	composite bool
}

// Option configures a Backend.
type Option func(*Backend)

// WithoutComposite makes the backend report no offscreen support, which
// forces the pipeline into direct rendering.
func WithoutComposite() Option { return func(b *Backend) { b.composite = false } }

// New creates a backend drawing scene into a w*h frame.
func New(scene *quarkgl.Scene, w, h int, opts ...Option) *Backend {
	b := &Backend{
		scene:     scene,
		renderer:  quarkgl.NewRenderer(w, h, true),
		out:       NewImage(w, h),
		composite: true,
	}
	b.renderer.SetRenderMode(quarkgl.RenderSolidFlat)
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Frame is the presented output.
func (b *Backend) Frame() *image.RGBA { return b.out.RGBA }

func (b *Backend) Composite() bool { return b.composite }

func (b *Backend) NewTarget(w, h int) fx.Target { return NewImage(w, h) }

func (b *Backend) Kernel(id fx.PassID) (fx.Kernel, error) {
	switch id {
	case fx.PassGlitch:
		return &kernel{id: id, fn: glitchShader}, nil
	case fx.PassRGBShift:
		return &kernel{id: id, fn: rgbShiftShader}, nil
	case fx.PassDatamosh:
		return &kernel{id: id, fn: datamoshShader}, nil
	default:
		return nil, fmt.Errorf("soft: no kernel for %s pass", id)
	}
}

func (b *Backend) RenderScene(dst fx.Target) error {
	m, err := asImage(dst)
	if err != nil {
		return err
	}
	b.renderer.Render(&quarkgl.RGBATarget{Img: m.RGBA}, b.scene)
	return nil
}

func (b *Backend) RenderDirect() error { return b.RenderScene(b.out) }

func (b *Backend) Present(src fx.Target) { b.Copy(b.out, src) }

// Copy copies src into dst. Mismatched sizes copy the overlapping region.
func (b *Backend) Copy(dst, src fx.Target) {
	d, err := asImage(dst)
	if err != nil {
		return
	}
	s, err := asImage(src)
	if err != nil {
		return
	}
	if len(d.RGBA.Pix) == len(s.RGBA.Pix) && d.RGBA.Stride == s.RGBA.Stride {
		copy(d.RGBA.Pix, s.RGBA.Pix)
		return
	}
	dw, dh := d.Size()
	sw, sh := s.Size()
	row := min(dw, sw) * 4
	for y := 0; y < min(dh, sh); y++ {
		copy(d.RGBA.Pix[y*d.RGBA.Stride:y*d.RGBA.Stride+row], s.RGBA.Pix[y*s.RGBA.Stride:y*s.RGBA.Stride+row])
	}
}

func (b *Backend) Resize(w, h int) {
	b.out.Resize(w, h)
	b.renderer.EnableDepth(true, w, h)
}
