// Package kage runs the effect chain on the GPU through ebiten offscreen
// images and Kage shaders.
//
// The 3D scene itself is rasterized by quarkgl on the CPU and uploaded once
// per frame; only the screen-space passes run as shaders.
package kage

import (
	"embed"
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"glitch/engine/fx"
	"glitch/engine/quarkgl"
)

//go:embed shaders/*.kage
var shaderFS embed.FS

var shaderFiles = map[fx.PassID]string{
	fx.PassGlitch:   "shaders/glitch.kage",
	fx.PassRGBShift: "shaders/rgbshift.kage",
	fx.PassDatamosh: "shaders/datamosh.kage",
}

// Source returns the complete Kage program for a pass.
func Source(id fx.PassID) ([]byte, error) {
	name, ok := shaderFiles[id]
	if !ok {
		return nil, fmt.Errorf("kage: no shader for %s pass", id)
	}
	main, err := shaderFS.ReadFile(name)
	if err != nil {
		return nil, err
	}
	common, err := shaderFS.ReadFile("shaders/common.kage")
	if err != nil {
		return nil, err
	}
	src := make([]byte, 0, len(main)+len(common)+1)
	src = append(src, main...)
	src = append(src, '\n')
	return append(src, common...), nil
}

// Image is a GPU render target.
type Image struct {
	Img *ebiten.Image
}

func newImage(w, h int) *Image { return &Image{Img: ebiten.NewImage(max(w, 1), max(h, 1))} }

func (m *Image) Size() (w, h int) { return m.Img.Bounds().Dx(), m.Img.Bounds().Dy() }

// Resize swaps in a new image when the size changes.
func (m *Image) Resize(w, h int) {
	w, h = max(w, 1), max(h, 1)
	if cw, ch := m.Size(); cw == w && ch == h {
		return
	}
	m.Img.Deallocate()
	m.Img = ebiten.NewImage(w, h)
}

// Backend presents into an output image that the window draws each frame.
// Draw commands are queued by ebiten, so the chain may run from Update.
type Backend struct {
	scene    *quarkgl.Scene
	renderer *quarkgl.Renderer
	cpu      *image.RGBA
	upload   *Image
	out      *Image
}

// New creates a backend for a w*h render size.
func New(scene *quarkgl.Scene, w, h int) *Backend {
	b := &Backend{
		scene:    scene,
		renderer: quarkgl.NewRenderer(w, h, true),
		cpu:      image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1))),
		upload:   newImage(w, h),
		out:      newImage(w, h),
	}
	b.renderer.SetRenderMode(quarkgl.RenderSolidFlat)
	return b
}

// Output is the presented frame.
func (b *Backend) Output() *ebiten.Image { return b.out.Img }

func (b *Backend) Composite() bool { return true }

func (b *Backend) NewTarget(w, h int) fx.Target { return newImage(w, h) }

func (b *Backend) Kernel(id fx.PassID) (fx.Kernel, error) {
	src, err := Source(id)
	if err != nil {
		return nil, err
	}
	sh, err := ebiten.NewShader(src)
	if err != nil {
		return nil, fmt.Errorf("kage: compile %s: %w", id, err)
	}
	return &kernel{shader: sh}, nil
}

func (b *Backend) rasterize() {
	b.renderer.Render(&quarkgl.RGBATarget{Img: b.cpu}, b.scene)
}

func (b *Backend) RenderScene(dst fx.Target) error {
	m, ok := dst.(*Image)
	if !ok {
		return fmt.Errorf("kage: foreign target %T", dst)
	}
	b.rasterize()
	m.Img.WritePixels(b.cpu.Pix)
	return nil
}

func (b *Backend) RenderDirect() error {
	if err := b.RenderScene(b.upload); err != nil {
		return err
	}
	b.Present(b.upload)
	return nil
}

// Present copies src into the output image.
func (b *Backend) Present(src fx.Target) { b.Copy(b.out, src) }

func (b *Backend) Copy(dst, src fx.Target) {
	d, ok1 := dst.(*Image)
	s, ok2 := src.(*Image)
	if !ok1 || !ok2 {
		return
	}
	d.Img.Clear()
	d.Img.DrawImage(s.Img, nil)
}

func (b *Backend) Resize(w, h int) {
	w, h = max(w, 1), max(h, 1)
	if b.cpu.Bounds().Dx() != w || b.cpu.Bounds().Dy() != h {
		b.cpu = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	b.upload.Resize(w, h)
	b.out.Resize(w, h)
	b.renderer.EnableDepth(true, w, h)
}

type kernel struct {
	shader *ebiten.Shader
}

// uniformName maps pass uniform names to exported Kage variables.
func uniformName(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

func (k *kernel) Apply(dst, src, prev fx.Target, u fx.Uniforms) error {
	d, ok := dst.(*Image)
	if !ok {
		return fmt.Errorf("kage: foreign dst %T", dst)
	}
	s, ok := src.(*Image)
	if !ok {
		return fmt.Errorf("kage: foreign src %T", src)
	}
	p := s
	if prev != nil {
		if p, ok = prev.(*Image); !ok {
			return fmt.Errorf("kage: foreign prev %T", prev)
		}
	}

	uniforms := make(map[string]any, len(u))
	for name, v := range u {
		uniforms[uniformName(name)] = v
	}
	w, h := d.Size()
	op := &ebiten.DrawRectShaderOptions{Uniforms: uniforms}
	op.Images[0] = s.Img
	op.Images[1] = p.Img
	d.Img.DrawRectShader(w, h, k.shader, op)
	return nil
}
