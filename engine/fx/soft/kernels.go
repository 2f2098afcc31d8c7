package soft

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"glitch/engine/fx"
)

var errForeignTarget = errors.New("soft: target not created by this backend")

type shader func(src, prev *Image, u, v float64, un fx.Uniforms) rgb

type kernel struct {
	id fx.PassID
	fn shader
}

func asImage(t fx.Target) (*Image, error) {
	m, ok := t.(*Image)
	if !ok || m == nil {
		return nil, fmt.Errorf("%w: %T", errForeignTarget, t)
	}
	return m, nil
}

// Apply shades dst row by row, splitting rows across CPUs.
func (k *kernel) Apply(dst, src, prev fx.Target, un fx.Uniforms) error {
	d, err := asImage(dst)
	if err != nil {
		return fmt.Errorf("%s dst: %w", k.id, err)
	}
	s, err := asImage(src)
	if err != nil {
		return fmt.Errorf("%s src: %w", k.id, err)
	}
	p := s
	if prev != nil {
		if p, err = asImage(prev); err != nil {
			return fmt.Errorf("%s prev: %w", k.id, err)
		}
	}

	w, h := d.Size()
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	const band = 16
	for y0 := 0; y0 < h; y0 += band {
		y1 := min(y0+band, h)
		g.Go(func() error {
			for y := y0; y < y1; y++ {
				v := 1 - (float64(y)+0.5)/float64(h)
				for x := 0; x < w; x++ {
					u := (float64(x) + 0.5) / float64(w)
					d.set(x, y, k.fn(s, p, u, v, un))
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func f(un fx.Uniforms, name string) float64 { return float64(un[name]) }

func glitchShader(src, _ *Image, u, v float64, un fx.Uniforms) rgb {
	amount := f(un, "amount")
	seed := f(un, "seed")
	t := f(un, "time") * f(un, "speed")
	t2 := f(un, "time") * f(un, "rollSpeed")

	block := math.Floor(v*12 + t*8)
	if br := random(block, seed); br > 0.92 {
		u += (br - 0.5) * f(un, "distortion")
	}
	u += (noise(v*100, t*10) - 0.5) * amount * 0.02
	v += math.Sin(v*2+t2*3) * amount * 0.01

	ab := amount * 0.01
	c := rgb{
		r: src.sample(u+ab, v).r,
		g: src.sample(u, v).g,
		b: src.sample(u-ab, v).b,
	}

	scan := math.Sin(v*800) * 0.04
	grain := noise(u*500+t*10, v*500+t*10) * amount * 0.1
	d := grain - scan
	c = rgb{c.r + d, c.g + d, c.b + d}

	if random(t, seed) > 0.998 {
		c = rgb{1, 1, 1}
	}
	if step(0.97, random(math.Floor(v*50), t)) > 0.5 {
		u += (random(v, t) - 0.5) * f(un, "distortion2")
		c = src.sample(u, v)
	}
	return c
}

func rgbShiftShader(src, _ *Image, u, v float64, un fx.Uniforms) rgb {
	amount := f(un, "amount")
	angle := f(un, "angle")
	ox, oy := amount*math.Cos(angle), amount*math.Sin(angle)
	return rgb{
		r: src.sample(u+ox, v+oy).r,
		g: src.sample(u, v).g,
		b: src.sample(u-ox, v-oy).b,
	}
}

func datamoshShader(src, prev *Image, u, v float64, un fx.Uniforms) rgb {
	amount := f(un, "amount")
	t := f(un, "time")
	previous := prev.sample(u, v)

	bu, bv := math.Floor(u*8)/8, math.Floor(v*8)/8
	var c rgb
	if random(bu+t, bv+t) > 1-amount*0.3 {
		ox := (random(bu, bv) - 0.5) * 0.02 * amount
		oy := (random(bu+0.5, bv+0.5) - 0.5) * 0.02 * amount
		c = prev.sample(u+ox, v+oy)
	} else {
		c = src.sample(u, v)
	}

	blk := step(0.5, fract(u*40)) * step(0.5, fract(v*30)) * 0.05 * amount
	c = rgb{c.r - blk, c.g - blk, c.b - blk}

	if random(bu+t*0.5, bv+t*0.5) > 0.95 {
		c.r = previous.r
	}
	if random(bu+t*0.7, bv+t*0.7) > 0.95 {
		c.g = previous.g
	}
	return c
}
