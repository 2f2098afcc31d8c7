package world

import (
	"glitch/engine/quarkgl"
	"glitch/engine/scene"
)

// Graph exposes a quarkgl scene to the scene registry. Objects that are not
// quarkgl nodes are ignored.
type Graph struct {
	Scene *quarkgl.Scene
}

func (g Graph) Add(o scene.Object) {
	if n, ok := o.(*quarkgl.Node); ok {
		g.Scene.Add(n)
	}
}

func (g Graph) Remove(o scene.Object) {
	if n, ok := o.(*quarkgl.Node); ok {
		g.Scene.Remove(n)
	}
}
