// Package quarkgl is a small, predictable software 3D renderer.
//
// It draws wireframe meshes, line sets and point clouds into a caller-provided
// Target. Scenes hold Nodes: each node owns its geometry, a transform and a
// visible flag, and can be added to or removed from a Scene at any time.
//
// Pipeline (fixed):
//
//	Scene → Transform → Projection → Clipping → Rasterization → Fog → Target.
//
// The renderer avoids allocations in the render hot path and keeps no state
// beyond its depth buffer, so one Renderer can be reused across frames.
package quarkgl
