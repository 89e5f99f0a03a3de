// Package scene is a minimal 3D world for exercising head-gesture
// interaction without a game engine: a two-pivot camera rig, sphere bodies
// with gravity and a floor, and ray casting against a selectable layer.
//
// Coordinates are right-handed with +Y up. The camera looks down -Z at zero
// yaw and pitch; positive yaw turns right and positive pitch looks down.
package scene
