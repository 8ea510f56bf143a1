// Package picking casts rays from the screen to find the node under the cursor.
package picking

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-g3d/internal/engine/model"
	"github.com/Faultbox/midgard-g3d/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invCombined is the inverse of the projection * view matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invCombined math.Mat4) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // Flip Y

	near := invCombined.TransformVec3(math.Vec3{X: ndcX, Y: ndcY, Z: -1})
	far := invCombined.TransformVec3(math.Vec3{X: ndcX, Y: ndcY, Z: 1})

	return Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectBounds tests ray intersection with an axis-aligned box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectBounds(box model.Bounds) (t float32, hit bool) {
	if box.Empty() {
		return 0, false
	}

	tmin := math32.Inf(-1)
	tmax := math32.Inf(1)

	origin := [3]float32{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float32{r.Direction.X, r.Direction.Y, r.Direction.Z}
	lo := [3]float32{box.Min.X, box.Min.Y, box.Min.Z}
	hi := [3]float32{box.Max.X, box.Max.Y, box.Max.Z}

	for i := 0; i < 3; i++ {
		if dir[i] == 0 {
			if origin[i] < lo[i] || origin[i] > hi[i] {
				return 0, false
			}
			continue
		}
		t1 := (lo[i] - origin[i]) / dir[i]
		t2 := (hi[i] - origin[i]) / dir[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}

	// Entry point, or exit point if starting inside
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// Hit is a picked node.
type Hit struct {
	Node     *model.Node
	Distance float32
}

// PickNode returns the nearest node of inst whose mesh bounds the ray hits.
// Nodes without parts are never picked. World transforms must be current.
func PickNode(inst *model.Instance, r Ray) (Hit, bool) {
	var best Hit
	found := false
	inst.Nodes.Each(func(_ model.NodeID, n *model.Node) {
		box := model.EmptyBounds()
		for _, p := range n.Parts {
			if p.Mesh != nil && p.Mesh.Mesh != nil {
				box = box.Union(p.Mesh.Mesh.Bounds().Transform(n.World))
			}
		}
		t, ok := r.IntersectBounds(box)
		if !ok {
			return
		}
		if !found || t < best.Distance {
			best = Hit{Node: n, Distance: t}
			found = true
		}
	})
	return best, found
}
