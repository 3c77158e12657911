package common

// Plane represents a plane in 3D space using the equation: ax + by + cz + d = 0
// where (a, b, c) is the normal and d is the distance from origin.
type Plane struct {
	Normal   Vec3
	Distance float32
}

// SignedDistance returns the signed distance from a point to the plane.
// Positive values are on the side the normal points toward.
//
// Parameters:
//   - p: the point to test
//
// Returns:
//   - float32: the signed distance
func (pl Plane) SignedDistance(p Vec3) float32 {
	return pl.Normal.Dot(p) + pl.Distance
}

// normalize scales the plane so the normal has unit length.
func (pl Plane) normalize() Plane {
	length := pl.Normal.Length()
	if length > 0 {
		inv := 1.0 / length
		pl.Normal = pl.Normal.Scale(inv)
		pl.Distance *= inv
	}
	return pl
}

// Sphere is a world-space bounding sphere used for cheap intersection tests.
type Sphere struct {
	Center Vec3
	Radius float32
}

// Frustum represents the six planes of a view frustum for culling.
// Planes are oriented so that positive half-space is inside the frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumPlane indices for clarity
const (
	FrustumLeft   = 0
	FrustumRight  = 1
	FrustumBottom = 2
	FrustumTop    = 3
	FrustumNear   = 4
	FrustumFar    = 5
)

// ExtractFrustumFromMatrix extracts frustum planes from a view-projection matrix.
// The matrix should be the combined View * Projection matrix.
// Uses the Gribb/Hartmann method for plane extraction: each plane is the sum
// or difference of matrix row 3 and one of rows 0-2.
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
//
// Parameters:
//   - viewProj: 16 float32 values representing the view-projection matrix (column-major)
//
// Returns:
//   - Frustum: the extracted frustum with normalized planes
func ExtractFrustumFromMatrix(viewProj []float32) Frustum {
	// row returns row r of the column-major matrix as (x, y, z, w).
	row := func(r int) [4]float32 {
		return [4]float32{viewProj[r], viewProj[4+r], viewProj[8+r], viewProj[12+r]}
	}
	r3 := row(3)

	// Plane order matches the Frustum* indices: left/right from row 0,
	// bottom/top from row 1, near/far from row 2. Even entries add the row,
	// odd entries subtract it.
	combos := [6]struct {
		row  int
		sign float32
	}{
		{0, 1}, {0, -1},
		{1, 1}, {1, -1},
		{2, 1}, {2, -1},
	}

	var f Frustum
	for i, c := range combos {
		r := row(c.row)
		f.Planes[i] = Plane{
			Normal:   Vec3{r3[0] + c.sign*r[0], r3[1] + c.sign*r[1], r3[2] + c.sign*r[2]},
			Distance: r3[3] + c.sign*r[3],
		}.normalize()
	}
	return f
}

// IntersectsSphere reports whether a bounding sphere is at least partially
// inside the frustum. A sphere entirely behind any plane is outside.
//
// Parameters:
//   - s: the world-space bounding sphere to test
//
// Returns:
//   - bool: true if the sphere intersects or is contained by the frustum
func (f Frustum) IntersectsSphere(s Sphere) bool {
	for i := range f.Planes {
		if f.Planes[i].SignedDistance(s.Center) < -s.Radius {
			return false
		}
	}
	return true
}

// ContainsPoint reports whether a point lies inside the frustum.
//
// Parameters:
//   - p: the world-space point to test
//
// Returns:
//   - bool: true if the point is inside all six planes
func (f Frustum) ContainsPoint(p Vec3) bool {
	return f.IntersectsSphere(Sphere{Center: p})
}
