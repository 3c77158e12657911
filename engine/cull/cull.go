// package cull marks renderable objects outside the camera's view frustum as
// non-renderable. Each object is tested once per frame through a bounding
// sphere vs frustum plane check; results are order-independent, so large
// object sets can optionally be fanned out to a worker pool and joined before
// the frame continues.
package cull

import (
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/neoncity/engine/common"
)

// Object is one cullable renderable primitive. The world bounding sphere is
// computed lazily from the local bounds and transform on first encounter and
// cached until the transform changes.
type Object struct {
	// Transform is the object's world matrix (16 elements, column-major).
	Transform [16]float32

	// LocalCenter is the bounding-sphere center in object-local space.
	LocalCenter common.Vec3

	// LocalRadius is the bounding-sphere radius in object-local space.
	LocalRadius float32

	// Visible is recomputed every frame by Cull.
	Visible bool

	sphere    common.Sphere
	hasSphere bool
}

// SetTransform replaces the world matrix and invalidates the cached world
// bounding sphere.
//
// Parameters:
//   - m: the new world matrix (16 elements, column-major)
func (o *Object) SetTransform(m [16]float32) {
	o.Transform = m
	o.hasSphere = false
}

// WorldSphere returns the object's world-space bounding sphere, computing and
// caching it on first use. The radius is scaled by the transform's largest
// axis scale so the sphere stays conservative under non-uniform scaling.
//
// Returns:
//   - common.Sphere: the world-space bounding sphere
func (o *Object) WorldSphere() common.Sphere {
	if !o.hasSphere {
		o.sphere = common.Sphere{
			Center: common.TransformPoint(o.Transform[:], o.LocalCenter),
			Radius: o.LocalRadius * common.MaxScale(o.Transform[:]),
		}
		o.hasSphere = true
	}
	return o.sphere
}

// Culler runs the per-frame visibility pass.
type Culler interface {
	// Cull tests every object against the frustum and mutates Visible in
	// place. Idempotent and order-independent: the result for one object
	// never depends on any other.
	//
	// Parameters:
	//   - frustum: the view frustum extracted for this frame
	//   - objects: the objects to test
	Cull(frustum common.Frustum, objects []*Object)
}

type culler struct {
	// pool fans object batches out to reusable goroutines when the object
	// count makes it worthwhile. Nil means every pass runs serially.
	pool worker.DynamicWorkerPool

	batchSize int
	taskID    int
}

var _ Culler = &culler{}

// NewCuller creates a Culler. Passes run serially unless a worker pool is
// enabled via WithWorkers.
//
// Parameters:
//   - options: functional options for culler configuration
//
// Returns:
//   - Culler: the newly created culler
func NewCuller(options ...CullerOption) Culler {
	c := &culler{
		batchSize: 128,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *culler) Cull(frustum common.Frustum, objects []*Object) {
	if c.pool == nil || len(objects) < c.batchSize*2 {
		cullRange(frustum, objects)
		return
	}

	// Fan batches out to the pool and join before returning so the frame
	// keeps its synchronous ordering guarantees.
	var wg sync.WaitGroup
	for start := 0; start < len(objects); start += c.batchSize {
		end := min(start+c.batchSize, len(objects))
		batch := objects[start:end]

		wg.Add(1)
		id := c.taskID
		c.taskID++
		c.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				cullRange(frustum, batch)
				return nil, nil
			},
		})
	}
	wg.Wait()
}

// cullRange tests one contiguous slice of objects.
func cullRange(frustum common.Frustum, objects []*Object) {
	for _, o := range objects {
		if o == nil {
			continue
		}
		o.Visible = frustum.IntersectsSphere(o.WorldSphere())
	}
}
