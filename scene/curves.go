package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/chewxy/math32"

	"scene-viewer/math"
)

var ErrUnknownPath = errors.New("unknown camera path")

// bezierBasis is the cubic Bernstein basis in power form, so that a point on
// the curve is [t^3 t^2 t 1] * bezierBasis * P.
var bezierBasis = math.NewMat4(
	-1, 3, -3, 1,
	3, -6, 3, 0,
	-3, 3, 0, 0,
	1, 0, 0, 0,
)

// BezierCubic is a single cubic Bezier segment.
type BezierCubic struct {
	points [4]math.Vec3
}

func NewBezierCubic(p0, p1, p2, p3 math.Vec3) BezierCubic {
	return BezierCubic{points: [4]math.Vec3{p0, p1, p2, p3}}
}

// Append returns the segment that continues b with matching position and
// tangent at the joint. Only the two far control points are free.
func (b BezierCubic) Append(p2, p3 math.Vec3) BezierCubic {
	p0 := b.points[3]
	p1 := p0.Mul(2).Sub(b.points[2])
	return NewBezierCubic(p0, p1, p2, p3)
}

// Sample evaluates the segment at t. Values outside [0, 1] extrapolate the
// cubic.
func (b BezierCubic) Sample(t float32) math.Vec3 {
	powers := math.NewVec4(t*t*t, t*t, t, 1)
	// Row vector times matrix, expressed as a column product on the transpose.
	w := bezierBasis.Transpose().MulVec(powers)

	return b.points[0].Mul(w.X).
		Add(b.points[1].Mul(w.Y)).
		Add(b.points[2].Mul(w.Z)).
		Add(b.points[3].Mul(w.W))
}

func (b BezierCubic) ControlPoints() [4]math.Vec3 {
	return b.points
}

// BezierSpline is a C1 chain of cubic segments parameterized over [0, 1].
type BezierSpline struct {
	segments []BezierCubic
}

func NewBezierSpline(first BezierCubic) *BezierSpline {
	return &BezierSpline{segments: []BezierCubic{first}}
}

// AddSegment continues the spline from its last segment.
func (s *BezierSpline) AddSegment(p2, p3 math.Vec3) {
	last := s.segments[len(s.segments)-1]
	s.segments = append(s.segments, last.Append(p2, p3))
}

func (s *BezierSpline) Len() int {
	return len(s.segments)
}

func (s *BezierSpline) Segment(i int) BezierCubic {
	return s.segments[i]
}

// Sample maps t in [0, 1] uniformly across the segments. Parameters outside
// that range extrapolate the first or last segment.
func (s *BezierSpline) Sample(t float32) math.Vec3 {
	n := len(s.segments)
	if n == 0 {
		return math.Vec3Zero
	}

	scaled := t * float32(n)
	index := int(math32.Floor(scaled))
	if index < 0 {
		index = 0
	}
	if index > n-1 {
		index = n - 1
	}
	return s.segments[index].Sample(scaled - float32(index))
}

// TiltedCirclePath is a closed loop in the XY plane, leaning in Z, that
// passes through the poles (0,-1,0) and (0,1,0).
func TiltedCirclePath() *BezierSpline {
	path := NewBezierSpline(NewBezierCubic(
		math.NewVec3(0, -1, 0),
		math.NewVec3(1.33, -1, -0.77),
		math.NewVec3(1.33, 1, -0.77),
		math.NewVec3(0, 1, 0),
	))
	path.AddSegment(math.NewVec3(-1.33, -1, 0.77), math.NewVec3(0, -1, 0))
	return path
}

// FlatCirclePath is a closed loop in the horizontal plane.
func FlatCirclePath() *BezierSpline {
	path := NewBezierSpline(NewBezierCubic(
		math.NewVec3(0, 0, 1),
		math.NewVec3(1.33, 0, 1),
		math.NewVec3(1.33, 0, -1),
		math.NewVec3(0, 0, -1),
	))
	path.AddSegment(math.NewVec3(-1.33, 0, 1), math.NewVec3(0, 0, 1))
	return path
}

var pathPresets = map[string]func() *BezierSpline{
	"tilted": TiltedCirclePath,
	"flat":   FlatCirclePath,
}

// PathPreset returns a fresh copy of a named camera path.
func PathPreset(name string) (*BezierSpline, error) {
	build, ok := pathPresets[name]
	if !ok {
		return nil, fmt.Errorf("path %q: %w", name, ErrUnknownPath)
	}
	return build(), nil
}

// PathPresetNames lists the accepted PathPreset names in sorted order.
func PathPresetNames() []string {
	names := make([]string, 0, len(pathPresets))
	for name := range pathPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
