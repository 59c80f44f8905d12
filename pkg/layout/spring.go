package layout

import (
	"math"
	"math/rand/v2"

	"github.com/fhgr/curnav/pkg/depgraph"
)

// Defaults match the spacing the curriculum network has always been drawn
// with.
const (
	DefaultK          = 3.5
	DefaultIterations = 300
	DefaultSeed       = uint64(42)
	DefaultScale      = 1.0
)

const (
	minDistance     = 0.01 // clamp for pair distances and displacement lengths
	initialTempFrac = 0.1  // initial temperature as a fraction of the spread
)

// Options configures [Spring].
type Options struct {
	K          float64 `json:"k" bson:"k"`                   // optimal node spacing
	Iterations int     `json:"iterations" bson:"iterations"` // fixed number of steps
	Seed       uint64  `json:"seed" bson:"seed"`             // initial position seed
	Scale      float64 `json:"scale" bson:"scale"`           // half-width of the output box
}

// DefaultOptions returns the default layout options.
func DefaultOptions() Options {
	return Options{K: DefaultK, Iterations: DefaultIterations, Seed: DefaultSeed, Scale: DefaultScale}
}

// SetDefaults fills zero fields with defaults, so a zero seed selects
// DefaultSeed.
func (o *Options) SetDefaults() {
	if o.K <= 0 {
		o.K = DefaultK
	}
	if o.Iterations <= 0 {
		o.Iterations = DefaultIterations
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
}

// Position is a 2D coordinate.
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Positions maps node IDs to coordinates.
type Positions map[string]Position

// Bounds returns the bottom-left and top-right corners of the bounding box.
// Both are zero for an empty map.
func (p Positions) Bounds() (lo, hi Position) {
	first := true
	for _, pos := range p {
		if first {
			lo, hi = pos, pos
			first = false
			continue
		}
		lo.X, lo.Y = min(lo.X, pos.X), min(lo.Y, pos.Y)
		hi.X, hi.Y = max(hi.X, pos.X), max(hi.Y, pos.Y)
	}
	return lo, hi
}

// Spring computes a force-directed layout of g. Zero option fields take their
// defaults. An empty graph yields an empty map and a single node sits at the
// origin.
func Spring(g *depgraph.Graph, opts Options) Positions {
	opts.SetDefaults()

	ids := g.NodeIDs()
	n := len(ids)
	out := make(Positions, n)
	switch n {
	case 0:
		return out
	case 1:
		out[ids[0]] = Position{}
		return out
	}

	index := make(map[string]int, n)
	for i, id := range ids {
		index[id] = i
	}
	adj := make([][]bool, n)
	for i := range adj {
		adj[i] = make([]bool, n)
	}
	for _, e := range g.Edges() {
		i, j := index[e.From], index[e.To]
		if i == j {
			continue
		}
		adj[i][j], adj[j][i] = true, true
	}

	pos := initialPositions(n, opts.Seed)
	temp := initialTempFrac * spread(pos)
	dt := temp / float64(opts.Iterations+1)
	k := opts.K
	disp := make([]Position, n)

	for range opts.Iterations {
		for i := range disp {
			disp[i] = Position{}
		}
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				dx, dy := pos[i].X-pos[j].X, pos[i].Y-pos[j].Y
				if dx == 0 && dy == 0 {
					dx, dy = nudge(i, j, n)
				}
				d := math.Max(math.Hypot(dx, dy), minDistance)
				f := k * k / (d * d)
				if adj[i][j] {
					f -= d / k
				}
				disp[i].X += dx * f
				disp[i].Y += dy * f
			}
		}
		for i := range pos {
			l := math.Max(math.Hypot(disp[i].X, disp[i].Y), minDistance)
			pos[i].X += disp[i].X * temp / l
			pos[i].Y += disp[i].Y * temp / l
		}
		temp -= dt
	}

	rescale(pos, opts.Scale)
	for i, id := range ids {
		out[id] = pos[i]
	}
	return out
}

func initialPositions(n int, seed uint64) []Position {
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	pos := make([]Position, n)
	for i := range pos {
		pos[i] = Position{X: rng.Float64(), Y: rng.Float64()}
	}
	return pos
}

// spread returns the larger side of the bounding box of pos.
func spread(pos []Position) float64 {
	lo, hi := pos[0], pos[0]
	for _, p := range pos[1:] {
		lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
		hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
	}
	return max(hi.X-lo.X, hi.Y-lo.Y)
}

// nudge returns a small deterministic separation vector for coincident nodes
// i and j. nudge(j, i) is the exact opposite of nudge(i, j).
func nudge(i, j, n int) (float64, float64) {
	a, b, sign := i, j, 1.0
	if a > b {
		a, b, sign = b, a, -1.0
	}
	theta := 2 * math.Pi * float64(a*n+b) / float64(n*n)
	return sign * minDistance * math.Cos(theta), sign * minDistance * math.Sin(theta)
}

// rescale centres pos on the origin and scales the largest absolute
// coordinate to scale.
func rescale(pos []Position, scale float64) {
	var cx, cy float64
	for _, p := range pos {
		cx += p.X
		cy += p.Y
	}
	cx /= float64(len(pos))
	cy /= float64(len(pos))

	var lim float64
	for i := range pos {
		pos[i].X -= cx
		pos[i].Y -= cy
		lim = max(lim, math.Abs(pos[i].X), math.Abs(pos[i].Y))
	}
	if lim == 0 {
		return
	}
	for i := range pos {
		pos[i].X *= scale / lim
		pos[i].Y *= scale / lim
	}
}
