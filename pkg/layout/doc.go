// Package layout computes deterministic 2D positions for the curriculum
// network using a force-directed (spring) model.
//
// # Algorithm
//
// [Spring] implements the Fruchterman-Reingold model. Nodes start at
// pseudo-random points in the unit square drawn from a PCG generator seeded
// with [Options.Seed]. Each iteration applies:
//
//   - repulsion k²/d between every pair of nodes
//   - attraction d²/k along every edge (hard and soft edges alike, direction
//     ignored)
//
// and moves every node by at most the current temperature, which cools
// linearly from a tenth of the initial spread to zero. The run stops after
// exactly [Options.Iterations] steps; there is no convergence test. The
// result is centred on the origin and scaled so the largest coordinate
// magnitude equals [Options.Scale].
//
// Runtime is O(iterations × (V² + E)).
//
// # Determinism
//
// Nodes are processed in sorted ID order on a single goroutine, so the same
// graph and seed give bit-identical positions on a given platform. Callers
// compute a layout once per graph and reuse it; see the dataset package.
package layout
