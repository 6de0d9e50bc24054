// Package remat plans activation rematerialization for traced computation
// graphs: given a profiled forward path and a memory budget, it computes
// the optimal choice of which activations to keep and which to drop and
// recompute during backward, minimizing total compute time under the
// memory ceiling.
//
// # Reading Guide
//
// Start with these three files to understand the core:
//   - graph.go: Node and Sequence, the profiled input the solver consumes
//   - opttable.go: Budget discretization and the (m, i, j) decision table
//   - materializer.go: unwinding the table into an executable schedule
//
// # Architecture
//
// The remat package defines the data model and the Solver interface;
// implementations live in sub-packages:
//   - remat/rotor/: the two DP backends (Reference, Arena)
//   - remat/graphgen/: deterministic random and adversarial sequences
//     for the consistency harness and property tests
//
// Sub-packages register their constructors via init() functions that set
// package-level factory variables (NewReferenceSolverFunc,
// NewArenaSolverFunc).
//
// # Determinism
//
// A solve is a pure function of (Sequence, Budget): integer tick costs,
// a fixed discretization rule, and a fixed tie-break (full retention
// first, then the smallest checkpoint boundary on strictly lower cost).
// Both backends must therefore produce bit-identical tables and
// schedules; Compare in harness.go checks exactly that and reports every
// diverging coordinate.
package remat
