// register.go wires the rotor backends into the remat package's factory
// variables. This init() runs when any package imports remat/rotor,
// breaking the import cycle between remat (interface owner) and
// remat/rotor (implementations). Production code imports remat/rotor
// directly; test code in package remat uses rotor_import_test.go for the
// blank import.
package rotor

import "github.com/remat-rotor/remat-rotor/remat"

func init() {
	remat.NewReferenceSolverFunc = func() remat.Solver { return NewReference() }
	remat.NewArenaSolverFunc = func() remat.Solver { return NewArena() }
}
