package remat_test

// Blank import triggers remat/rotor's init(), which registers the backend
// factory variables. This allows package remat's internal test files to
// create solvers without directly importing remat/rotor (which would
// create an import cycle).
import _ "github.com/remat-rotor/remat-rotor/remat/rotor"
