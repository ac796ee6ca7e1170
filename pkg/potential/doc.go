// Package potential computes membrane potentials from ion gradients.
//
// It provides three closed-form calculators:
//
//   - Nernst: the equilibrium potential of a single ion species
//   - GHK3: the Goldman-Hodgkin-Katz potential for K, Na and Cl
//   - GHK4: GHK3 plus a calcium term, in one of two CalciumMode variants
//
// All results are in millivolts. Every function is pure: identical inputs
// always produce bit-identical output.
package potential
