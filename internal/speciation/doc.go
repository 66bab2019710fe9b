// Package speciation holds the equilibrium model for boron in aqueous
// solution.
//
// Total boron is written as the free monomer x plus five monomeric and
// polymeric borate terms, each of the form c·x^p / y^q where y is the
// hydrogen-ion activity 10^(-pH):
//
//	term  c          p  q
//	a     10^-9.2    1  1
//	b     10^-7.29   3  1
//	c     10^-6.77   5  1
//	d     10^-14.5   4  2
//	e     10^-16.3   3  2
//
// Species fractions are taken in reverse table order: e is k1 and a is k5.
// The mapping is fixed; integrals and cumulative curves downstream depend on
// it.
//
// Everything in this package is a pure function of its arguments.
package speciation
