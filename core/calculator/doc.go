// Package calculator defines the CO2 calculators and the registry dispatching
// to them by name.
//
// Each calculator is described by a Descriptor pairing an untyped-payload
// parser with a typed invoke function and a carbon extractor. The set of
// calculators is closed: descriptors are built by the New* constructors at
// startup and resolved through a single lookup table, never through
// open-ended reflection.
package calculator
