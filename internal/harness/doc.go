// Package harness runs conformance scenarios against compiled L-systems.
//
// A scenario names a CUE definition file and a system in it, derives a
// number of generations through a session backed by an in-memory store,
// and checks the result:
//
//   - expect: exact symbol sequences at given generations
//   - assertions: length, contains, count, reset_reproduces, deterministic
//
// Scenarios run with a fixed run ID and a deterministic clock, so the
// recorded trace is byte-identical across runs and can be compared with
// a golden file (see RunWithGolden).
//
// Example scenario:
//
//	name: algae_growth
//	description: Lindenmayer's algae doubles in Fibonacci steps
//	spec: specs/algae.cue
//	system: algae
//	generations: 5
//	expect:
//	  - generation: 5
//	    symbols: abaababaabaab
//	assertions:
//	  - type: length
//	    generation: 5
//	    length: 13
//	  - type: deterministic
package harness
