// Package combined provides comparison benchmarks that pit the ring queue
// against the other queues in its dependency set.
//
// These benchmarks exercise realistic occupancy patterns (bursts, slow
// drift, producer/consumer handoff) rather than a single push/pop pair,
// so resize policy shows up in the numbers alongside raw per-op cost.
package combined
