// Package services defines the shared error taxonomy consumed by the
// pipeline stages.
//
// Each failure mode a file can hit (probe, policy, encode, validation,
// missing file) has a sentinel marker, and the Wrap helper stamps
// stage/operation context onto errors so per-file outcomes can be classified
// without string matching. Use these markers when wiring new stage logic so
// error handling stays uniform across the pipeline.
package services
