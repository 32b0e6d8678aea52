// Package probe reduces raw ffprobe output to the per-file metadata the
// transcode policy operates on: duration, real video track geometry, and the
// archival marker left by a previous run.
package probe
