// Package encoding drives the external ffmpeg encode for a transcode plan.
//
// It owns the argument contract between the pipeline and ffmpeg: archival
// metadata stamping, conditional downscaling, audio passthrough, subtitle
// conversion, and matroska output to a temp artifact distinct from the
// source. The Encoder interface keeps the workflow testable with fakes.
package encoding
