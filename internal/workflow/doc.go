// Package workflow drives the per-file transcode state machine. A single
// Runner scans the library, then carries each candidate through probe, plan,
// encode, validate, and commit, strictly one file at a time. Outcomes are
// tallied into a Summary and optionally journaled to the history store.
package workflow
