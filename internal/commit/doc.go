// Package commit applies the terminal step of a file's transcode: either the
// atomic replacement of the original by its validated output, or the rollback
// that discards an untrusted artifact and leaves the original untouched.
package commit
