// Package history persists a SQLite journal of pipeline runs and their
// per-file outcomes for the "arkiv history" command.
//
// The journal is strictly informational. Transcode decisions are driven by
// the archival tag inside each container, never by this database, so deleting
// it loses nothing but reporting.
package history
