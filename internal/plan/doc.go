// Package plan decides, per probed file, whether a transcode pass is needed
// and what shape it takes: resize or not, encode or skip, and where the
// output artifact lives until commit.
package plan
