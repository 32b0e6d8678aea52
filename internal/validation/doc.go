// Package validation decides whether an encoded output is trustworthy enough
// to replace its original. The check is deliberately narrow: stream presence
// and duration agreement, plus a zero-byte guard.
package validation
