// Package normalize turns raw SOTA API records into canonical model values.
//
// Every field rule is fail-closed except userID, which defaults to zero, and
// comments, which collapses any non-string value to nil. A failed record is
// reported as a *FieldError; callers drop the record and keep going.
//
// Timestamps from the API carry malformed fractional seconds, so everything
// from the first '.' onward is discarded before parsing.
package normalize
