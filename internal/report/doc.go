// Package report renders spot and summit summaries.
//
// Each section is rendered in full, appended to the report file (never
// truncated) and mirrored to a console writer. Layouts are fixed width and
// match the reports W5N has been mailing to its reflector, so existing
// readers see no change.
//
// A failed query never aborts the caller: the section is written with an
// inline warning in place of its body and the failure is logged.
package report
