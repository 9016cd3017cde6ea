package model

import "time"

// Summit is one snapshot of a summit's catalog entry.
//
// ActivationDate and ActivationCall are nil when ActivationCount is zero.
// Every summit fetched in the same catalog refresh shares Refreshed.
type Summit struct {
	SummitCode      string
	Name            string
	Points          int
	ActivationCount int
	ActivationDate  *time.Time
	ActivationCall  *string
	Refreshed       time.Time
}
