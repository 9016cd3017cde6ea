package model

import "time"

// Spot is a normalized SOTA spot.
type Spot struct {
	ID                int64
	TimeStamp         time.Time
	ActivatorCallsign string
	AssociationCode   string
	SummitCode        string
	Frequency         float64
	Mode              string
	SummitDetails     string
	Comments          *string // nil when the feed sent no comment
	HighlightColor    string
	Callsign          string // spotter
	ActivatorName     string
	UserID            int64
}

// SpotActivity is one (date, activator, summit) row from a spot report query.
type SpotActivity struct {
	Date       string // YYYY-MM-DD
	Activator  string
	SummitCode string
}
