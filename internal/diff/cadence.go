package diff

import "fmt"

// Snapshots are expected roughly one month apart.
const (
	MinCadenceDays = 29
	MaxCadenceDays = 31
)

// CadenceWarning reports snapshot spacing outside the expected range.
type CadenceWarning struct {
	Days int
}

// TooRecent reports whether the snapshots are closer than a month.
func (w CadenceWarning) TooRecent() bool {
	return w.Days < MinCadenceDays
}

func (w CadenceWarning) String() string {
	if w.TooRecent() {
		return fmt.Sprintf("Warning: data less than a month old (td=%d days)", w.Days)
	}
	return fmt.Sprintf("Warning: data older than one month (td=%d days)", w.Days)
}

// CheckCadence returns a warning when days lies outside
// [MinCadenceDays, MaxCadenceDays], or nil.
func CheckCadence(days int) *CadenceWarning {
	if days < MinCadenceDays || days > MaxCadenceDays {
		return &CadenceWarning{Days: days}
	}
	return nil
}
