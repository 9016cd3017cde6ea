package diff

// Badge marks how notable an activation total is.
type Badge int

const (
	// BadgeNone is for summits activated more than RareThreshold times.
	BadgeNone Badge = iota

	// BadgeRare is for totals of two up to RareThreshold.
	BadgeRare

	// BadgeInitial is for a total of one (or less, for anomalous data).
	BadgeInitial
)

// RareThreshold is the highest total still considered rare.
const RareThreshold = 5

// Classify maps an all-time activation total to its badge.
func Classify(total int) Badge {
	switch {
	case total <= 1:
		return BadgeInitial
	case total <= RareThreshold:
		return BadgeRare
	default:
		return BadgeNone
	}
}

// Marker returns the single-character column value for the badge.
func (b Badge) Marker() string {
	switch b {
	case BadgeInitial:
		return "★"
	case BadgeRare:
		return "☆"
	default:
		return " "
	}
}

// Footnote returns the legend line explaining the marker, or "" for BadgeNone.
func (b Badge) Footnote() string {
	switch b {
	case BadgeInitial:
		return "★: Initial activation. Congratulations!"
	case BadgeRare:
		return "☆: Rare summit, five or fewer activations"
	default:
		return ""
	}
}

func (b Badge) String() string {
	switch b {
	case BadgeInitial:
		return "initial"
	case BadgeRare:
		return "rare"
	default:
		return "none"
	}
}
