package domain

// Kind distinguishes the two punch directions.
type Kind string

const (
	KindIn  Kind = "in"
	KindOut Kind = "out"
)

// ValidKinds is the canonical set of accepted punch kind strings.
var ValidKinds = map[string]bool{
	"in": true, "out": true,
}

// Position is the single-letter working-position code stored on punches
// and aggregate rows.
type Position string

const (
	PositionOffice  Position = "O"
	PositionRemote  Position = "R"
	PositionHoliday Position = "H"
	PositionOnSite  Position = "C"
	PositionMixed   Position = "M"
)

// ValidPositions is the canonical set of accepted position codes for the
// current schema version. Mixed is normally derived, but it is accepted
// on input so exported rows can be round-tripped.
var ValidPositions = map[string]bool{
	"O": true, "R": true, "H": true, "C": true, "M": true,
}

// Describe returns the human-readable label for a position code.
func (p Position) Describe() string {
	switch p {
	case PositionOffice:
		return "Office"
	case PositionRemote:
		return "Remote"
	case PositionHoliday:
		return "Holiday"
	case PositionOnSite:
		return "On-Site (Client)"
	case PositionMixed:
		return "Mixed"
	}
	return string(p)
}

// Provenance values recorded in the source column of the ledger.
const (
	SourceCLI       = "cli"
	SourceMigration = "migration"
)
