package models

// DefaultPrefix selects the Everything/x86_64 package listing of a compose
const DefaultPrefix = "payload.rpms.Everything.x86_64"

// DiffConfig contains configuration for a manifest comparison
type DiffConfig struct {
	// Input
	OldPath string
	NewPath string
	Prefix  string // dotted key path of the package object

	// Parsing
	DistroMarker string // substring that flags a distro tag segment

	// Filtering
	Include     []string // glob patterns on package names
	Exclude     []string
	SkipInvalid bool // log and skip identifiers that fail to parse

	// Output
	Format     string // text or json
	OutputPath string // write the report here instead of stdout
	Summary    bool   // counts only
	NoColor    bool
	Pretty     bool
	Progress   bool

	// Verification
	KeyringPath     string
	SignatureSuffix string
}

// ListingConfig contains configuration for listing remote composes
type ListingConfig struct {
	URL     string
	DaysAgo int
}
