package validation

const (
	// Contribution limits
	MinContributionAmount = 0.01
	MaxContributionAmount = 1000000.00

	// Password requirements
	MinPasswordLength = 8
	MaxPasswordLength = 72

	// String lengths
	MaxNotesLength     = 500
	MaxReferenceLength = 100
)
