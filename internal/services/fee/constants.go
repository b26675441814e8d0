package fee

// Base rate applied by the discount strategies, percent of the amount.
const BaseRatePercent = 1.5

// Seasons
const (
	SeasonPeak    = "PEAK"
	SeasonNormal  = "NORMAL"
	SeasonOffPeak = "OFF_PEAK"
)

// Time-of-day periods
const (
	PeriodEarly   = "EARLY"   // 6-10
	PeriodNormal  = "NORMAL"  // 10-18
	PeriodEvening = "EVENING" // 18-22
	PeriodNight   = "NIGHT"   // 22-6
)

// Loyalty levels
const (
	LoyaltyBronze   = "BRONZE"
	LoyaltySilver   = "SILVER"
	LoyaltyGold     = "GOLD"
	LoyaltyPlatinum = "PLATINUM"
)

// Seasonal rates, percent of the amount.
var seasonalRates = map[string]float64{
	SeasonPeak:    2.0,
	SeasonNormal:  1.5,
	SeasonOffPeak: 1.0,
}

// Time-of-day rates, percent of the amount.
var timeRates = map[string]float64{
	PeriodEarly:   1.2,
	PeriodNormal:  1.5,
	PeriodEvening: 1.3,
	PeriodNight:   1.0,
}

// Tiered rate brackets, ascending. The first threshold the amount fits
// under wins; the last bracket is unbounded.
var feeTiers = []feeTier{
	{Threshold: 1000, Rate: 0.5},
	{Threshold: 5000, Rate: 0.75},
	{Threshold: 10000, Rate: 1.0},
	{Threshold: 50000, Rate: 1.25},
	{Threshold: 0, Rate: 1.5}, // unbounded
}

type feeTier struct {
	Threshold float64 // 0 means no upper bound
	Rate      float64
}

// Group size discount parameters. Groups above the baseline size earn
// 0.1 percentage points per extra member, capped.
const (
	groupSizeBaseline    = 5
	groupSizeStepPercent = 0.1
	groupSizeMaxDiscount = 0.5
)

// Combined strategy weights.
const (
	combinedActivityWeight  = 0.4
	combinedGroupSizeWeight = 0.3
	combinedSeasonalWeight  = 0.3
)

// Activity multiplier bounds.
const (
	activityLookbackDays  = 30
	activityMinMultiplier = 0.75
	activityMaxMultiplier = 1.1
	activityVolumeCeiling = 10000.0
)
