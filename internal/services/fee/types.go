package fee

import (
	"thrift/internal/models"
)

// FeeRequest describes a single fee calculation.
type FeeRequest struct {
	Amount  float64
	UserID  uint
	GroupID uint
	Method  models.CalculationMethod
	Options Options
}

// Options carries strategy inputs that come from the caller rather than
// from stored state. Zero values fall back to clock-derived defaults.
type Options struct {
	Season    string // PEAK, NORMAL or OFF_PEAK
	TimeOfDay *int   // hour of day, 0-23
}

// FeeResult is the outcome of a fee calculation before ledger recording.
type FeeResult struct {
	FeeAmount   float64                  `json:"fee_amount"`
	BaseAmount  float64                  `json:"base_amount"`
	TotalAmount float64                  `json:"total_amount"`
	Method      models.CalculationMethod `json:"calculation_method"`
	Rate        float64                  `json:"rate"`
	Details     map[string]interface{}   `json:"details"`
}

// LoyaltyMetrics summarizes the history the loyalty strategy prices on.
type LoyaltyMetrics struct {
	MonthsActive       int
	SuccessfulPayments int64
}

// ActivityMetrics are the normalized scores behind the activity multiplier.
// Each score is in [0, 1].
type ActivityMetrics struct {
	Frequency   float64
	Consistency float64
	VolumeScore float64
}

// Multiplier folds the scores into the fee multiplier. More activity means
// a bigger discount off the base rate.
func (a ActivityMetrics) Multiplier() float64 {
	avg := (a.Frequency + a.Consistency + a.VolumeScore) / 3
	m := 1 - 0.25*avg
	if m < activityMinMultiplier {
		return activityMinMultiplier
	}
	if m > activityMaxMultiplier {
		return activityMaxMultiplier
	}
	return m
}
