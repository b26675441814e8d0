package fee

import (
	"context"
	"fmt"
	"math"
	"thrift/internal/models"
	"thrift/internal/repositories"
	"time"
)

type strategyFunc func(ctx context.Context, s *service, req FeeRequest, policy *models.FeePolicy) (*FeeResult, error)

type service struct {
	policies   PolicyProvider
	payments   PaymentHistory
	groups     GroupLookup
	promotions PromotionLookup
	users      UserLookup
	strategies map[models.CalculationMethod]strategyFunc
}

// NewService creates a new fee calculation service
func NewService(
	policies PolicyProvider,
	payments PaymentHistory,
	groups GroupLookup,
	promotions PromotionLookup,
	users UserLookup,
) Service {
	if policies == nil {
		panic("policy provider is required")
	}
	if payments == nil {
		panic("payment history is required")
	}
	if groups == nil {
		panic("group lookup is required")
	}
	if promotions == nil {
		panic("promotion lookup is required")
	}
	if users == nil {
		panic("user lookup is required")
	}

	s := &service{
		policies:   policies,
		payments:   payments,
		groups:     groups,
		promotions: promotions,
		users:      users,
	}
	s.strategies = map[models.CalculationMethod]strategyFunc{
		models.MethodStandard:       computeStandard,
		models.MethodTiered:         computeTiered,
		models.MethodVolumeBased:    computeVolumeBased,
		models.MethodLoyalty:        computeLoyalty,
		models.MethodPromotional:    computePromotional,
		models.MethodSeasonal:       computeSeasonal,
		models.MethodGroupSizeBased: computeGroupSize,
		models.MethodActivityBased:  computeActivityBased,
		models.MethodTimeBased:      computeTimeBased,
		models.MethodCombined:       computeCombined,
	}
	return s
}

func (s *service) ComputeFee(ctx context.Context, req FeeRequest) (*FeeResult, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	policy, err := s.policies.GetActive(ctx)
	if err != nil {
		return nil, ErrNoActivePolicy
	}

	strategy, ok := s.strategies[req.Method]
	if !ok {
		// Unknown methods fall back to the standard calculation.
		strategy = computeStandard
	}

	result, err := strategy(ctx, s, req, policy)
	if err != nil {
		return nil, err
	}

	result.FeeAmount = round2(policy.Clamp(result.FeeAmount))
	result.BaseAmount = req.Amount
	result.TotalAmount = req.Amount + result.FeeAmount
	return result, nil
}

func computeStandard(_ context.Context, _ *service, req FeeRequest, policy *models.FeePolicy) (*FeeResult, error) {
	method := models.MethodFlat
	rate := 0.0
	if policy.IsPercentageBased {
		method = models.MethodPercentage
		rate = policy.PercentageRate
	}
	return &FeeResult{
		FeeAmount: policy.StandardFee(req.Amount),
		Method:    method,
		Rate:      rate,
		Details:   map[string]interface{}{},
	}, nil
}

func computeTiered(_ context.Context, _ *service, req FeeRequest, _ *models.FeePolicy) (*FeeResult, error) {
	tier := feeTiers[len(feeTiers)-1]
	for _, t := range feeTiers {
		if t.Threshold > 0 && req.Amount <= t.Threshold {
			tier = t
			break
		}
	}
	return &FeeResult{
		FeeAmount: req.Amount * tier.Rate / 100,
		Method:    models.MethodTiered,
		Rate:      tier.Rate,
		Details: map[string]interface{}{
			"tier": tier.Threshold,
			"rate": tier.Rate,
		},
	}, nil
}

func computeVolumeBased(ctx context.Context, s *service, req FeeRequest, _ *models.FeePolicy) (*FeeResult, error) {
	since := time.Now().AddDate(0, 0, -activityLookbackDays)
	volume, err := s.payments.VolumeSince(ctx, req.UserID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get contribution volume: %w", err)
	}

	var discount float64
	switch {
	case volume > 10000:
		discount = 0.3
	case volume > 5000:
		discount = 0.2
	case volume > 1000:
		discount = 0.1
	}

	baseFee := req.Amount * BaseRatePercent / 100
	return &FeeResult{
		FeeAmount: baseFee * (1 - discount),
		Method:    models.MethodVolumeBased,
		Rate:      BaseRatePercent * (1 - discount),
		Details: map[string]interface{}{
			"volume":   volume,
			"discount": discount,
		},
	}, nil
}

func computeLoyalty(ctx context.Context, s *service, req FeeRequest, policy *models.FeePolicy) (*FeeResult, error) {
	metrics, err := s.loyaltyMetrics(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	level := LoyaltyBronze
	var discount float64
	switch {
	case metrics.MonthsActive > 12 && metrics.SuccessfulPayments > 50:
		level = LoyaltyPlatinum
		discount = 0.4
	case metrics.MonthsActive > 6 && metrics.SuccessfulPayments > 25:
		level = LoyaltyGold
		discount = 0.25
	case metrics.MonthsActive > 3 && metrics.SuccessfulPayments > 10:
		level = LoyaltySilver
		discount = 0.15
	}

	baseFee := policy.StandardFee(req.Amount)
	return &FeeResult{
		FeeAmount: baseFee * (1 - discount),
		Method:    models.MethodLoyalty,
		Details: map[string]interface{}{
			"loyalty_level": level,
			"discount":      discount,
		},
	}, nil
}

func computePromotional(ctx context.Context, s *service, req FeeRequest, _ *models.FeePolicy) (*FeeResult, error) {
	baseFee := req.Amount * BaseRatePercent / 100

	promo, err := s.promotions.GetActivePromotion(ctx, req.UserID, req.GroupID, time.Now())
	if err != nil {
		if err == repositories.ErrNoActivePromotion {
			return &FeeResult{
				FeeAmount: baseFee,
				Method:    models.MethodPromotional,
				Rate:      BaseRatePercent,
				Details: map[string]interface{}{
					"promo_type": "STANDARD",
					"discount":   0.0,
				},
			}, nil
		}
		return nil, fmt.Errorf("failed to look up promotion: %w", err)
	}

	return &FeeResult{
		FeeAmount: baseFee * (1 - promo.Discount),
		Method:    models.MethodPromotional,
		Rate:      BaseRatePercent * (1 - promo.Discount),
		Details: map[string]interface{}{
			"promo_type": promo.Type,
			"discount":   promo.Discount,
		},
	}, nil
}

func computeSeasonal(_ context.Context, _ *service, req FeeRequest, _ *models.FeePolicy) (*FeeResult, error) {
	season := req.Options.Season
	rate, ok := seasonalRates[season]
	if !ok {
		season = SeasonNormal
		rate = seasonalRates[SeasonNormal]
	}
	return &FeeResult{
		FeeAmount: req.Amount * rate / 100,
		Method:    models.MethodSeasonal,
		Rate:      rate,
		Details: map[string]interface{}{
			"season": season,
			"rate":   rate,
		},
	}, nil
}

func computeGroupSize(ctx context.Context, s *service, req FeeRequest, _ *models.FeePolicy) (*FeeResult, error) {
	group, err := s.groups.GetByID(ctx, req.GroupID)
	if err != nil {
		return nil, ErrGroupRequired
	}

	// Groups under the baseline get a negative discount, a premium.
	discount := math.Min(float64(group.MemberCount-groupSizeBaseline)*groupSizeStepPercent, groupSizeMaxDiscount)
	rate := BaseRatePercent - discount
	return &FeeResult{
		FeeAmount: req.Amount * rate / 100,
		Method:    models.MethodGroupSizeBased,
		Rate:      rate,
		Details: map[string]interface{}{
			"group_size":    group.MemberCount,
			"base_rate":     BaseRatePercent,
			"size_discount": discount,
		},
	}, nil
}

func computeActivityBased(ctx context.Context, s *service, req FeeRequest, _ *models.FeePolicy) (*FeeResult, error) {
	metrics, err := s.activityMetrics(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	multiplier := metrics.Multiplier()
	rate := BaseRatePercent * multiplier
	return &FeeResult{
		FeeAmount: req.Amount * rate / 100,
		Method:    models.MethodActivityBased,
		Rate:      rate,
		Details: map[string]interface{}{
			"multiplier":   multiplier,
			"frequency":    metrics.Frequency,
			"consistency":  metrics.Consistency,
			"volume_score": metrics.VolumeScore,
		},
	}, nil
}

func computeTimeBased(_ context.Context, _ *service, req FeeRequest, _ *models.FeePolicy) (*FeeResult, error) {
	hour := time.Now().Hour()
	if req.Options.TimeOfDay != nil {
		hour = *req.Options.TimeOfDay
	}

	period := timePeriod(hour)
	rate := timeRates[period]
	return &FeeResult{
		FeeAmount: req.Amount * rate / 100,
		Method:    models.MethodTimeBased,
		Rate:      rate,
		Details: map[string]interface{}{
			"period":      period,
			"rate":        rate,
			"time_of_day": hour,
		},
	}, nil
}

func computeCombined(ctx context.Context, s *service, req FeeRequest, policy *models.FeePolicy) (*FeeResult, error) {
	activity, err := computeActivityBased(ctx, s, req, policy)
	if err != nil {
		return nil, err
	}
	groupSize, err := computeGroupSize(ctx, s, req, policy)
	if err != nil {
		return nil, err
	}
	seasonal, err := computeSeasonal(ctx, s, req, policy)
	if err != nil {
		return nil, err
	}

	weighted := activity.FeeAmount*combinedActivityWeight +
		groupSize.FeeAmount*combinedGroupSizeWeight +
		seasonal.FeeAmount*combinedSeasonalWeight

	return &FeeResult{
		FeeAmount: weighted,
		Method:    models.MethodCombined,
		Details: map[string]interface{}{
			"components": map[string]interface{}{
				"activity":   activity.FeeAmount,
				"group_size": groupSize.FeeAmount,
				"seasonal":   seasonal.FeeAmount,
			},
			"weights": map[string]interface{}{
				"activity":   combinedActivityWeight,
				"group_size": combinedGroupSizeWeight,
				"seasonal":   combinedSeasonalWeight,
			},
		},
	}, nil
}

func (s *service) loyaltyMetrics(ctx context.Context, userID uint) (*LoyaltyMetrics, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	count, err := s.payments.SuccessfulCount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count contributions: %w", err)
	}
	return &LoyaltyMetrics{
		MonthsActive:       user.MonthsActive(time.Now()),
		SuccessfulPayments: count,
	}, nil
}

func (s *service) activityMetrics(ctx context.Context, userID uint) (*ActivityMetrics, error) {
	since := time.Now().AddDate(0, 0, -activityLookbackDays)
	activity, err := s.payments.ActivitySince(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}

	metrics := &ActivityMetrics{}
	if activity.Count > 0 {
		metrics.Frequency = math.Min(float64(activity.Count)/activityLookbackDays, 1)
		metrics.Consistency = float64(activity.OnTimeCount) / float64(activity.Count)
		metrics.VolumeScore = math.Min(activity.Volume/activityVolumeCeiling, 1)
	}
	return metrics, nil
}

func timePeriod(hour int) string {
	switch {
	case hour >= 6 && hour < 10:
		return PeriodEarly
	case hour >= 10 && hour < 18:
		return PeriodNormal
	case hour >= 18 && hour < 22:
		return PeriodEvening
	default:
		return PeriodNight
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
