/*
Package fee computes the service fee charged on a contribution payment.

The service resolves the active fee policy once per calculation and
dispatches to the requested strategy:
- STANDARD: policy percentage or flat amount
- TIERED: rate by contribution amount bracket
- VOLUME_BASED: discount by trailing 30-day contribution volume
- LOYALTY: discount by membership age and successful payments
- PROMOTIONAL: active promotion discount
- SEASONAL, GROUP_SIZE_BASED, ACTIVITY_BASED, TIME_BASED, COMBINED

Usage:

	svc := fee.NewService(policies, payments, groups, promotions, users)

	result, err := svc.ComputeFee(ctx, fee.FeeRequest{
	    Amount:  2500,
	    UserID:  userID,
	    GroupID: groupID,
	    Method:  models.MethodLoyalty,
	})

Whatever the strategy produces, the final fee is clamped to the active
policy's [MinimumFee, MaximumFee] window.

Error Handling:

The service returns specific errors for different scenarios:
- ErrInvalidAmount: when the contribution amount is not positive
- ErrNoActivePolicy: when no fee policy is active (fail closed)
*/
package fee
