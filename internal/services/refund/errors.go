package refund

import "errors"

// Service errors
var (
	ErrFeeNotFound     = errors.New("fee entry not found")
	ErrInvalidAmount   = errors.New("refund amount must be positive")
	ErrExceedsOriginal = errors.New("refund exceeds remaining fee balance")
	ErrNegativeFee     = errors.New("adjustment would make the fee negative")
	ErrBelowRefunded   = errors.New("adjustment would drop the fee below the refunded amount")
	ErrInvalidReason   = errors.New("invalid refund reason")
	ErrNotRefundable   = errors.New("fee entry is not in a refundable state")
	ErrGatewayFailed   = errors.New("refund gateway failed")
)
