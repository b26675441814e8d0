package fee

import "errors"

// Service errors
var (
	ErrInvalidAmount  = errors.New("contribution amount must be positive")
	ErrNoActivePolicy = errors.New("no active fee policy")
	ErrGroupRequired  = errors.New("group is required for this calculation method")
)
