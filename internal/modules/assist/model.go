package assist

import "errors"

// ErrInsufficientRequests is returned when a user has no assist requests
// remaining for the current month.
var ErrInsufficientRequests = errors.New("insufficient assist requests")

// DefaultMonthlyRequests is the number of classifier calls granted per month.
const DefaultMonthlyRequests = 50
