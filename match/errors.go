package match

import "errors"

// Error taxonomy for the public API. DuplicateID, InvalidOrder and
// RiskRejectedError cover add_order; NotFound covers cancel_order;
// NotFound/InvalidModify/RiskRejectedError cover modify_order.
var (
	ErrDuplicateID   = errors.New("match: duplicate order id")
	ErrInvalidOrder  = errors.New("match: invalid order")
	ErrNotFound      = errors.New("match: order not found")
	ErrInvalidModify = errors.New("match: invalid modify request")

	// ErrInternalInvariant is fatal: a caller observing this should stop
	// sending commands to the book and inspect state out of band.
	ErrInternalInvariant = errors.New("match: internal invariant violated")
)

// RiskRejectedError carries the reason a pre-trade risk check failed.
type RiskRejectedError struct {
	Reason string
}

func (e *RiskRejectedError) Error() string {
	return "match: risk rejected: " + e.Reason
}

// IsRiskRejected reports whether err is (or wraps) a RiskRejectedError.
func IsRiskRejected(err error) (*RiskRejectedError, bool) {
	var rr *RiskRejectedError
	if errors.As(err, &rr) {
		return rr, true
	}
	return nil, false
}
