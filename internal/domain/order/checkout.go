package order

import (
	"fmt"

	"github.com/123shiju/ecommerce-client/internal/domain/shared"
)

// CheckoutState is the state of the checkout screen
type CheckoutState string

const (
	CheckoutReviewing  CheckoutState = "REVIEWING"
	CheckoutSubmitting CheckoutState = "SUBMITTING"
	CheckoutPlaced     CheckoutState = "PLACED"
	CheckoutLeft       CheckoutState = "LEFT"
)

// String returns the string representation of CheckoutState
func (s CheckoutState) String() string {
	return string(s)
}

// CanTransitionTo checks if the state can transition to the target state
func (s CheckoutState) CanTransitionTo(target CheckoutState) bool {
	switch s {
	case CheckoutReviewing:
		return target == CheckoutSubmitting || target == CheckoutLeft
	case CheckoutSubmitting:
		return target == CheckoutPlaced || target == CheckoutReviewing
	case CheckoutPlaced:
		return target == CheckoutLeft
	case CheckoutLeft:
		return target == CheckoutReviewing
	}
	return false
}

// Transition returns target if allowed, otherwise an INVALID_STATE error
func (s CheckoutState) Transition(target CheckoutState) (CheckoutState, error) {
	if !s.CanTransitionTo(target) {
		return s, shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("cannot move checkout from %s to %s", s, target))
	}
	return target, nil
}
