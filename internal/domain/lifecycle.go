package domain

import (
	"fmt"
	"strings"
)

// transitionTargets is the set of statuses an update request may ask for.
// An order may jump straight to any of them; new is only ever assigned at creation.
var transitionTargets = map[Status]bool{
	StatusPreparing: true,
	StatusServed:    true,
	StatusPaid:      true,
}

// ParseStatus converts raw input into a Status, rejecting anything outside the lifecycle.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// ValidateTransition checks that requested is an accepted update target.
// The stored status is not consulted.
func ValidateTransition(requested Status) error {
	if !transitionTargets[requested] {
		targets := TransitionTargets()
		names := make([]string, len(targets))
		for i, t := range targets {
			names[i] = string(t)
		}
		return fmt.Errorf("%w: %q is not one of %s", ErrInvalidStatus, requested, strings.Join(names, ", "))
	}
	return nil
}

// TransitionTargets returns the accepted update targets in lifecycle order.
func TransitionTargets() []Status {
	return []Status{StatusPreparing, StatusServed, StatusPaid}
}
