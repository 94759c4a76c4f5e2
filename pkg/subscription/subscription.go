package subscription

import "errors"

// ErrExpired is returned when a mutating request arrives for an organization
// whose trial has run out and that has no active subscription. Handlers map
// it to 402 Payment Required.
var ErrExpired = errors.New("subscription expired")

type Info struct {
	Status   string
	DaysLeft int
	Writable bool
}
