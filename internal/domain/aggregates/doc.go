// Package aggregates defines domain-facing aggregate contracts.
//
// These contracts avoid persistence/transport implementation details and
// represent semantic write boundaries where invariants are enforced
// atomically. Every write takes the declared sources it is attributed to as
// an explicit input.
package aggregates
