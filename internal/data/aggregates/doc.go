// Package aggregates contains infrastructure implementations of domain aggregate contracts.
//
// Implementations compose the record store and link index from internal/data/repos,
// run admission control through AuthorizationValidator, journal every mutation
// through ActionLog, and own the transaction boundary of each write. Effects
// outside that boundary are undone by saga compensations.
package aggregates
