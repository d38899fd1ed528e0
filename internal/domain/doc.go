// Package domain defines the core entities and repository contracts for the
// Skill Bridge server.
//
// Users own credential accounts and sessions. Repository interfaces accept a
// context for cancellation and are implemented by the storage package.
package domain
