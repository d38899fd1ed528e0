// Package handler implements the HTTP surface on top of fiber.
//
// Endpoints:
//   - GET /: liveness
//   - GET /metrics: Prometheus exposition
//   - POST /api/auth/sign-in: credential sign-in, returns a bearer token
//   - GET /api/auth/me: the authenticated user
//   - POST /api/auth/sign-out: revoke the presented session
//
// Every error returned by a handler or middleware goes through ErrorHandler,
// which writes the normalized JSON envelope built by apperr.Mapper.
package handler
