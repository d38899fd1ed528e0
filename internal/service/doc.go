// Package service contains the business logic behind the HTTP handlers and
// the admin CLI.
//
//   - AuthService: credential sign-in, bearer authentication, sign-out
//   - AdminService: admin verification reports and admin seeding
//
// Services depend on domain repositories only and accept a context for
// cancellation.
package service
