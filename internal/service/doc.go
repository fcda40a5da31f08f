// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and the stores
// defined in internal/store.
//
// Key components:
//
//   - Authenticator registers users, checks credentials and issues tokens.
//   - TaskService runs task CRUD scoped to the caller taken from token claims.
//   - PermissionService changes user flags for administrators and for the
//     operator CLI.
//
// Services receive dependencies through constructor injection and depend on
// store interfaces, never on a specific database implementation. Multi-step
// writes run inside store.RunInTransaction.
package service
