// Package tenantservice implements tenant and membership administration.
//
// Layering:
// - domain: core entities, invariants, errors
// - application: commands/queries using explicit ports
// - ports: stable boundaries for persistence/idempotency
// - adapters: concrete HTTP, memory, and postgres implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
//   - Keep this module self-contained under identity-access context.
//   - Do not import other context adapters into domain/application.
//   - ResolveAccess is the only cross-cutting read other modules may call,
//     and only through the port exposed by the composition root.
package tenantservice
