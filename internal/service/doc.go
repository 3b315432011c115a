// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features.
//
// Key components:
//
// 1. Service Interfaces:
//   - Define application-specific operations available to the delivery mechanisms
//   - Each service focuses on a specific domain area (mastery tracking,
//     diagnostics, engagement)
//
// 2. Use Case Implementations:
//   - Coordinate between multiple repositories and domain services
//   - Apply transactional boundaries when operations span multiple repositories
//
// 3. Error Handling:
//   - Translate domain-specific errors to application-level errors
//   - Provide meaningful error context for API responses
//
// The service layer depends on domain entities and repository interfaces (from
// store), but never on specific infrastructure implementations. The larger
// orchestrations live in the mastery_review and diagnostic subpackages; this
// package holds the smaller standalone services.
package service
