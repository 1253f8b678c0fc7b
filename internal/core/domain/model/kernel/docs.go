// Package kernel provides the primitives shared by every marketplace entity.
//
// The package includes:
//   - ID: a stable integer handle allocated by the entity store and never reused
//   - ConstructorGuard: marks values built through their constructor
//   - money helpers over github.com/shopspring/decimal
//
// Entities reference each other only through ID handles, so no entity holds
// a pointer into another aggregate.
package kernel
