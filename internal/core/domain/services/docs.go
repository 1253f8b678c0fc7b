// Package services provides domain services that coordinate business
// operations spanning more than one aggregate.
//
// The package includes:
//   - Checkout: moves money between an Account and one of its Orders when the
//     order is paid for or cancelled
package services
