// Package order provides the Order aggregate of the marketplace: one account
// buying from one merchant.
//
// The package includes:
//   - Order: line items, a running total and lifecycle timestamps
//   - Status: the lifecycle state machine
//   - ChangedEvent: emitted by the store on every status change
//
// Key business rules:
//   - An order references its account and merchant by handle only
//   - Line items are added only while the order is Created
//   - The total is the sum of price × quantity at the time each line was added
//   - Completed and Cancelled are terminal; orders are never deleted
package order
