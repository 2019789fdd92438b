// Package aggregates holds the storage-side pieces shared by ledger repos:
// translating driver and gorm failures into analytics error codes.
package aggregates
