// Package app provides the application service layer.
//
// Orchestrates use cases: accounts, favorites, journal, medications, subscriptions,
// remedy search, interaction checks, contributions and catalog seeding.
// Sits between HTTP handlers and domain repositories. Depends on domain interfaces, not concrete implementations.
package app
