// Package domain defines the core domain types and interfaces.
//
// Files are concept-oriented (user.go, remedy.go, plan.go, journal.go, ...) and
// hold the entity types together with the repository contracts the adapters
// implement. No implementation code, just contracts and pure rules such as
// plan limits.
package domain
