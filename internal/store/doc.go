// Package store defines the repository interfaces for users, tasks, and
// categories. Implementations live under internal/platform (postgres, mongo)
// and internal/store/memory. Every task and category lookup takes the owner
// ID alongside the entity ID so ownership is enforced inside the query rather
// than after it.
package store
