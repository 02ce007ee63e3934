// Package registry keeps the in-process bookkeeping behind grouped push
// notifications.
//
// A Registry records, per tray notification id, the ordered message bodies
// shown under that id, and the set of application item ids that currently
// have a notification on screen. The presentation layer reads it to build
// inbox lists and group summaries; the lifecycle router consumes entries when
// the user taps or dismisses a notification.
//
// An empty string appended to an id clears ("tombstones") that id's sequence
// without removing the id, meaning "consumed". Linked item ids form an
// insertion-ordered set.
//
// One Registry is created per process and passed to every component that
// needs it. All methods are safe for concurrent use; each call is atomic,
// and Consume combines the read-modify-write steps of a tap or dismiss into
// a single critical section. Nothing is persisted.
package registry
