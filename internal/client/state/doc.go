// Package state holds the client-side view of backend resources.
//
// Each slice is updated only by a pure reducer, func(Slice, Event) Slice,
// driven by the pending/fulfilled/rejected events of the async actions.
// Reducers never mutate their input: collections are replaced wholesale or
// copied before an in-place edit, so a Snapshot can be read without locks.
//
// Every action carries an epoch. A slice remembers the epoch of the latest
// pending event per action and drops fulfilled/rejected events from older
// requests, so a slow response never overwrites a newer one.
package state
