// Package services holds the view-models behind the client screens. Each
// one keeps the local UI state of its screen (search text, filter, page)
// and drives the action dispatcher; the shared state lives in the store.
package services
