// Package cli provides the interactive NayiDisha command-line client.
//
// It wires configuration, the local session database, the HTTP client and
// the screen services into a REPL. Every command belongs to a client route;
// the router decides on each command whether the signed-in roles may run it.
//
// Admin commands:
//   - dashboard, issues, search, filter, page, next, prev, retry
//   - view, status, delete
//   - users, export
//
// User commands:
//   - report, mine, show, profile, editprofile
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// A background watcher pings the backend and switches between online and
// offline mode.
package cli
