// Package session provides the in-memory session store.
//
// A session binds a client to one target application. It carries the
// capabilities negotiated at creation, per-session timeouts and the window
// the backend currently targets.
//
// Concurrency:
//   - Store guards its map with a single RWMutex, so create and delete are
//     atomic with respect to each other and to lookups.
//   - Each Session guards its own mutable fields, so handlers working on
//     different sessions never contend.
//
// Lifecycle:
//   - The store is created empty when the server starts.
//   - Sessions live from a successful create until delete or shutdown.
//   - Clear empties the store at shutdown; nothing survives a restart.
//
// Example Usage:
//
//	store := session.NewStore(cfg.Session.MaxSessions)
//	sess, err := store.Create("Finder", caps, timeouts)
//	sess.SetActiveWindow("Downloads")
//	_, err = store.Delete(sess.ID)
package session
