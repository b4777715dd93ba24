// Package asset is the per-session cache of raw icon sources.
//
// The Cache is the only authority on whether an icon has been fetched:
//   - Lookup never touches the network.
//   - Get resolves from memory when it can; otherwise it issues exactly one
//     fetch per name no matter how many callers ask concurrently, and every
//     waiter receives the result of that single fetch.
//   - Entries are write-once. The first successful source stored for a name
//     is kept for the rest of the session.
//   - Only catalog names are fetched, so user-supplied names can never grow
//     the cache.
//
// A fetch, once started, runs to completion even if the caller that started
// it goes away: the result is keyed by icon name, not by whoever asked.
//
// Failures are per-icon (ErrAssetNotFound, ErrAssetMalformed). They are not
// cached and not retried; callers render Placeholder instead.
package asset
