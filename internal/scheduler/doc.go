// Package scheduler decides when an icon's asset is requested.
//
// Cards in the gallery register a slot (slot ID plus icon name). The
// scheduler watches slot bounds and the viewport and, the first time a slot
// comes within Margin of the viewport with at least Threshold of its area
// visible, issues exactly one Loader.Get for it. A serviced slot is never
// considered again, no matter how often its visibility toggles afterwards.
//
// ARCHITECTURE:
//
// Single-Writer Event Loop:
// Register, Unregister, Observe and Scroll only enqueue events. Run drains
// the queue on one goroutine, so the slot registry has exactly one writer
// and visibility decisions happen in the order the events arrived. Fetches
// run on their own goroutines; their results come back as completion events
// through the same queue.
//
// There are no timers and no polling. Nothing happens until an event
// arrives.
//
// Delivery:
// A completion is handed to the Handler only if the slot is still registered
// under the same registration. A slot unregistered while its fetch is in
// flight loses the delivery, but the fetch itself completes (it is keyed by
// icon name, so the asset cache is still populated).
package scheduler
