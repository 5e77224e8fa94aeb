// Package collection is the view engine behind every shelf screen.
//
// It turns the full in-memory collection plus a user-chosen [State] into the ordered, paginated
// subset that gets rendered and the aggregate [Stats] shown beside it. Everything here is
// synchronous and free of I/O:
//
//   - [Store] : holds the item snapshot and the state, notifies listeners on every change
//   - [Engine] : pure filter/sort pipeline (tab bucket, search, chart platform, advanced set, sort)
//   - [Summarize] : KPIs over a subset (invested, recovered, completion rate, wishlist, storefront)
//   - [Pager] : load-more controller over the reveal limit, with an in-flight latch
//
// State is a value: [State.Apply] merges a [Patch] and returns a new snapshot, resetting the reveal
// limit when the filter predicate changes. Sort keys are an open set registered on an [Engine].
package collection
