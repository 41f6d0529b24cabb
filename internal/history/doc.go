// Package history persists one row per (call type, target) combination
// holding the latest invocation time of the external web service.
//
// The store answers three questions:
//   - IsAllowed: has this combination been invoked recently enough that the
//     cached result is still fresh? The gate compares whole elapsed days
//     against the call type's cache lifetime with a strict greater-than, so
//     a combination becomes eligible the day after its lifetime elapses.
//   - Record/Quarantine: remember an invocation. Recording is a single
//     atomic upsert keyed on the full combination; quarantining writes a
//     timestamp one month in the future so permanently failing combinations
//     stop being attempted without a separate deny-list.
//   - ArtistsDueForRefresh: which artists should the background refresher
//     touch next? The oldest thirtieth of invoked artists plus all artists
//     never invoked for the call type, both restricted to artists that back
//     at least one local library file.
package history
