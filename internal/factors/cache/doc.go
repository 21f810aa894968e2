// Package cache provides the per-tenant, read-mostly factor cache that
// amortizes repeated lookups across a bulk import.
//
// Entries are keyed by (tenant, lookup key) with TTL expiration checked on
// read. Misses populate through a single-flight group so concurrent misses
// for one key cost exactly one resolver call. The cache is strictly a lookup
// accelerator: it owns no data the resolver does not also own, and explicit
// invalidation plus an optional sweep keep memory bounded in long-lived
// processes.
package cache
