// Package storage defines the persistence medium consumed by the session
// manager and ships three adapters for it.
//
// # Capability interface
//
// [Store] exposes string and structured (JSON) variants of get/set plus an
// explicit remove. Reads of keys that were never written or were removed
// report absence instead of an empty value, so presence checks stay exact.
//
// # Adapters
//
//   - [MemoryStore]: process-local map, used by tests and single-process apps.
//   - [RedisStore]: go-redis backed, optional TTL as the medium's own expiry.
//   - [CookieStore]: gorilla/sessions backed, bound to one request/response.
//
// # What this package must NOT do
//
//   - Interpret credentials, identities, or permissions.
//   - Import goSecurity (no upward imports).
package storage
