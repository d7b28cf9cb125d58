// Package integration holds end-to-end tests that run the HTTP router, the
// per-sanctuary actors, the Redis stores (on miniredis) and the queue
// consumer together, with in-memory stand-ins for Postgres and the
// downstream API.
package integration
