// Package client talks to the pet-adoption REST API.
//
// # Overview
//
// The package provides:
//  1. The API contract (see the API interface): the twelve endpoints the
//     CLI depends on, one typed method each.
//  2. Client, an HTTP implementation built around a request gate. On the
//     way out the gate attaches the stored token under the "token" header
//     and an X-Request-ID. On the way back it turns every non-2xx response
//     into an *APIError, shows a short notification, and on 401 publishes a
//     session-invalidated event (see OnSessionInvalidated) exactly once per
//     token. Nothing is retried.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying the embedded goose migrations.
//
// # Error Handling
//
// Failed calls return *APIError. Match the class with errors.Is against
// ErrUnauthorized, ErrForbidden, ErrServer and ErrUnavailable, or use
// errors.As to read Status and the server Message.
//
// Client is safe for concurrent use. All calls accept a context.Context and
// honor cancellation.
package client
