// Package session owns the client's belief about who is logged in.
//
// A Manager moves through UNINITIALIZED -> HYDRATING -> AUTHENTICATED or
// ANONYMOUS, and from AUTHENTICATED back to ANONYMOUS on logout or when the
// token is found to be expired. Initialize runs once at start-up and reads
// the durable token store; Login and Logout are the only mutators. Readers
// get value copies through Snapshot, so nothing outside the Manager can
// change session state.
//
// Every transition bumps a generation counter. Work started under one
// generation (a network call, a prompt) should drop its result when
// Generation has moved on by the time it completes.
package session
