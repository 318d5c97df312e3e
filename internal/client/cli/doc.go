// Package cli provides the interactive pet-adoption command-line client.
//
// It wires configuration, the local session store, the REST API client and
// the application services into a REPL. Commands are routes: public ones
// (register, login) run directly; the rest pass through the access guards,
// which either run them, start the login flow and resume them afterwards,
// or print a 403 line when the user's role does not match.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, runREPL and the routes table for details.
package cli
