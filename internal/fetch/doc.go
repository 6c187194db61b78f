// Package fetch downloads a day's puzzle input.
//
// The session token is read from a flat file (by default
// $HOME/.config/aocd/token) and sent as the "session" cookie on a single
// GET request. There are no retries and no status handling; the response
// body is persisted exactly as received.
package fetch
