// Package poe provides the upstream adapter for a Poe-style bot API.
//
// The bot API is stream-only: a query is POSTed to /bot/{name} and the
// reply arrives as named server-sent events (text, replace_response, done,
// error). Stream relays those events; Complete drains the stream and
// concatenates the deltas, since no non-streaming endpoint exists.
package poe
