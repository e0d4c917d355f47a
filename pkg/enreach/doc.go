// Package enreach provides an HTTP client for the EnreachVoice REST API
// (https://doc.enreachvoice.com/beneapi/).
//
// The client resolves its API endpoint through the EnreachVoice discovery
// service (keyed by username), authenticates every request with HTTP basic
// auth using the API user and secret key, and exposes typed accessors for
// queues, directories, call history, recordings, and transcripts.
//
// A secret key can alternatively be bootstrapped from a user password via
// AuthenticateWithPassword.
package enreach
