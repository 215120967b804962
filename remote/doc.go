// Package remote implements the HTTP exchange behind Manager.LoginByRemote.
//
// A [Client] POSTs a JSON payload to an authentication endpoint and extracts
// the credential, the optional user object and the optional permission list
// from the response body. It never touches session state; the caller decides
// what to persist.
//
// # Response contract
//
// Any 2xx status is accepted. The body must be a JSON object whose "token"
// member is a non-empty string. "user", when present and not null, must be an
// object. "permissions", when present and not null, must be an array of
// strings.
//
// # What this package must NOT do
//
//   - Log or echo credentials.
//   - Retry requests; retries are a caller policy.
package remote
