// Package strategy derives an identity payload from a raw credential.
//
// Two strategies exist:
//
//   - [Plain] treats the credential as an opaque string. No identity can be
//     derived from it.
//   - [JWT] treats the credential as a dot-delimited structured token and
//     decodes the middle segment as a JSON object.
//
// # Architecture boundaries
//
// Decoding is structural only. The header and signature segments are never
// interpreted and no cryptographic verification takes place; integrity of the
// token is the issuer's and the server's concern.
//
// # What this package must NOT do
//
//   - Verify signatures or enforce exp/nbf/iat claims.
//   - Import goSecurity or any storage package (no upward imports).
package strategy
