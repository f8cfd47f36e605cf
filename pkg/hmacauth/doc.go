// Package hmacauth implements a deterministic, cross-language request-signing
// protocol: a structured payload plus a timestamp and a nonce are reduced to
// one canonical byte string, and an HMAC digest over that string is computed
// with a caller-supplied secret key. Independent implementations produce
// byte-identical canonical strings and signatures for identical inputs; that
// equivalence is the wire format.
//
// Every operation is a pure function of its inputs apart from reading the
// wall clock and a secure random source, both of which can be overridden
// through SigningConfig for deterministic tests and for re-derivation during
// verification. All calls are safe for concurrent use.
package hmacauth

// Payload is the loosely-typed key/value mapping that gets signed. Legal
// value types are nil, bool, string, json.Number, Go integer and float
// types, map[string]any and []any. The engine never mutates a payload.
type Payload = map[string]any
