// Package auth implements the stateless credential subsystem: signed
// self-contained tokens for session continuity, email verification, and
// password reset; salted scrypt password records; and the flows that tie
// them to a user store and mailer.
//
// Tokens are two base64url segments, payload and HMAC-SHA256 signature,
// joined by a dot. They carry their own expiry, are verifiable any number
// of times until then, and leave no server side record. There is no
// revocation; a token is valid until it expires.
//
// The signing secret is resolved once per process by SecretResolver: an
// explicit configured value, a fixed development placeholder outside
// production, or a digest derived from deployment identity as a last
// resort. A production process with none of these refuses to start
// serving authenticated routes.
//
// The origin middleware (middleware/origin) gates state-mutating routes
// on request provenance and is independent of the token system.
package auth
