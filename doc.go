// Package auth implements the identity and access core for a multi-tenant
// back office: credential sign-in, purpose-tagged JWT issuance and
// verification, a TTL-bounded revocation list, per-request authentication,
// and authority resolution from role assignments.
//
// Token lifecycle:
//   - TokenService signs HS256 tokens carrying a decimal principal ID as
//     subject, a fresh jti, and a purpose tag (access, refresh,
//     reset_password, verification). Each purpose maps to its own TTL,
//     configured once at startup through TokenConfig.
//   - Verification is pure and stateless; the revocation check belongs to
//     the request filter, not the verifier.
//   - RevocationStore blacklists raw token strings for their remaining
//     natural lifetime so logout and refresh rotation take effect before
//     expiry. A Redis-backed store is provided for production and an
//     in-process store for tests and embedded use.
//
// Request authentication:
//   - middleware/authware publishes the principal and its resolved
//     authorities into the request context. The filter is fail-open: any
//     extraction, verification, revocation, or lookup failure lets the
//     request continue unauthenticated, leaving the rejection to each
//     endpoint's own authorization requirement.
//
// Flows:
//   - Authenticator orchestrates sign-in, logout, refresh redemption, email
//     verification, and password reset against the bun-backed principal
//     repositories. Email verification applies its read-check-mutate-write
//     sequence inside one transaction so concurrent attempts with the same
//     token cannot both enable an account.
package auth
