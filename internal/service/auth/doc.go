// Package auth implements the credential store (bcrypt password hashing) and
// the token service (HS256 JWT access and refresh tokens).
//
// Access and refresh tokens carry only the subject and the expiry. They are
// signed with different secrets, so a token of one kind never verifies as
// the other.
package auth
