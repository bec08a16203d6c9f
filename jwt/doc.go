// Package jwt issues and verifies the signed access and refresh tokens.
//
// Tokens are compact JWS strings (header.payload.signature, base64url). Access
// and refresh tokens are signed with different secrets so a leaked access key
// cannot mint refresh tokens. Verification is purely cryptographic and
// structural: it never touches a cache or credential store.
package jwt
