// Package jwt wraps the signing and verification primitive used for
// primary identity tokens. The Manager is the only component that
// touches key material; everything above it treats tokens as opaque
// strings.
package jwt
