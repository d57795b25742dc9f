/*
Package signer defines who can approve requests made on behalf of an
account.

A signer is a credential (Ed25519 public key or a WebAuthn passkey) and a
role. Admin signers can approve anything. Standard signers are restricted by
policies and can never approve an operation that targets the account itself.

Verification is fail-fast: a well formed signature that does not match the
credential aborts the call with a panic instead of returning an error.
*/
package signer
