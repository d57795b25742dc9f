/*
Package account implements the smart account: the registry of its signers
and plugins and the authorization check.

An account is created with at least one admin signer. Once it is
initialized every administrative call must be approved by the account
itself, which means an admin signature that passed CheckAuth.

The number of admin signers never drops below one. Admins cannot be revoked
directly, they must be downgraded to a standard role first, and the last
admin cannot be downgraded.

Methods of Account can leave partial writes behind when they fail. They are
meant to run inside of a cache wrapped store that is written only on
success.
*/
package account
