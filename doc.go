/*
Package smartaccount defines all common interfaces to tie together the
subpackages of a multi signature account: addresses, operation contexts, the
environment an account is executed in, the store contract and the context
helpers.

We pass context through context.Context between the host, the account and
the contracts it calls back. To do so, this package defines some common keys
to store info, such as the ledger time, the logger, the collected events and
the addresses that authorized the call. Each extension may add its own keys
to enrich the context with specific data.

There should exist two functions for every XYZ of type T that we want to
support in Context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)

WithXYZ may error/panic if the value was previously set to avoid lower-level
modules overwriting the value (eg. block time).
*/
package smartaccount
