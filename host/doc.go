/*
Package host runs accounts in process.

A Ledger owns the state of every deployed account and the table of
contracts that accounts call back. Each call runs atomically: its writes go
to a cache wrapped store that is written only if the call succeeds, and a
panic anywhere below terminates the call. Diagnostic events survive a
failed call, all other events are dropped with the state.

Execute authorizes a call with a bundle of proofs before running it with
the approval of the account. The authorization check runs as its own
nested call.
*/
package host
