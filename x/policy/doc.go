/*
Package policy implements restrictions that can be attached to a standard
signer.

A policy is both a predicate and a lifecycle participant. Every policy of a
signer must authorize a request before that signer can approve it. When a
policy gets attached to a signer it is activated (OnAdd) and when it gets
detached it is deactivated (OnRevoke). Activation failure blocks the signer
change, deactivation failure never does.

Two kinds exist:

TimeWindow restricts the signer to a time range, both ends inclusive.

ExternalDelegate defers both the decision and the lifecycle callbacks to
another contract, resolved through the environment.
*/
package policy
