/*
Package plugin keeps track of contracts installed into an account and calls
their hooks.

Installed plugins are notified about installation, removal and every
successful authorization. A plugin can veto an authorization by failing its
OnAuth hook. Removal of a plugin never depends on its cooperation.
*/
package plugin
