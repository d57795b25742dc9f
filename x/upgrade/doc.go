/*
Package upgrade implements the two step code upgrade of an account.

Upgrade replaces the code of the account and leaves it in the migrating
state. Migrate must be called afterwards, by the new code, to transform the
stored data. Migrate is refused unless an upgrade is pending.
*/
package upgrade
