package account

import (
	"context"

	smartaccount "github.com/iov-one/smartaccount"
	"github.com/iov-one/smartaccount/x/signer"
)

// Genesis is the initial configuration of an account.
type Genesis struct {
	Signers []signer.Signer        `json:"signers"`
	Plugins []smartaccount.Address `json:"plugins"`
}

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct {
	Account *Account
}

var _ smartaccount.Initializer = (*Initializer)(nil)

// FromGenesis reads the "account" section and initializes the account. A
// missing section is ignored.
func (i *Initializer) FromGenesis(ctx context.Context, opts smartaccount.Options, db smartaccount.KVStore) error {
	var g Genesis
	if err := opts.ReadOptionsWith("account", &g, i.Account.cdc.UnmarshalJSON); err != nil {
		return err
	}
	if len(g.Signers) == 0 && len(g.Plugins) == 0 {
		return nil
	}
	return i.Account.Initialize(ctx, db, g.Signers, g.Plugins)
}
