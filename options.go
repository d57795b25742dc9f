package smartaccount

import (
	"context"
	"encoding/json"

	"github.com/iov-one/smartaccount/errors"
)

// Options are the genesis options.
// Each extension can look up it's key and parse the json as desired.
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key, and parses the json
// into the given obj. Returns an error if it cannot parse.
// Noop and no error if key is missing.
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	if err := json.Unmarshal(msg, obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot parse %q options: %s", key, err)
	}
	return nil
}

// OptionsUnmarshaler decodes raw option content into given object. It allows
// extensions to parse types that the standard json package cannot handle
// (interfaces).
type OptionsUnmarshaler func(raw []byte, obj interface{}) error

// ReadOptionsWith works like ReadOptions but uses given decoder.
func (o Options) ReadOptionsWith(key string, obj interface{}, unmarshal OptionsUnmarshaler) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	if err := unmarshal(msg, obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot parse %q options: %s", key, err)
	}
	return nil
}

// Initializer implementations are used to initialize extensions from genesis
// file contents.
type Initializer interface {
	FromGenesis(ctx context.Context, opts Options, db KVStore) error
}

// ChainInitializers lets you initialize many extensions with one function.
func ChainInitializers(inits ...Initializer) Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []Initializer
}

// FromGenesis will pass opts to all Initializers in the list, aborting at the
// first error.
func (c chainInitializer) FromGenesis(ctx context.Context, opts Options, db KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(ctx, opts, db); err != nil {
			return err
		}
	}
	return nil
}
