package policy

import (
	amino "github.com/tendermint/go-amino"
)

// RegisterCodec registers the Policy interface and all its implementations.
func RegisterCodec(cdc *amino.Codec) {
	cdc.RegisterInterface((*Policy)(nil), nil)
	cdc.RegisterConcrete(TimeWindow{}, "policy/TimeWindow", nil)
	cdc.RegisterConcrete(ExternalDelegate{}, "policy/ExternalDelegate", nil)
}
