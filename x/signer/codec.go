package signer

import (
	"github.com/iov-one/smartaccount/x/policy"
	amino "github.com/tendermint/go-amino"
)

// RegisterCodec registers all signer related interfaces and their
// implementations, including policies.
func RegisterCodec(cdc *amino.Codec) {
	cdc.RegisterInterface((*Key)(nil), nil)
	cdc.RegisterConcrete(Ed25519Key{}, "signer/Ed25519Key", nil)
	cdc.RegisterConcrete(WebAuthnKey(""), "signer/WebAuthnKey", nil)

	cdc.RegisterInterface((*Credential)(nil), nil)
	cdc.RegisterConcrete(Ed25519Credential{}, "signer/Ed25519Credential", nil)
	cdc.RegisterConcrete(WebAuthnCredential{}, "signer/WebAuthnCredential", nil)

	cdc.RegisterInterface((*Proof)(nil), nil)
	cdc.RegisterConcrete(Ed25519Proof{}, "signer/Ed25519Proof", nil)
	cdc.RegisterConcrete(WebAuthnProof{}, "signer/WebAuthnProof", nil)

	cdc.RegisterInterface((*Role)(nil), nil)
	cdc.RegisterConcrete(Admin{}, "signer/Admin", nil)
	cdc.RegisterConcrete(Standard{}, "signer/Standard", nil)

	policy.RegisterCodec(cdc)
}

// NewCodec returns a codec with all signer types registered.
func NewCodec() *amino.Codec {
	cdc := amino.NewCodec()
	RegisterCodec(cdc)
	return cdc
}
