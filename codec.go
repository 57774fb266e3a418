package pool

import (
	"github.com/iov-one/pool/errors"
	amino "github.com/tendermint/go-amino"
)

// cdc serializes all persisted models, messages and transactions. Models
// carry no interface fields, so nothing has to be registered.
var cdc = amino.NewCodec()

// Encode serializes given value into its binary representation. Types
// implementing Marshaller delegate to this function.
func Encode(o interface{}) ([]byte, error) {
	bz, err := cdc.MarshalBinaryBare(o)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidType, "cannot encode %T: %s", o, err)
	}
	return bz, nil
}

// Decode deserializes binary data into given destination, that must be a
// pointer.
func Decode(raw []byte, dest interface{}) error {
	if err := cdc.UnmarshalBinaryBare(raw, dest); err != nil {
		return errors.Wrapf(errors.ErrInvalidType, "cannot decode %T: %s", dest, err)
	}
	return nil
}
