package pool

import "github.com/iov-one/pool/errors"

// Metadata is carried by every persisted model and message. Schema is the
// version of the model layout and starts at 1.
type Metadata struct {
	Schema int32 `json:"schema"`
}

// Validate returns an error if the schema version is not set.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrInvalidModel, "missing metadata")
	}
	if m.Schema < 1 {
		return errors.Wrap(errors.ErrInvalidModel, "invalid schema version")
	}
	return nil
}

// Copy returns a deep copy of the metadata.
func (m *Metadata) Copy() *Metadata {
	if m == nil {
		return nil
	}
	cpy := *m
	return &cpy
}
