package vault

import (
	"context"

	pool "github.com/iov-one/pool"
	"github.com/iov-one/pool/x"
)

type contextKey int // local to the vault module

const (
	contextKeyCustody contextKey = iota
)

// CustodyCondition returns the condition guarding the custody account of
// the vault with given seed.
func CustodyCondition(seed []byte) pool.Condition {
	return pool.NewCondition("vault", "seed", seed)
}

// CustodyAddress returns the address of the custody account of the vault
// with given seed.
func CustodyAddress(seed []byte) pool.Address {
	return CustodyCondition(seed).Address()
}

// custody is the capability to move coins out of a custody account. It
// can only be created by this package.
type custody struct {
	cond pool.Condition
}

func custodyOf(v *Vault) custody {
	return custody{cond: CustodyCondition(v.Seed)}
}

// authorize returns a context in which the custody condition is
// fulfilled. It must only be used for payout transfers.
func (c custody) authorize(ctx pool.Context) pool.Context {
	return context.WithValue(ctx, contextKeyCustody, c.cond)
}

// Authenticate reports the custody condition while a vault is paying out.
// Chain it with the signature authenticator and pass it to the coin
// controller used as the Ledger.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns the custody condition if the context carries one.
func (Authenticate) GetConditions(ctx pool.Context) []pool.Condition {
	val, _ := ctx.Value(contextKeyCustody).(pool.Condition)
	if val == nil {
		return nil
	}
	return []pool.Condition{val}
}

// HasAddress returns true if the custody condition in the context belongs
// to given address.
func (a Authenticate) HasAddress(ctx pool.Context, addr pool.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
