package vault

import (
	"fmt"
	"strconv"

	pool "github.com/iov-one/pool"
	"github.com/iov-one/pool/errors"
	"github.com/iov-one/pool/x"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	createVaultCost int64 = 300
	startRoundCost  int64 = 50
	depositCost     int64 = 100
	// payouts are charged per recipient
	payoutBaseCost      int64 = 100
	payoutRecipientCost int64 = 50
)

// RegisterRoutes will instantiate and register all handlers in this
// package. The ledger must accept custody transfers authorized by
// Authenticate.
func RegisterRoutes(r pool.Registry, auth x.Authenticator, ledger Ledger, metrics *Metrics) {
	ctrl := NewController(ledger, metrics)
	r.Handle(CreateMsg{}.Path(), CreateHandler{auth: auth, ctrl: ctrl})
	r.Handle(StartRoundMsg{}.Path(), StartRoundHandler{auth: auth, ctrl: ctrl})
	r.Handle(DepositMsg{}.Path(), DepositHandler{auth: auth, ctrl: ctrl})
	r.Handle(EndRoundMsg{}.Path(), EndRoundHandler{auth: auth, ctrl: ctrl})
	r.Handle(DistributeMsg{}.Path(), DistributeHandler{auth: auth, ctrl: ctrl})
}

// RegisterQuery will register the vault bucket as "/vaults" and the owner
// index as "/vaults/owner".
func RegisterQuery(qr pool.QueryRouter) {
	NewVaultBucket().Register("vaults", qr)
}

// CreateHandler initializes vaults.
type CreateHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ pool.Handler = CreateHandler{}

func (h CreateHandler) Check(ctx pool.Context, db pool.KVStore, tx pool.Tx) (*pool.CheckResult, error) {
	if _, _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return pool.NewCheck(createVaultCost, ""), nil
}

func (h CreateHandler) Deliver(ctx pool.Context, db pool.KVStore, tx pool.Tx) (*pool.DeliverResult, error) {
	msg, owner, err := h.validate(ctx, tx)
	if err != nil {
		return nil, h.ctrl.reject(CreateMsg{}.Path(), err)
	}
	v, err := h.ctrl.Create(ctx, db, owner, msg)
	if err != nil {
		return nil, h.ctrl.reject(CreateMsg{}.Path(), err)
	}
	return &pool.DeliverResult{
		Data: v.Seed,
		Tags: vaultTags(v),
	}, nil
}

// validate returns the message and the owner of the new vault. The owner
// must sign.
func (h CreateHandler) validate(ctx pool.Context, tx pool.Tx) (*CreateMsg, pool.Address, error) {
	var msg CreateMsg
	if err := pool.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	owner := msg.Owner
	if owner == nil {
		signer := x.MainSigner(ctx, h.auth)
		if signer == nil {
			return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
		}
		owner = signer.Address()
	}
	if !h.auth.HasAddress(ctx, owner) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "owner signature missing")
	}
	return &msg, owner, nil
}

// StartRoundHandler opens deposit rounds.
type StartRoundHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ pool.Handler = StartRoundHandler{}

func (h StartRoundHandler) Check(ctx pool.Context, db pool.KVStore, tx pool.Tx) (*pool.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return pool.NewCheck(startRoundCost, ""), nil
}

func (h StartRoundHandler) Deliver(ctx pool.Context, db pool.KVStore, tx pool.Tx) (*pool.DeliverResult, error) {
	_, v, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, h.ctrl.reject(StartRoundMsg{}.Path(), err)
	}
	if err := h.ctrl.StartRound(ctx, db, v); err != nil {
		return nil, h.ctrl.reject(StartRoundMsg{}.Path(), err)
	}
	return &pool.DeliverResult{Tags: vaultTags(v)}, nil
}

func (h StartRoundHandler) validate(ctx pool.Context, db pool.KVStore, tx pool.Tx) (*StartRoundMsg, *Vault, error) {
	var msg StartRoundMsg
	if err := pool.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	v, err := h.ctrl.ownedVault(ctx, h.auth, db, msg.Seed)
	if err != nil {
		return nil, nil, err
	}
	if err := v.canStartRound(); err != nil {
		return nil, nil, err
	}
	return &msg, v, nil
}

// DepositHandler funds vaults.
type DepositHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ pool.Handler = DepositHandler{}

func (h DepositHandler) Check(ctx pool.Context, db pool.KVStore, tx pool.Tx) (*pool.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return pool.NewCheck(depositCost, ""), nil
}

func (h DepositHandler) Deliver(ctx pool.Context, db pool.KVStore, tx pool.Tx) (*pool.DeliverResult, error) {
	msg, v, depositor, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, h.ctrl.reject(DepositMsg{}.Path(), err)
	}
	amount, err := h.ctrl.Deposit(ctx, db, v, depositor, msg.Amount)
	if err != nil {
		return nil, h.ctrl.reject(DepositMsg{}.Path(), err)
	}
	tags := append(vaultTags(v),
		common.KVPair{Key: []byte("vault.depositor"), Value: []byte(depositor.String())},
		common.KVPair{Key: []byte("vault.amount"), Value: []byte(amount.String())},
	)
	return &pool.DeliverResult{Tags: tags}, nil
}

// validate returns the message, the vault and the depositor, who must
// sign. Anyone can deposit.
func (h DepositHandler) validate(ctx pool.Context, db pool.KVStore, tx pool.Tx) (*DepositMsg, *Vault, pool.Address, error) {
	var msg DepositMsg
	if err := pool.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	depositor := msg.Depositor
	if depositor == nil {
		signer := x.MainSigner(ctx, h.auth)
		if signer == nil {
			return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
		}
		depositor = signer.Address()
	}
	if !h.auth.HasAddress(ctx, depositor) {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "depositor signature missing")
	}
	v, err := h.ctrl.Vault(db, msg.Seed)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := v.AcceptsDeposits(); err != nil {
		return nil, nil, nil, err
	}
	return &msg, v, depositor, nil
}

// EndRoundHandler closes rounds and pays out round vaults.
type EndRoundHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ pool.Handler = EndRoundHandler{}

func (h EndRoundHandler) Check(ctx pool.Context, db pool.KVStore, tx pool.Tx) (*pool.CheckResult, error) {
	msg, v, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if _, err := h.ctrl.Plan(db, v, msg.Recipients, msg.Amounts); err != nil {
		return nil, err
	}
	return pool.NewCheck(payoutCost(len(msg.Recipients)), ""), nil
}

func (h EndRoundHandler) Deliver(ctx pool.Context, db pool.KVStore, tx pool.Tx) (*pool.DeliverResult, error) {
	msg, v, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, h.ctrl.reject(EndRoundMsg{}.Path(), err)
	}
	// Tag the round being closed.
	tags := vaultTags(v)
	d, err := h.ctrl.EndRound(ctx, db, v, msg.Recipients, msg.Amounts)
	if err != nil {
		return nil, h.ctrl.reject(EndRoundMsg{}.Path(), err)
	}
	return &pool.DeliverResult{Tags: append(tags, distributionTags(d)...)}, nil
}

func (h EndRoundHandler) validate(ctx pool.Context, db pool.KVStore, tx pool.Tx) (*EndRoundMsg, *Vault, error) {
	var msg EndRoundMsg
	if err := pool.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	v, err := h.ctrl.ownedVault(ctx, h.auth, db, msg.Seed)
	if err != nil {
		return nil, nil, err
	}
	if err := v.canEndRound(); err != nil {
		return nil, nil, err
	}
	return &msg, v, nil
}

// DistributeHandler pays out open vaults.
type DistributeHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ pool.Handler = DistributeHandler{}

func (h DistributeHandler) Check(ctx pool.Context, db pool.KVStore, tx pool.Tx) (*pool.CheckResult, error) {
	msg, v, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if _, err := h.ctrl.Plan(db, v, msg.Recipients, msg.Amounts); err != nil {
		return nil, err
	}
	return pool.NewCheck(payoutCost(len(msg.Recipients)), ""), nil
}

func (h DistributeHandler) Deliver(ctx pool.Context, db pool.KVStore, tx pool.Tx) (*pool.DeliverResult, error) {
	msg, v, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, h.ctrl.reject(DistributeMsg{}.Path(), err)
	}
	d, err := h.ctrl.Distribute(ctx, db, v, msg.Recipients, msg.Amounts)
	if err != nil {
		return nil, h.ctrl.reject(DistributeMsg{}.Path(), err)
	}
	return &pool.DeliverResult{Tags: append(vaultTags(v), distributionTags(d)...)}, nil
}

func (h DistributeHandler) validate(ctx pool.Context, db pool.KVStore, tx pool.Tx) (*DistributeMsg, *Vault, error) {
	var msg DistributeMsg
	if err := pool.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	v, err := h.ctrl.ownedVault(ctx, h.auth, db, msg.Seed)
	if err != nil {
		return nil, nil, err
	}
	if err := v.canDistribute(); err != nil {
		return nil, nil, err
	}
	return &msg, v, nil
}

// ownedVault loads the vault and ensures that its owner signed.
func (c *Controller) ownedVault(ctx pool.Context, auth x.Authenticator, db pool.KVStore, seed []byte) (*Vault, error) {
	v, err := c.Vault(db, seed)
	if err != nil {
		return nil, err
	}
	if !auth.HasAddress(ctx, v.Owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "vault owner signature missing")
	}
	return v, nil
}

// reject records the failure of a delivered message and returns the
// error unchanged.
func (c *Controller) reject(path string, err error) error {
	c.metrics.ObserveRejection(path, err)
	return err
}

func payoutCost(recipients int) int64 {
	return payoutBaseCost + int64(recipients)*payoutRecipientCost
}

func vaultTags(v *Vault) []common.KVPair {
	return []common.KVPair{
		{Key: []byte("vault"), Value: []byte(fmt.Sprintf("%X", v.Seed))},
		{Key: []byte("vault.round"), Value: []byte(strconv.FormatInt(v.Round, 10))},
	}
}

func distributionTags(d *Distribution) []common.KVPair {
	return []common.KVPair{
		{Key: []byte("vault.payouts"), Value: []byte(strconv.Itoa(len(d.Payouts)))},
		{Key: []byte("vault.remainder"), Value: []byte(d.Remainder.String())},
	}
}
