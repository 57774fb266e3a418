package vault

import (
	pool "github.com/iov-one/pool"
	"github.com/iov-one/pool/coin"
	"github.com/iov-one/pool/errors"
)

// Payout is a single transfer from the vault custody.
type Payout struct {
	Recipient pool.Address
	Amount    coin.Coin
}

// Zip pairs recipients with amounts. Both lists must be of the same
// length.
func Zip(recipients []pool.Address, amounts []*coin.Coin) ([]Payout, error) {
	if len(recipients) != len(amounts) {
		return nil, errors.Wrapf(errors.ErrInvalidInput,
			"%d recipients and %d amounts", len(recipients), len(amounts))
	}
	payouts := make([]Payout, len(recipients))
	for i, r := range recipients {
		if amounts[i] == nil {
			return nil, errors.Wrapf(errors.ErrInvalidAmount, "amount %d is missing", i)
		}
		payouts[i] = Payout{Recipient: r, Amount: *amounts[i]}
	}
	return payouts, nil
}

// Total returns the sum of all payout amounts.
func Total(payouts []Payout, ticker string) (coin.Coin, error) {
	total := coin.NewCoin(0, 0, ticker)
	for i, p := range payouts {
		var err error
		if total, err = total.Add(p.Amount); err != nil {
			return coin.Coin{}, errors.Wrapf(err, "payout %d", i)
		}
	}
	return total, nil
}

// computePayouts splits the balance according to the vault policy. It
// returns the transfers to make and what is left on the custody account
// once they are done. Nothing is moved. A distribution that would pay
// nobody is rejected.
func computePayouts(v *Vault, balance coin.Coin, recipients []pool.Address, amounts []*coin.Coin) ([]Payout, coin.Coin, error) {
	var (
		payouts []Payout
		err     error
	)
	switch v.Policy {
	case PolicyExplicit:
		payouts, err = explicitPayouts(balance, recipients, amounts)
	case PolicyEqual:
		payouts, err = equalPayouts(balance, recipients, amounts)
	case PolicyRatio:
		payouts, err = ratioPayouts(balance, v.RewardRatios, recipients, amounts)
	default:
		err = errors.Wrapf(errors.ErrInvalidState, "unknown payout policy %d", v.Policy)
	}
	if err != nil {
		return nil, coin.Coin{}, err
	}
	for i, r := range recipients {
		if r.Equals(v.Custody) {
			return nil, coin.Coin{}, errors.Wrapf(errors.ErrInvalidInput, "recipient %d is the vault custody", i)
		}
	}

	total, err := Total(payouts, balance.Ticker)
	if err != nil {
		return nil, coin.Coin{}, err
	}
	remainder, err := balance.Subtract(total)
	if err != nil {
		return nil, coin.Coin{}, errors.Wrap(err, "remainder")
	}
	if !remainder.IsNonNegative() {
		return nil, coin.Coin{}, errors.Wrapf(ErrInsufficientFunds, "balance %s cannot cover %s", balance, total)
	}
	return payouts, remainder, nil
}

func explicitPayouts(balance coin.Coin, recipients []pool.Address, amounts []*coin.Coin) ([]Payout, error) {
	if len(amounts) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "explicit policy requires amounts")
	}
	payouts, err := Zip(recipients, amounts)
	if err != nil {
		return nil, err
	}
	for i, p := range payouts {
		if !p.Amount.IsPositive() {
			return nil, errors.Wrapf(errors.ErrInvalidAmount, "amount %d is not positive", i)
		}
		if p.Amount.Ticker != balance.Ticker {
			return nil, errors.Wrapf(errors.ErrCurrency, "amount %d must be in %s", i, balance.Ticker)
		}
	}
	total, err := Total(payouts, balance.Ticker)
	if err != nil {
		return nil, err
	}
	if !balance.IsGTE(total) {
		return nil, errors.Wrapf(ErrInsufficientFunds, "balance %s cannot cover %s", balance, total)
	}
	return payouts, nil
}

func equalPayouts(balance coin.Coin, recipients []pool.Address, amounts []*coin.Coin) ([]Payout, error) {
	if len(amounts) != 0 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "equal policy takes no amounts")
	}
	if !balance.IsPositive() {
		return nil, errors.Wrapf(ErrInsufficientFunds, "nothing to distribute: %s", balance)
	}
	share, _, err := balance.Divide(int64(len(recipients)))
	if err != nil {
		return nil, err
	}
	if share.IsZero() {
		return nil, errors.Wrapf(ErrInsufficientFunds, "%s cannot be split between %d recipients", balance, len(recipients))
	}
	payouts := make([]Payout, len(recipients))
	for i, r := range recipients {
		payouts[i] = Payout{Recipient: r, Amount: share}
	}
	return payouts, nil
}

// ratioPayouts pays floor(balance * ratio / 100) to every recipient, in
// the order of the ratio table. Slots with nothing to pay are skipped.
func ratioPayouts(balance coin.Coin, ratios []uint32, recipients []pool.Address, amounts []*coin.Coin) ([]Payout, error) {
	if len(amounts) != 0 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "ratio policy takes no amounts")
	}
	if !balance.IsPositive() {
		return nil, errors.Wrapf(ErrInsufficientFunds, "nothing to distribute: %s", balance)
	}
	if len(recipients) != len(ratios) {
		return nil, errors.Wrapf(ErrMismatchedRecipients,
			"%d recipients for %d reward ratios", len(recipients), len(ratios))
	}
	payouts := make([]Payout, 0, len(ratios))
	for i, r := range ratios {
		share, err := balance.MulRatio(uint64(r), 100)
		if err != nil {
			return nil, errors.Wrapf(err, "slot %d", i)
		}
		if share.IsZero() {
			continue
		}
		payouts = append(payouts, Payout{Recipient: recipients[i], Amount: share})
	}
	if len(payouts) == 0 {
		return nil, errors.Wrapf(ErrInsufficientFunds, "%s is too small for any reward ratio", balance)
	}
	return payouts, nil
}
