package vault

import (
	"testing"

	pool "github.com/iov-one/pool"
	"github.com/iov-one/pool/coin"
	"github.com/iov-one/pool/errors"
	"github.com/iov-one/pool/weavetest"
	"github.com/iov-one/pool/weavetest/assert"
)

func TestComputePayouts(t *testing.T) {
	a := weavetest.NewCondition().Address()
	b := weavetest.NewCondition().Address()
	c := weavetest.NewCondition().Address()

	ratio := func(ratios ...uint32) *Vault {
		return &Vault{Policy: PolicyRatio, RewardRatios: ratios}
	}
	explicit := &Vault{Policy: PolicyExplicit}
	equal := &Vault{Policy: PolicyEqual}
	custodial := &Vault{Policy: PolicyExplicit, Custody: CustodyAddress([]byte("custodial"))}

	iov := func(whole, frac int64) coin.Coin { return coin.NewCoin(whole, frac, "IOV") }
	iovp := func(whole, frac int64) *coin.Coin { return coin.NewCoinp(whole, frac, "IOV") }

	cases := map[string]struct {
		vault         *Vault
		balance       coin.Coin
		recipients    []pool.Address
		amounts       []*coin.Coin
		wantErr       *errors.Error
		wantPayouts   []Payout
		wantRemainder coin.Coin
	}{
		"ratio splits whole balance": {
			vault:      ratio(50, 30, 20),
			balance:    iov(100, 0),
			recipients: []pool.Address{a, b, c},
			wantPayouts: []Payout{
				{Recipient: a, Amount: iov(50, 0)},
				{Recipient: b, Amount: iov(30, 0)},
				{Recipient: c, Amount: iov(20, 0)},
			},
			wantRemainder: iov(0, 0),
		},
		"ratio rounds down and reports the remainder": {
			vault:      ratio(50, 30, 20),
			balance:    iov(0, 101),
			recipients: []pool.Address{a, b, c},
			wantPayouts: []Payout{
				{Recipient: a, Amount: iov(0, 50)},
				{Recipient: b, Amount: iov(0, 30)},
				{Recipient: c, Amount: iov(0, 20)},
			},
			wantRemainder: iov(0, 1),
		},
		"single slot takes everything": {
			vault:         ratio(100),
			balance:       iov(1000, 0),
			recipients:    []pool.Address{a},
			wantPayouts:   []Payout{{Recipient: a, Amount: iov(1000, 0)}},
			wantRemainder: iov(0, 0),
		},
		"zero ratio slots are skipped": {
			vault:         ratio(0, 100),
			balance:       iov(7, 0),
			recipients:    []pool.Address{a, b},
			wantPayouts:   []Payout{{Recipient: b, Amount: iov(7, 0)}},
			wantRemainder: iov(0, 0),
		},
		"ratio with nothing to distribute": {
			vault:      ratio(50, 30, 20),
			balance:    iov(0, 0),
			recipients: []pool.Address{a, b, c},
			wantErr:    ErrInsufficientFunds,
		},
		"ratio with fewer recipients than slots": {
			vault:      ratio(50, 30, 20),
			balance:    iov(100, 0),
			recipients: []pool.Address{a, b},
			wantErr:    ErrMismatchedRecipients,
		},
		"ratio with amounts": {
			vault:      ratio(100),
			balance:    iov(100, 0),
			recipients: []pool.Address{a},
			amounts:    []*coin.Coin{iovp(1, 0)},
			wantErr:    errors.ErrInvalidInput,
		},
		"explicit pays listed amounts": {
			vault:      explicit,
			balance:    iov(10, 0),
			recipients: []pool.Address{a, b},
			amounts:    []*coin.Coin{iovp(6, 0), iovp(3, 500000000)},
			wantPayouts: []Payout{
				{Recipient: a, Amount: iov(6, 0)},
				{Recipient: b, Amount: iov(3, 500000000)},
			},
			wantRemainder: iov(0, 500000000),
		},
		"explicit with more amounts than recipients": {
			vault:      explicit,
			balance:    iov(10, 0),
			recipients: []pool.Address{a, b},
			amounts:    []*coin.Coin{iovp(1, 0), iovp(1, 0), iovp(1, 0)},
			wantErr:    errors.ErrInvalidInput,
		},
		"explicit without amounts": {
			vault:      explicit,
			balance:    iov(10, 0),
			recipients: []pool.Address{a},
			wantErr:    errors.ErrInvalidInput,
		},
		"explicit total above balance": {
			vault:      explicit,
			balance:    iov(10, 0),
			recipients: []pool.Address{a, b},
			amounts:    []*coin.Coin{iovp(6, 0), iovp(4, 1)},
			wantErr:    ErrInsufficientFunds,
		},
		"explicit in another currency": {
			vault:      explicit,
			balance:    iov(10, 0),
			recipients: []pool.Address{a},
			amounts:    []*coin.Coin{coin.NewCoinp(1, 0, "ETH")},
			wantErr:    errors.ErrCurrency,
		},
		"equal split": {
			vault:      equal,
			balance:    iov(10, 0),
			recipients: []pool.Address{a, b, c},
			wantPayouts: []Payout{
				{Recipient: a, Amount: iov(3, 333333333)},
				{Recipient: b, Amount: iov(3, 333333333)},
				{Recipient: c, Amount: iov(3, 333333333)},
			},
			wantRemainder: iov(0, 1),
		},
		"equal split smaller than a minor unit": {
			vault:      equal,
			balance:    iov(0, 2),
			recipients: []pool.Address{a, b, c},
			wantErr:    ErrInsufficientFunds,
		},
		"every ratio share rounds down to zero": {
			vault:      ratio(50, 50),
			balance:    iov(0, 1),
			recipients: []pool.Address{a, b},
			wantErr:    ErrInsufficientFunds,
		},
		"custody cannot receive an explicit payout": {
			vault:      custodial,
			balance:    iov(10, 0),
			recipients: []pool.Address{a, custodial.Custody},
			amounts:    []*coin.Coin{iovp(1, 0), iovp(1, 0)},
			wantErr:    errors.ErrInvalidInput,
		},
		"custody cannot receive an equal share": {
			vault:      &Vault{Policy: PolicyEqual, Custody: custodial.Custody},
			balance:    iov(10, 0),
			recipients: []pool.Address{custodial.Custody, b},
			wantErr:    errors.ErrInvalidInput,
		},
		"equal with amounts": {
			vault:      equal,
			balance:    iov(10, 0),
			recipients: []pool.Address{a},
			amounts:    []*coin.Coin{iovp(1, 0)},
			wantErr:    errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			payouts, remainder, err := computePayouts(tc.vault, tc.balance, tc.recipients, tc.amounts)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr != nil {
				return
			}
			assert.Equal(t, len(tc.wantPayouts), len(payouts))
			for i, want := range tc.wantPayouts {
				assert.Equal(t, want.Recipient, payouts[i].Recipient)
				if !want.Amount.Equals(payouts[i].Amount) {
					t.Fatalf("payout %d: want %s, got %s", i, want.Amount, payouts[i].Amount)
				}
			}
			if !tc.wantRemainder.Equals(remainder) {
				t.Fatalf("want remainder %s, got %s", tc.wantRemainder, remainder)
			}
		})
	}
}

func TestZip(t *testing.T) {
	a := weavetest.NewCondition().Address()
	b := weavetest.NewCondition().Address()
	one := coin.NewCoinp(1, 0, "IOV")

	payouts, err := Zip([]pool.Address{a, b}, []*coin.Coin{one, one})
	assert.Nil(t, err)
	assert.Equal(t, 2, len(payouts))
	assert.Equal(t, b, payouts[1].Recipient)

	_, err = Zip([]pool.Address{a, b}, []*coin.Coin{one})
	assert.IsErr(t, errors.ErrInvalidInput, err)

	_, err = Zip([]pool.Address{a}, []*coin.Coin{nil})
	assert.IsErr(t, errors.ErrInvalidAmount, err)
}
