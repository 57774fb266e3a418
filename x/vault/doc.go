/*
Package vault implements a pooled funds escrow.

A vault collects deposits from many participants on a custody account and
later releases the whole balance to a set of recipients. Only the owner
recorded at creation can distribute the funds.

Two kinds of vaults exist. An open vault accepts deposits at any time and
is emptied with a distribute message. A round vault accepts deposits only
between a start round and an end round message, and ending the round is
what distributes the funds.

How the balance is split is decided by the vault policy:

	explicit  the owner lists recipients and amounts, the total must be covered
	equal     every listed recipient gets the same share
	ratio     recipients get the percentage stored at creation, in order

The custody account is derived from the vault seed. Nobody holds a key to
it, so coins can leave it only when this package authorizes a payout.
*/
package vault
