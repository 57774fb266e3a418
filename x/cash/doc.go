/*
Package cash is the ledger of the application. It keeps one wallet per
address and moves coins between wallets.

Other extensions never touch the wallet bucket directly. They are given a
Controller, or an AuthorizedController when the source of a transfer has to
be authenticated.
*/
package cash
