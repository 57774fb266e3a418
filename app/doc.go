/*
Package app contains the ABCI application glue. StoreApp keeps the merkle
store and answers queries, BaseApp adds transaction processing on top of it.

Transactions are passed through a chain of decorators before they reach
the Router that dispatches every message to the handler registered for
its path.
*/
package app
