/*
Package orm provides an easy to use db wrapper.

Entities are stored in buckets. A bucket prefixes every key with its name,
so that many buckets can share one store:

	<bucket name>:<primary key>

A bucket may maintain secondary indexes. Each index is stored under its own
prefix and maps an index value to the sorted set of primary keys that
produced it (see MultiRef):

	_i.<bucket name>_<index name>:<index value>

Buckets and indexes can be exposed through the ABCI query router.
*/
package orm
