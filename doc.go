/*
Package pool defines all common interfaces that tie together the various
subpackages of the pooled-funds application, as well as implementations of
some of the simpler components (when interfaces would be too much overhead).

We pass context through context.Context between app, middleware, and
handlers. To do so, pool defines some common keys to store info, such as
block height and chain id. Each extension, such as sigs or vault, may add
its own keys to enrich the context with specific data.

There should exist two functions for every XYZ of type T that we want to
support in Context:

	WithXYZ(Context, T) Context
	GetXYZ(Context) (val T, ok bool)

WithXYZ may panic if the value was previously set to avoid lower-level
modules overwriting the value (eg. height, header).
*/
package pool
