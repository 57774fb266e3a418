/*
Package errors implements custom error interfaces for the pool application.

Every error returned to a client should wrap one of the root errors declared
with Register. A root error carries an ABCI code, so any error that wraps it
can be converted into an ABCI response without losing its category:

	if amount.IsZero() {
		return errors.Wrap(errors.ErrInvalidAmount, "deposit")
	}

Use Is to check the category of an error, no matter how deeply it was
wrapped:

	if errors.ErrNotFound.Is(err) {
		// ...
	}

Errors that do not wrap a registered root error are considered internal.
Their message is hidden from the client unless the application runs in
debug mode (see ABCIInfo and Redact).
*/
package errors
