/*
Package crypto provides the ed25519 keys used to authenticate
transactions. A public key maps to a condition in the sigs extension, so
the address of a signer is the address of that condition.
*/
package crypto
