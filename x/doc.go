/*
Package x contains the helpers shared by all extensions. An extension
never hard codes how a signer was authenticated, it asks an Authenticator
that is passed to its handlers instead.
*/
package x
