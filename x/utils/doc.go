/*
Package utils contains decorators shared by every application stack:
panic recovery, request logging, savepoints and result tagging.
*/
package utils
