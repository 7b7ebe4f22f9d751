// Package store provides file-based persistence for the Pushbullet API key.
//
// SecretFileStore keeps a single encrypted blob (settings.dat) under the
// user's configuration directory. Encryption is delegated to a
// domain.SecretCipher so the file logic stays platform independent. Writes go
// through a temp file and rename; methods are concurrency-safe via internal
// locking, though each CLI run touches the file at most a couple of times.
package store
