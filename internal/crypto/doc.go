// Package crypto implements the user-scoped ciphers that protect the stored
// Pushbullet key.
//
// Contents
//
//   - KeyringCipher: XChaCha20-Poly1305 under a random master key kept in the
//     OS keyring (Keychain, Credential Manager, Secret Service)
//   - HostCipher: ChaCha20-Poly1305 under a key derived with scrypt from the
//     machine id and the OS user, for systems without a keyring. Both inputs
//     are public, so this is obfuscation backed by the file's 0600 mode
//   - Best-effort memory wiping for sensitive byte slices (Wipe)
//
// # Notes
//
// Both ciphers produce an opaque blob: whatever the cipher needs to open it
// (nonce, salt) is prefixed to the ciphertext. A KeyringCipher blob cannot be
// opened without the master key held in the user's keyring. A HostCipher blob
// opens for any process that rebuilds the same HostIdentity.
package crypto
