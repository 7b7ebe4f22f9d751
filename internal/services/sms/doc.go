// Package sms drives the two lifecycles of the CLI.
//
// Key management validates a Pushbullet access token remotely and stores it
// through a domain.SecretStore, or removes the stored token. Sending checks
// the destination locally, loads the stored token, picks the first
// SMS-capable device and asks Pushbullet to send the text.
//
// A send that Pushbullet answers with a failure is returned as an undelivered
// domain.SendOutcome and a nil error. Only local, storage and transport
// failures are returned as errors.
package sms
