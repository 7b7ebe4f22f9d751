// Package pushbullet provides an HTTP implementation of the
// domain.PushbulletClient interface.
//
// Only three endpoints of the Pushbullet v2 API are used:
//   - GET  /users/me  validates an access token.
//   - GET  /devices   lists the account's devices.
//   - POST /texts     asks a device to send an SMS.
//
// Every request carries the key in the Access-Token header and runs under its
// own deadline. When a deadline passes, the client asks a
// domain.ConnectivityProber whether the internet is reachable at all and
// returns a domain.TimeoutError describing which case applies. No call is
// retried.
package pushbullet
