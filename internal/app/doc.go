// Package app wires application dependencies for the CLI.
//
// LoadConfig resolves settings from flags, environment (PBSMS_*), an optional
// .env file and an optional config.yaml. NewWire builds the concrete cipher,
// secret store, connectivity prober, Pushbullet client and SMS service from
// the resulting Config, exposing them via the Wire struct for commands to use.
package app
