// Package commands defines the pbsms CLI.
//
// Invocations
//
//   - pbsms                      Print help
//   - pbsms APIKey=<key>         Validate and store a Pushbullet API key
//   - pbsms APIKey=remove        Delete the stored key
//   - pbsms <phone> <message>    Send an SMS through the first SMS-capable device
//
// # Implementation
//
// A single root command accepts arbitrary positional arguments and picks the
// flow from their shape. The config is resolved and the dependency graph
// built before the flow runs. Every flow prints its own user-facing messages;
// Execute returns a non-nil error exactly when the process should exit 1.
package commands
