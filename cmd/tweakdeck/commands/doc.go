// Package commands defines the tweakdeck CLI and wires dependencies for subcommands.
//
// Commands
//
//   - (none)   Open the tuning console for the configured engine
//   - demo     Open the console against a built-in simulated engine
//   - modules  List the module catalog and mark the active module
//   - load     Activate a module and print its tweaks
//   - tweaks   Print the active module's tweaks with engine values
//   - set      Send one tweak value
//   - nudge    Step a range or cycle a select
//   - press    Fire an action
//   - reload   Ask the engine to reload its state
//
// # Implementation
//
// The root command loads configuration from the environment, applies flag
// overrides, and sets up logging and tracing before any subcommand runs.
// Interactive commands log to a file so the terminal stays clean; the others
// log to stderr. Every command talks to the engine through a deck, which
// owns the displayed schema and dispatches writes.
package commands
