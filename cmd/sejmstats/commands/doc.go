// Package commands defines the sejmstats CLI and wires dependencies for subcommands.
//
// Commands
//
//   - serve      Run the HTTP API and the periodic refresh job
//   - analyze    Run one analyzer (or all) and print the report
//   - refresh    Run every analyzer once, persist and publish the digest
//   - snapshot   Save the upstream records to a JSON file for offline runs
//
// The root command loads configuration and builds the application before any
// subcommand runs; subcommands share it through appCtx.
package commands
