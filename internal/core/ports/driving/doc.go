// Package driving defines inbound ports: the use-case interfaces the
// CLI, MCP server and TUI call into the core through.
package driving
