package repl

import "strings"

// CommandInfo describes one server command for completion and help.
type CommandInfo struct {
	Name    string
	Args    string
	Summary string
}

// serverCommands is the command set understood by respkv-server.
var serverCommands = []CommandInfo{
	{Name: "PING", Summary: "Reply with PONG"},
	{Name: "ECHO", Args: "message", Summary: "Reply with the given message"},
	{Name: "SET", Args: "key value", Summary: "Store a value"},
	{Name: "GET", Args: "key", Summary: "Fetch a value"},
	{Name: "DEL", Args: "key [key ...]", Summary: "Delete keys"},
	{Name: "EXISTS", Args: "key [key ...]", Summary: "Count existing keys"},
	{Name: "EXPIRE", Args: "key seconds", Summary: "Set a time to live"},
	{Name: "TTL", Args: "key", Summary: "Remaining time to live in seconds"},
	{Name: "DBSIZE", Summary: "Number of stored keys"},
	{Name: "QUIT", Summary: "Close the connection"},
}

// Completer provides command completion for the REPL.
type Completer struct {
	commands []string
}

// NewCompleter creates a new Completer.
func NewCompleter() *Completer {
	c := &Completer{}
	for _, cmd := range serverCommands {
		c.commands = append(c.commands, cmd.Name)
	}
	c.commands = append(c.commands, "help", "exit", "quit")
	return c
}

// Complete returns completion suggestions for the given prefix.
// Matching ignores case.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	lower := strings.ToLower(prefix)
	for _, cmd := range c.commands {
		if strings.HasPrefix(strings.ToLower(cmd), lower) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}

// Commands returns the server command table.
func Commands() []CommandInfo {
	return serverCommands
}
