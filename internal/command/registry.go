package command

import "strings"

var registry = map[string]Command{}

// Register adds a command (and its aliases) to the registry, wrapped in
// the standard middleware chain.
func Register(cmd Command) {
	cmd = Apply(cmd, WithAdminCheck(), WithCommandLog())
	registry[strings.ToLower(cmd.Name())] = cmd
	for _, a := range cmd.Aliases() {
		registry[strings.ToLower(a)] = cmd
	}
}

// Get returns the command registered under name.
func Get(name string) (Command, bool) {
	cmd, ok := registry[strings.ToLower(name)]
	return cmd, ok
}

// All returns each registered command once.
func All() []Command {
	seen := map[string]bool{}
	list := make([]Command, 0, len(registry))
	for _, cmd := range registry {
		if seen[cmd.Name()] {
			continue
		}
		list = append(list, cmd)
		seen[cmd.Name()] = true
	}
	return list
}
