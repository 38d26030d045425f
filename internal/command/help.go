package command

import "strings"

var helpLines = []string{
	"counter <name>|create|info|list|increment|decrement|delete <name>",
	"counter public <name> on|off",
	"counter whitelist|blacklist <name> add|remove <user>",
	"tag <name>|create <name> <content>|info|list|edit <name> <content>|delete <name>",
	"roll XdY",
	"stats",
	"help",
}

// help lists the commands. The admin-only ping is shown to admins only.
func (d *Dispatcher) help(req Request, _ *args) (string, error) {
	var b strings.Builder
	b.WriteString("Commands:")
	lines := helpLines
	if d.policy.IsAdmin(req.ActorID) {
		lines = append(lines[:len(lines):len(lines)], "ping")
	}
	for _, line := range lines {
		b.WriteString("\n" + d.prefix + line)
	}
	return b.String(), nil
}
