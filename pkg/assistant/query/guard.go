package query

import "strings"

// Guard is an immutable allowlist of command names the assistant backend
// may execute against a user's database. Deny by default: case-insensitive
// exact match only, no prefix or wildcard semantics. It is the sole defense
// against the backend driving destructive operations, so it is evaluated on
// every sandboxed-execution request.
type Guard map[string]struct{}

func NewGuard(commands []string) Guard {
	g := make(Guard, len(commands))
	for _, cmd := range commands {
		cmd = strings.TrimSpace(strings.ToLower(cmd))
		if cmd == "" {
			continue
		}
		g[cmd] = struct{}{}
	}
	return g
}

func (g Guard) Allows(command string) bool {
	if command == "" {
		return false
	}
	_, ok := g[strings.ToLower(command)]
	return ok
}
