package query

import (
	"testing"

	"redis-copilot-be/internal/constant"

	"github.com/stretchr/testify/assert"
)

func TestGuard_Allows(t *testing.T) {
	guard := NewGuard(constant.DefaultAllowedCommands)

	tests := []struct {
		name    string
		command string
		want    bool
	}{
		{"lowercase allowed", "ft.search", true},
		{"uppercase allowed", "FT.SEARCH", true},
		{"mixed case allowed", "Ft.Aggregate", true},
		{"destructive command", "FLUSHALL", false},
		{"write command", "SET", false},
		{"empty command", "", false},
		{"prefix is not a match", "ft.search2", false},
		{"substring is not a match", "ft", false},
		{"alter variant denied", "FT.ALTER", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, guard.Allows(tt.command))
		})
	}
}

func TestGuard_Injected(t *testing.T) {
	guard := NewGuard([]string{"DBSIZE", "  info  ", ""})

	assert.True(t, guard.Allows("dbsize"))
	assert.True(t, guard.Allows("INFO"))
	assert.False(t, guard.Allows(""))
	assert.False(t, guard.Allows("ft.search"))
}
