package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeArchiveName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "already clean", input: "server", expected: "server"},
		{name: "mixed case", input: "LoadBalancer", expected: "load-balancer"},
		{name: "whitespace", input: "my server", expected: "my-server"},
		{name: "disallowed characters", input: "server/role:debug", expected: "server-role-debug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeArchiveName(tt.input))
		})
	}
}
