package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommandLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"plain", "approve 1 2  3", []string{"approve", "1", "2", "3"}},
		{"double quotes", `pending --password "two words"`, []string{"pending", "--password", "two words"}},
		{"single quotes", `pending -p 'a "b" c'`, []string{"pending", "-p", `a "b" c`}},
		{"joined to word", `-p="x y"`, []string{"-p=x y"}},
		{"empty quoted", `setToken ""`, []string{"setToken", ""}},
		{"blank", "   ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCommandLine(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommandLine_UnclosedQuote(t *testing.T) {
	_, err := parseCommandLine(`pending -p "secret`)
	assert.EqualError(t, err, `unclosed quote: "`)
}
