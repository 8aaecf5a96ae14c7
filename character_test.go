package weft

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCharacters(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Character
	}{
		{
			name:  "ascii",
			input: "ab",
			want:  []Character{{"a", 1}, {"b", 1}},
		},
		{
			name:  "wide",
			input: "你a",
			want:  []Character{{"你", 2}, {"a", 1}},
		},
		{
			name:  "combining joins",
			input: "éx",
			want:  []Character{{"é", 1}, {"x", 1}},
		},
		{
			name:  "tab expands to eight spaces",
			input: "\t",
			want: []Character{
				{" ", 1}, {" ", 1}, {" ", 1}, {" ", 1},
				{" ", 1}, {" ", 1}, {" ", 1}, {" ", 1},
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, Characters(test.input))
		})
	}
}
