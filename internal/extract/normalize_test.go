package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimPadding(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"nothing to trim", []string{"a", "b"}, []string{"a", "b"}},
		{"leading and trailing", []string{"", "  ", "a", "", "b", "\t", ""}, []string{"a", "", "b"}},
		{"all blank", []string{" ", ""}, []string{}},
		{"empty", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimPadding(tt.input)
			assert.Equal(t, len(tt.want), len(got))
			for i := range tt.want {
				assert.Equal(t, tt.want[i], got[i])
			}
		})
	}
}

func TestTrimIndentation(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "common indent removed",
			input: []string{"    a", "      b", "    c"},
			want:  []string{"a", "  b", "c"},
		},
		{
			name:  "blank lines ignored for width",
			input: []string{"    a", "", "    b"},
			want:  []string{"a", "", "b"},
		},
		{
			name:  "short whitespace line kept",
			input: []string{"    a", "  ", "    b"},
			want:  []string{"a", "  ", "b"},
		},
		{
			name:  "tabs",
			input: []string{"\t\tif x {", "\t\t\treturn", "\t\t}"},
			want:  []string{"if x {", "\treturn", "}"},
		},
		{
			name:  "no indent",
			input: []string{"a", "  b"},
			want:  []string{"a", "  b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrimIndentation(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := [][]string{
		{"", "    var a = 1;", "      var b = 2;", "", "    return;", "   "},
		{"\tfoo()", "\t\tbar()"},
		{"x"},
		{},
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		assert.Equal(t, once, twice)
	}
}
