package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripLeadingZeros(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"000123", "123"},
		{"0", "0"},
		{"0000", "0"},
		{"0.5", "0.5"},
		{"00.5", "0.5"},
		{"120", "120"},
		{"", ""},
		{"-007", "-007"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripLeadingZeros(tt.input), "input %q", tt.input)
	}
}

func TestStripLeadingZerosDecimal(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"-007,50", "-7,50"},
		{"007,50", "7,50"},
		{"000,0", "0,0"},
		{"3,140", "3,140"},
		{"-00,900", "-0,900"},
		{"0,5", "0,5"},
		{"00.25", "0.25"},
		{"1,2,3", "1,2,3"},
		{"0001,2,3", "1,2,3"},
		{"0042", "0042"},
		{"-", "-"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripLeadingZerosDecimal(tt.input), "input %q", tt.input)
	}
}

func TestStripLeadingZeros_NeverEmpty(t *testing.T) {
	alphabet := []byte("0-.123")
	// every string up to length 4 over the alphabet
	var inputs []string
	var build func(prefix string)
	build = func(prefix string) {
		if prefix != "" {
			inputs = append(inputs, prefix)
		}
		if len(prefix) == 4 {
			return
		}
		for _, c := range alphabet {
			build(prefix + string(c))
		}
	}
	build("")
	for _, input := range inputs {
		got := StripLeadingZeros(input)
		assert.NotEmpty(t, got, "input %q", input)
		if input == "0" {
			assert.Equal(t, "0", got)
		}
		if strings.Trim(input, "0") == "" {
			assert.Equal(t, "0", got, "input %q", input)
		}
	}
}

func TestNormalizeLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Record
		ok   bool
	}{
		{
			name: "data row",
			line: "0012;-003.450;007.000;-00.900;0;1",
			want: Record{"12", "-3,450", "7,000", "-0,900", "0", "1"},
			ok:   true,
		},
		{
			name: "surrounding whitespace and CRLF",
			line: "  0045;010.200;-00.300;015.000;1;0\r\n",
			want: Record{"45", "10,200", "-0,300", "15,000", "1", "0"},
			ok:   true,
		},
		{
			name: "extra fields dropped",
			line: "1;2.5;3.5;4.5;a;b;c;d",
			want: Record{"1", "2,5", "3,5", "4,5", "a", "b"},
			ok:   true,
		},
		{
			name: "last two fields verbatim",
			line: "0;0;0;0;007.0;-00",
			want: Record{"0", "0", "0", "0", "007.0", "-00"},
			ok:   true,
		},
		{name: "comment", line: "# 1;2;3;4;5;6"},
		{name: "indented comment", line: "   #note"},
		{name: "blank", line: ""},
		{name: "whitespace", line: " \t "},
		{name: "too few fields", line: "1;2;3;4;5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeLine(tt.line)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
