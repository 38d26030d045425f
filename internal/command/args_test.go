package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArgs(t *testing.T) {
	a := newArgs("  create  name\tsome  spaced text ")

	word, ok := a.next()
	assert.True(t, ok)
	assert.Equal(t, "create", word)

	word, _ = a.next()
	assert.Equal(t, "name", word)
	assert.False(t, a.empty())

	assert.Equal(t, "some  spaced text", a.remainder())
	assert.True(t, a.empty())

	_, ok = a.next()
	assert.False(t, ok)
}

func TestParseUser(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
		ok   bool
	}{
		{in: "123", want: 123, ok: true},
		{in: "<@123>", want: 123, ok: true},
		{in: "<@!123>", want: 123, ok: true},
		{in: "0"},
		{in: ""},
		{in: "<@abc>"},
		{in: "@123"},
		{in: "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseUser(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
