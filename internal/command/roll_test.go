package command

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedDie returns a die that always lands on face, capped at sides.
func fixedDie(face uint32) func(uint32) uint32 {
	return func(sides uint32) uint32 { return min(face, sides) }
}

func TestRoll(t *testing.T) {
	tests := []struct {
		name    string
		content string
		face    uint32
		want    string
	}{
		{name: "single die", content: ";roll 1d6", face: 4, want: "4"},
		{name: "several dice", content: ";roll 3d6", face: 5, want: "5 + 5 + 5 = 15"},
		{name: "implicit suffix ignored", content: ";roll 2d10+3", face: 7, want: "7 + 7 = 14"},
		{name: "upper case", content: ";roll 2D4", face: 2, want: "2 + 2 = 4"},
		{name: "largest die", content: ";roll 1d4294967294", face: math.MaxUint32 - 1, want: "4294967294"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBot(t)
			b.d.rollDie = fixedDie(tt.face)

			assert.Equal(t, tt.want, b.mustRun(t, alice, tt.content))
		})
	}
}

func TestRoll_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "no argument", content: ";roll", want: rollUsage},
		{name: "not dice", content: ";roll six", want: rollUsage},
		{name: "missing count", content: ";roll d6", want: rollUsage},
		{name: "missing sides", content: ";roll 2d", want: rollUsage},
		{name: "count overflows", content: ";roll 99999999999d6", want: rollUsage},
		{name: "zero sides", content: ";roll 2d0", want: "Number of die sides cannot be 0."},
		{name: "sides too large", content: ";roll 1d4294967295", want: "Number of die sides is too large"},
		{name: "zero dice", content: ";roll 0d6", want: "Number of dice cannot be 0"},
		{name: "too many dice", content: ";roll 101d6", want: "Number of dice cannot be more than 100"},
		{name: "sum too large", content: ";roll 2d4294967294", want: "Unable to calculate result: sum of rolls too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBot(t)
			b.d.rollDie = fixedDie(math.MaxUint32)

			cerr := b.failure(t, alice, tt.content)

			assert.Equal(t, CodeRejected, cerr.Code)
			assert.Equal(t, tt.want, cerr.Message)
		})
	}
}

func TestRandomRollInRange(t *testing.T) {
	for _, sides := range []uint32{1, 2, 6, 20} {
		for range 200 {
			r := randomRoll(sides)
			require.GreaterOrEqual(t, r, uint32(1))
			require.LessOrEqual(t, r, sides)
		}
	}
}

func TestHelp(t *testing.T) {
	b := newTestBot(t)

	reply := b.mustRun(t, alice, ";help")
	assert.True(t, strings.HasPrefix(reply, "Commands:"), reply)
	for _, cmd := range []string{";counter", ";tag", ";roll XdY", ";stats", ";help"} {
		assert.Contains(t, reply, "\n"+cmd)
	}
	assert.NotContains(t, reply, ";ping")

	assert.Contains(t, b.mustRun(t, admin, ";help"), "\n;ping")
	// The admin variant does not leak into the shared list.
	assert.NotContains(t, b.mustRun(t, alice, ";help"), ";ping")
}
