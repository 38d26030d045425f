package command

import (
	"math"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
)

const (
	rollUsage = "Please specify a roll in the form XdY (e.g. 2d6)"

	// maxDice bounds a single roll so one message cannot spin the bot.
	maxDice = 100
)

var diceRoll = regexp.MustCompile(`^(\d*)d(\d*)`)

// randomRoll returns a uniform result in [1, sides].
func randomRoll(sides uint32) uint32 {
	return rand.Uint32N(sides) + 1
}

// roll rolls XdY dice. A single die replies with its result; several reply
// with each result and the sum.
func (d *Dispatcher) roll(_ Request, a *args) (string, error) {
	arg, ok := a.next()
	if !ok {
		return "", rejected(rollUsage)
	}
	m := diceRoll.FindStringSubmatch(strings.ToLower(arg))
	if m == nil {
		return "", rejected(rollUsage)
	}
	dice, err := strconv.ParseUint(m[1], 10, 32)
	if err != nil {
		return "", rejected(rollUsage)
	}
	sides, err := strconv.ParseUint(m[2], 10, 32)
	if err != nil {
		return "", rejected(rollUsage)
	}
	switch {
	case sides == 0:
		return "", rejected("Number of die sides cannot be 0.")
	case sides == math.MaxUint32:
		return "", rejected("Number of die sides is too large")
	case dice == 0:
		return "", rejected("Number of dice cannot be 0")
	case dice > maxDice:
		return "", rejected("Number of dice cannot be more than %d", maxDice)
	}

	rolls := make([]string, 0, dice)
	var sum uint32
	for range dice {
		r := d.rollDie(uint32(sides))
		if sum > math.MaxUint32-r {
			return "", rejected("Unable to calculate result: sum of rolls too large")
		}
		sum += r
		rolls = append(rolls, strconv.FormatUint(uint64(r), 10))
	}
	total := strconv.FormatUint(uint64(sum), 10)
	if len(rolls) == 1 {
		return total, nil
	}
	return strings.Join(rolls, " + ") + " = " + total, nil
}
