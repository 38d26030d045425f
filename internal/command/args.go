package command

import (
	"strconv"
	"strings"
	"unicode"
)

// args walks a command's text one whitespace-separated word at a time and
// can hand back the untouched remainder, so tag content keeps its spacing.
type args struct {
	rest string
}

func newArgs(s string) *args {
	return &args{rest: strings.TrimSpace(s)}
}

func (a *args) next() (string, bool) {
	if a.rest == "" {
		return "", false
	}
	end := strings.IndexFunc(a.rest, unicode.IsSpace)
	if end < 0 {
		word := a.rest
		a.rest = ""
		return word, true
	}
	word := a.rest[:end]
	a.rest = strings.TrimLeftFunc(a.rest[end:], unicode.IsSpace)
	return word, true
}

func (a *args) remainder() string {
	rest := strings.TrimSpace(a.rest)
	a.rest = ""
	return rest
}

func (a *args) empty() bool { return a.rest == "" }

// parseUser accepts a raw id or a mention such as <@123> or <@!123>.
func parseUser(s string) (uint64, bool) {
	if strings.HasPrefix(s, "<@") && strings.HasSuffix(s, ">") {
		s = strings.TrimPrefix(s[2:len(s)-1], "!")
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func mention(id uint64) string {
	return "<@!" + strconv.FormatUint(id, 10) + ">"
}
