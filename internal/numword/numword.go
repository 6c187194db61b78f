package numword

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shinji-kodama/advent-new/internal/model"
)

// smallNumbers maps the words below twenty to their values.
var smallNumbers = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
}

// tens maps the multiples of ten from twenty to ninety.
var tens = map[string]int{
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

// scales maps the group multipliers above one hundred.
var scales = map[string]int{
	"thousand": 1_000,
	"million":  1_000_000,
	"billion":  1_000_000_000,
}

// Parse converts an English cardinal-number phrase into an integer.
//
// Words may be separated by spaces, hyphens or underscores and are matched
// case-insensitively, so "twelve", "Twenty-One" and "one_hundred_and_five"
// are all accepted. A string of plain digits is accepted as-is.
//
// Any unknown word or malformed phrase ("one two", "twenty thirty",
// "thousand") returns an error wrapping model.ErrParse.
func Parse(s string) (int, error) {
	input := strings.ToLower(strings.TrimSpace(s))
	if input == "" {
		return 0, fmt.Errorf("%w: empty input", model.ErrParse)
	}

	if isDigits(input) {
		n, err := strconv.Atoi(input)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", model.ErrParse, s, err)
		}
		return n, nil
	}

	words := strings.FieldsFunc(input, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '\t'
	})
	if len(words) == 0 {
		return 0, fmt.Errorf("%w: %q", model.ErrParse, s)
	}

	if len(words) == 1 && words[0] == "zero" {
		return 0, nil
	}

	var p parser
	p.lastScale = math.MaxInt
	for i, w := range words {
		if err := p.feed(w, i == len(words)-1); err != nil {
			return 0, fmt.Errorf("%w: %q: %v", model.ErrParse, s, err)
		}
	}
	return p.total + p.group, nil
}

// parser accumulates a number phrase one word at a time. A "group" is the
// part below the most recent scale word, e.g. "two hundred five" in
// "one thousand two hundred five".
type parser struct {
	total     int
	group     int
	lastScale int

	hasUnit    bool
	hasTens    bool
	hasHundred bool
	seenNumber bool
	prevAnd    bool
}

func (p *parser) feed(w string, last bool) error {
	if w == "and" {
		if !p.seenNumber || last || p.prevAnd {
			return fmt.Errorf("misplaced %q", w)
		}
		p.prevAnd = true
		return nil
	}
	p.prevAnd = false

	if v, ok := smallNumbers[w]; ok {
		if p.hasUnit || (v >= 10 && p.hasTens) {
			return fmt.Errorf("unexpected %q", w)
		}
		p.group += v
		p.hasUnit = true
		p.seenNumber = true
		return nil
	}

	if v, ok := tens[w]; ok {
		if p.hasTens || p.hasUnit {
			return fmt.Errorf("unexpected %q", w)
		}
		p.group += v
		p.hasTens = true
		p.seenNumber = true
		return nil
	}

	if w == "hundred" {
		if p.hasHundred || p.group < 1 || p.group > 99 {
			return fmt.Errorf("unexpected %q", w)
		}
		p.group *= 100
		p.hasHundred = true
		p.hasUnit, p.hasTens = false, false
		return nil
	}

	if v, ok := scales[w]; ok {
		if p.group == 0 || v >= p.lastScale {
			return fmt.Errorf("unexpected %q", w)
		}
		p.total += p.group * v
		p.group = 0
		p.lastScale = v
		p.hasUnit, p.hasTens, p.hasHundred = false, false, false
		return nil
	}

	// "zero" is only valid on its own and is handled by Parse.
	return fmt.Errorf("unknown number word %q", w)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
