package build

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jaxsonp/factory-script/internal/pallet"
)

// parseAssignLiteral parses the text between `{` and `}` of an assign
// station into a Pallet, following the same literal grammar as ordinary
// FactoryScript source: empty/true/false/pi/e keywords, "quoted" strings,
// 'c' chars, and numeric literals (int by default, float with a trailing
// `f` or an embedded `.`; underscores are ignored as digit separators).
func parseAssignLiteral(s string) (pallet.Pallet, error) {
	switch s {
	case "":
		return pallet.NewEmpty(), nil
	case "true":
		return pallet.NewBool(true), nil
	case "false":
		return pallet.NewBool(false), nil
	case "pi":
		return pallet.Pi, nil
	case "e":
		return pallet.E, nil
	}

	if strings.HasPrefix(s, `"`) {
		if !strings.HasSuffix(s, `"`) || len(s) < 2 {
			return pallet.Pallet{}, errLiteral("Unclosed string literal")
		}
		return pallet.NewString(s[1 : len(s)-1]), nil
	}
	if strings.HasPrefix(s, "'") {
		if !strings.HasSuffix(s, "'") {
			return pallet.Pallet{}, errLiteral("Unclosed character literal")
		}
		runes := []rune(s)
		if len(runes) != 3 {
			return pallet.Pallet{}, errLiteral("Malformed character literal")
		}
		return pallet.NewChar(runes[1]), nil
	}

	var digits strings.Builder
	decimal := false
	floatTerminal := false
	for _, c := range s {
		if floatTerminal {
			return pallet.Pallet{}, errLiteral("Unexpected character(s) after float literal")
		}
		switch {
		case c == '_':
			continue
		case c == '.':
			if decimal {
				return pallet.Pallet{}, errLiteral("Malformed float literal, found multiple decimal points")
			}
			decimal = true
			digits.WriteByte('.')
		case c == 'f':
			floatTerminal = true
		case c >= '0' && c <= '9':
			digits.WriteRune(c)
		default:
			return pallet.Pallet{}, errLiteral("Invalid assignment literal")
		}
	}

	if !decimal && !floatTerminal {
		n, err := strconv.ParseInt(digits.String(), 10, 64)
		if err != nil {
			return pallet.Pallet{}, fmt.Errorf("Failed to parse integer literal (%w)", err)
		}
		return pallet.NewInt(n), nil
	}
	n, err := strconv.ParseFloat(digits.String(), 64)
	if err != nil {
		return pallet.Pallet{}, fmt.Errorf("Failed to parse float literal (%w)", err)
	}
	return pallet.NewFloat(n), nil
}

type literalError string

func (e literalError) Error() string { return string(e) }

func errLiteral(msg string) error { return literalError(msg) }
