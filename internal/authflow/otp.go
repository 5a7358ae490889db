package authflow

import "github.com/diagnosis/visitor-portal/internal/utils"

// CodeLength is the number of digits in an emailed one-time passcode.
const CodeLength = 4

// Code is an OTP entered one digit per cell. Methods that move the cursor
// return the index of the cell that should have focus next.
type Code [CodeLength]string

// Input sets cell i to value. Only a single digit or an empty value is
// accepted; anything else leaves the code unchanged. Entering a digit moves
// focus to the next cell.
func (c *Code) Input(i int, value string) int {
	if i < 0 || i >= CodeLength {
		return clampFocus(i)
	}
	if value != "" && !(len(value) == 1 && utils.IsDigits(value)) {
		return i
	}
	c[i] = value
	if value != "" && i < CodeLength-1 {
		return i + 1
	}
	return i
}

// Backspace handles the key in cell i: a filled cell is cleared and keeps
// focus, an empty cell hands focus to the previous one.
func (c *Code) Backspace(i int) int {
	if i < 0 || i >= CodeLength {
		return clampFocus(i)
	}
	if c[i] != "" {
		c[i] = ""
		return i
	}
	if i > 0 {
		return i - 1
	}
	return i
}

// Paste distributes up to CodeLength leading characters of text over the
// cells starting at the first, clearing the rest. Pasted text whose leading
// characters are not all digits is ignored and ok is false.
func (c *Code) Paste(text string) (focus int, ok bool) {
	runes := []rune(text)
	if len(runes) > CodeLength {
		runes = runes[:CodeLength]
	}
	pasted := string(runes)
	if pasted == "" || !utils.IsDigits(pasted) {
		return 0, false
	}

	*c = Code{}
	for i, r := range runes {
		c[i] = string(r)
	}
	return min(len(runes), CodeLength-1), true
}

// Complete reports whether every cell holds a digit.
func (c Code) Complete() bool {
	for _, d := range c {
		if d == "" {
			return false
		}
	}
	return true
}

func (c Code) String() string {
	var s string
	for _, d := range c {
		s += d
	}
	return s
}

// ParseCode builds a Code from submitted cell values, keeping only cells
// that hold exactly one digit.
func ParseCode(cells []string) Code {
	var c Code
	for i := 0; i < CodeLength && i < len(cells); i++ {
		c.Input(i, cells[i])
	}
	return c
}

func clampFocus(i int) int {
	if i < 0 {
		return 0
	}
	return CodeLength - 1
}
