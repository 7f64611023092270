package validator

import (
	"fmt"
	"strings"
)

// Level is the validation depth. Each level runs every check of the levels
// below it.
type Level int

const (
	LevelStructural Level = iota + 1
	LevelSemantic
	LevelComplete
)

var levelNames = map[Level]string{
	LevelStructural: "structural",
	LevelSemantic:   "semantic",
	LevelComplete:   "complete",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseLevel accepts a level name in any casing. An empty name means complete.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return LevelComplete, nil
	}
	for l, n := range levelNames {
		if n == name {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown validation level: %s", s)
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

func (l Level) atLeast(other Level) bool {
	return l >= other
}
