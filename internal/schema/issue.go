package schema

import (
	"fmt"
	"strings"
)

// Kind classifies an Issue at creation time.
type Kind int

const (
	KindStructural Kind = iota + 1
	KindRequired
	KindType
	KindRange
	KindEnum
	KindConflict
	KindForbidden
	KindFormat
	KindBusinessRule
	KindParse
	KindAdvisory
	KindInternal
)

var kindNames = map[Kind]string{
	KindStructural:   "structural",
	KindRequired:     "required",
	KindType:         "type",
	KindRange:        "range",
	KindEnum:         "enum",
	KindConflict:     "conflict",
	KindForbidden:    "forbidden",
	KindFormat:       "format",
	KindBusinessRule: "business-rule",
	KindParse:        "parse",
	KindAdvisory:     "advisory",
	KindInternal:     "internal",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	name := strings.TrimSpace(string(text))
	for kind, n := range kindNames {
		if n == name {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown issue kind %q", name)
}

// Fixable reports whether the caller can resolve an issue of this kind by
// supplying or retyping a value.
func (k Kind) Fixable() bool {
	switch k {
	case KindRequired, KindType, KindBusinessRule:
		return true
	default:
		return false
	}
}

// Issue is a single validation or build finding.
type Issue struct {
	Kind    Kind   `json:"kind"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return i.Message
}

// Newf creates an Issue with a formatted message.
func Newf(kind Kind, path, format string, args ...any) Issue {
	return Issue{Kind: kind, Path: path, Message: fmt.Sprintf(format, args...)}
}

// Messages flattens issues into their human-readable messages.
func Messages(issues []Issue) []string {
	out := make([]string, len(issues))
	for i, is := range issues {
		out[i] = is.Message
	}
	return out
}
