package schema

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"
)

// Request is the root render request sent to the video API
type Request struct {
	ID         string         `json:"id,omitempty" yaml:"id,omitempty"`
	Comment    string         `json:"comment,omitempty" yaml:"comment,omitempty"`
	Resolution string         `json:"resolution,omitempty" yaml:"resolution,omitempty"`
	Quality    string         `json:"quality,omitempty" yaml:"quality,omitempty"`
	Width      int            `json:"width,omitempty" yaml:"width,omitempty"`
	Height     int            `json:"height,omitempty" yaml:"height,omitempty"`
	Cache      *bool          `json:"cache,omitempty" yaml:"cache,omitempty"`
	Variables  map[string]any `json:"variables,omitempty" yaml:"variables,omitempty"`
	ClientData map[string]any `json:"client-data,omitempty" yaml:"client-data,omitempty"`
	Scenes     []Scene        `json:"scenes" yaml:"scenes"`
	Elements   []Element      `json:"elements,omitempty" yaml:"elements,omitempty"`
	Exports    []ExportConfig `json:"exports,omitempty" yaml:"exports,omitempty"`
}

// Scene is one time window of the movie; array position is render order
type Scene struct {
	Comment         string      `json:"comment,omitempty" yaml:"comment,omitempty"`
	BackgroundColor string      `json:"background-color,omitempty" yaml:"background-color,omitempty"`
	Duration        float64     `json:"duration,omitempty" yaml:"duration,omitempty"` // seconds, or a sentinel
	Condition       string      `json:"condition,omitempty" yaml:"condition,omitempty"`
	Cache           *bool       `json:"cache,omitempty" yaml:"cache,omitempty"`
	Transition      *Transition `json:"transition,omitempty" yaml:"transition,omitempty"`
	Elements        []Element   `json:"elements" yaml:"elements"`
}

// Transition is ignored by the API on the first scene
type Transition struct {
	Style    string  `json:"style,omitempty" yaml:"style,omitempty"`
	Duration float64 `json:"duration,omitempty" yaml:"duration,omitempty"`
}

// Element is a tagged union: Type selects the variant, Fields holds the
// variant's canonical (API-named) fields.
type Element struct {
	Type   ElementType
	Fields map[string]any
}

func NewElement(t ElementType, fields map[string]any) Element {
	if fields == nil {
		fields = map[string]any{}
	}
	return Element{Type: t, Fields: fields}
}

// Lookup implements Object. "type" resolves to the discriminator.
func (e Element) Lookup(key string) (any, bool) {
	if key == "type" {
		return string(e.Type), e.Type != ""
	}
	v, ok := e.Fields[key]
	return v, ok
}

// Map returns the flat wire representation of the element.
func (e Element) Map() map[string]any {
	out := make(map[string]any, len(e.Fields)+1)
	maps.Copy(out, e.Fields)
	out["type"] = string(e.Type)
	return out
}

func (e Element) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Map())
}

func (e *Element) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return e.fromMap(raw)
}

func (e Element) MarshalYAML() (any, error) {
	return e.Map(), nil
}

func (e *Element) fromMap(raw map[string]any) error {
	t, _ := raw["type"].(string)
	delete(raw, "type")
	*e = NewElement(ElementType(strings.TrimSpace(t)), raw)
	return nil
}

// ExportConfig groups destinations for the rendered movie. The API only
// honors the first config of a request.
type ExportConfig struct {
	Destinations []Destination `json:"destinations" yaml:"destinations" mapstructure:"destinations"`
}

// Destination is a tagged union over webhook, ftp and email targets.
type Destination struct {
	Type DestinationType `json:"type" yaml:"type" mapstructure:"type"`

	// webhook
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" mapstructure:"endpoint"`

	// ftp
	Host       string `json:"host,omitempty" yaml:"host,omitempty" mapstructure:"host"`
	Port       int    `json:"port,omitempty" yaml:"port,omitempty" mapstructure:"port"`
	Username   string `json:"username,omitempty" yaml:"username,omitempty" mapstructure:"username"`
	Password   string `json:"password,omitempty" yaml:"password,omitempty" mapstructure:"password"`
	RemotePath string `json:"remote-path,omitempty" yaml:"remote-path,omitempty" mapstructure:"remote-path"`
	File       string `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file"`
	Secure     *bool  `json:"secure,omitempty" yaml:"secure,omitempty" mapstructure:"secure"`

	// email
	To      Recipients `json:"to,omitempty" yaml:"to,omitempty" mapstructure:"to"`
	From    string     `json:"from,omitempty" yaml:"from,omitempty" mapstructure:"from"`
	Subject string     `json:"subject,omitempty" yaml:"subject,omitempty" mapstructure:"subject"`
	Message string     `json:"message,omitempty" yaml:"message,omitempty" mapstructure:"message"`
}

// Recipients accepts a single address or a list; a single address is
// written back as a plain string.
type Recipients []string

func (r Recipients) MarshalJSON() ([]byte, error) {
	if len(r) == 1 {
		return json.Marshal(r[0])
	}
	return json.Marshal([]string(r))
}

func (r *Recipients) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*r = Recipients{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("recipients must be a string or a list of strings: %w", err)
	}
	*r = list
	return nil
}

func (r Recipients) MarshalYAML() (any, error) {
	if len(r) == 1 {
		return r[0], nil
	}
	return []string(r), nil
}
