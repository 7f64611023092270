// Package builder assembles API requests from collected host input, either
// from discrete structured fields or from a raw JSON template.
package builder

import (
	"encoding/json"
	"fmt"
	"time"

	"dario.cat/mergo"
	"github.com/tidwall/gjson"

	"github.com/ivlev/json2video/internal/logger"
	"github.com/ivlev/json2video/internal/normalize"
	"github.com/ivlev/json2video/internal/schema"
)

const (
	msgBuildFailed    = "Request building failed: Unknown error"
	msgAdvancedFailed = "Advanced mode build failed: Unknown error"
	msgTemplateFailed = "Invalid JSON template: Unknown error"
	msgTemplateParse  = "Invalid JSON template: Parse error"
	msgTemplateRoot   = "Invalid JSON template: root value must be an object"

	msgNoScenes        = "No scenes in request"
	msgNoElements      = "No elements or subtitles provided - the video will be empty"
	msgOnlySubtitles   = "No scene elements provided - only subtitles will appear"
	msgSettingsIgnored = "Output settings could not be read - defaults applied"
)

// BuildResult is the outcome of one build. Request is nil when the build
// failed outright.
type BuildResult struct {
	Request    schema.Document
	Structured *schema.Request // nil in template mode
	Errors     []schema.Issue
	Warnings   []schema.Issue
}

func (r BuildResult) HasErrors() bool {
	return len(r.Errors) > 0
}

type Builder struct {
	log logger.Logger
	now func() time.Time
}

type Option func(*Builder)

func WithLogger(l logger.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.log = l
		}
	}
}

// WithClock overrides the time source used for generated request ids.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

func New(opts ...Option) *Builder {
	b := &Builder{
		log: logger.Nop(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build never panics and never returns a Go error: every failure is
// reported through BuildResult.Errors.
func (b *Builder) Build(in Input) (res BuildResult) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("request build panicked", "panic", fmt.Sprint(r))
			res = failed(schema.KindInternal, msgBuildFailed)
		}
	}()

	if in.AdvancedMode {
		return b.buildFromTemplate(in.JSONTemplate)
	}
	return b.buildStructured(in)
}

func (b *Builder) buildFromTemplate(raw string) (res BuildResult) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("advanced mode build panicked", "panic", fmt.Sprint(r))
			res = failed(schema.KindInternal, msgAdvancedFailed)
		}
	}()

	doc, issue := b.parseTemplate(raw)
	if issue != nil {
		return BuildResult{Errors: []schema.Issue{*issue}}
	}
	return BuildResult{Request: doc}
}

// parseTemplate decodes the caller's JSON as-is. The template is trusted to
// be API-shaped: no normalization is applied.
func (b *Builder) parseTemplate(raw string) (doc schema.Document, issue *schema.Issue) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("template parsing panicked", "panic", fmt.Sprint(r))
			is := schema.Newf(schema.KindInternal, "jsonTemplate", msgTemplateFailed)
			doc, issue = nil, &is
		}
	}()

	if !gjson.Valid(raw) {
		b.log.Debug("json template rejected", "length", len(raw))
		is := schema.Newf(schema.KindParse, "jsonTemplate", msgTemplateParse)
		return nil, &is
	}
	if !gjson.Parse(raw).IsObject() {
		is := schema.Newf(schema.KindParse, "jsonTemplate", msgTemplateRoot)
		return nil, &is
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		is := schema.Newf(schema.KindParse, "jsonTemplate", msgTemplateParse)
		return nil, &is
	}
	if v, ok := doc["scenes"]; !ok || v == nil {
		doc["scenes"] = []any{}
	}
	return doc, nil
}

func (b *Builder) buildStructured(in Input) BuildResult {
	var res BuildResult
	req := &schema.Request{}

	b.applyOutputSettings(req, in.OutputSettings, &res)

	hasSubtitles := len(in.Subtitles) > 0
	if hasSubtitles {
		raw := make(map[string]any, len(in.Subtitles)+1)
		for k, v := range in.Subtitles {
			raw[k] = v
		}
		raw["type"] = string(schema.TypeSubtitles)
		req.Elements = []schema.Element{normalize.Element(raw)}
	}

	// Single-scene strategy: every accepted element lands in one scene.
	scene := schema.Scene{Elements: make([]schema.Element, 0, len(in.Elements))}
	for i, raw := range in.Elements {
		if normalize.TypeOf(raw) == "" {
			b.log.Debug("element without type skipped", "index", i+1)
			res.Errors = append(res.Errors, schema.Newf(schema.KindBusinessRule,
				fmt.Sprintf("elements[%d]", i), "Element %d: Element type is required", i+1))
			continue
		}
		scene.Elements = append(scene.Elements, normalize.Element(raw))
	}
	req.Scenes = []schema.Scene{scene}

	b.applyCommon(req, in)

	switch {
	case len(req.Scenes) == 0:
		res.Warnings = append(res.Warnings, schema.Newf(schema.KindAdvisory, "scenes", msgNoScenes))
	case len(scene.Elements) == 0 && !hasSubtitles:
		res.Warnings = append(res.Warnings, schema.Newf(schema.KindAdvisory, "scenes[0].elements", msgNoElements))
	case len(scene.Elements) == 0:
		res.Warnings = append(res.Warnings, schema.Newf(schema.KindAdvisory, "scenes[0].elements", msgOnlySubtitles))
	}

	doc, err := req.Document()
	if err != nil {
		b.log.Error("request encoding failed", "error", err)
		return failed(schema.KindInternal, msgBuildFailed)
	}
	res.Request = doc
	res.Structured = req
	return res
}

func (b *Builder) applyOutputSettings(req *schema.Request, raw map[string]any, res *BuildResult) {
	settings, err := DecodeOutputSettings(raw)
	if err != nil {
		b.log.Warn("output settings ignored", "error", err)
		res.Warnings = append(res.Warnings, schema.Newf(schema.KindAdvisory, "outputSettings", msgSettingsIgnored))
		settings = OutputSettings{}
	}

	defaults := OutputSettings{Quality: schema.DefaultQuality}
	// A named resolution preset decides the frame size on the API side.
	if settings.Resolution == "" || settings.Resolution == schema.ResolutionCustom {
		defaults.Width = schema.DefaultWidth
		defaults.Height = schema.DefaultHeight
	}
	if err := mergo.Merge(&settings, defaults); err != nil {
		b.log.Warn("output defaults not applied", "error", err)
	}

	req.Width = settings.Width
	req.Height = settings.Height
	req.Quality = settings.Quality
	req.Resolution = settings.Resolution
	req.Cache = settings.Cache
}

func (b *Builder) applyCommon(req *schema.Request, in Input) {
	if len(in.Exports) > 0 {
		req.Exports = in.Exports
	}

	req.Comment = in.Comment
	if in.RecordID != "" {
		if req.Comment != "" {
			req.Comment = fmt.Sprintf("%s | RecordID: %s", req.Comment, in.RecordID)
		} else {
			req.Comment = "RecordID: " + in.RecordID
		}
		req.ID = in.RecordID
	} else {
		req.ID = fmt.Sprintf("n8n-%d", b.now().UnixMilli())
	}
}

func failed(kind schema.Kind, msg string) BuildResult {
	return BuildResult{Errors: []schema.Issue{schema.Newf(kind, "", msg)}}
}
