// Package validator checks request-shaped values against the video API's
// rules at a chosen depth and reports every violation it finds.
package validator

import (
	"fmt"

	playground "github.com/go-playground/validator/v10"

	"github.com/ivlev/json2video/internal/logger"
	"github.com/ivlev/json2video/internal/schema"
)

const msgUnknownFailure = "Validation error: Unknown validation error"

// CrossCheck inspects a whole request for inter-element consistency.
// Advisory issues it returns are reported as warnings.
type CrossCheck func(req schema.Object) []schema.Issue

type Validator struct {
	log         logger.Logger
	validate    *playground.Validate
	crossChecks []CrossCheck
}

type Option func(*Validator)

func WithLogger(l logger.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.log = l
		}
	}
}

// WithCrossCheck registers a request-wide check run at complete depth.
func WithCrossCheck(c CrossCheck) Option {
	return func(v *Validator) {
		if c != nil {
			v.crossChecks = append(v.crossChecks, c)
		}
	}
}

func New(opts ...Option) *Validator {
	v := &Validator{
		log:      logger.Nop(),
		validate: playground.New(playground.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateRequest checks req at the given depth. It never panics: a failure
// inside a rule is reported as a single generic error.
func (v *Validator) ValidateRequest(req any, level Level) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			v.log.Error("validation panicked", "panic", fmt.Sprint(r))
			res = Result{
				Errors:   []schema.Issue{schema.Newf(schema.KindInternal, "", msgUnknownFailure)},
				Warnings: []schema.Issue{},
			}
		}
	}()

	if level < LevelStructural || level > LevelComplete {
		level = LevelComplete
	}

	rep := &report{}
	obj, ok := asRequest(req)
	if !ok {
		rep.fail(schema.KindStructural, "", "Request must be an object")
		return rep.result()
	}

	scenes, scenesOK := v.structural(rep, obj)
	if level.atLeast(LevelSemantic) {
		v.semantic(rep, obj, scenes, level)
	}
	if scenesOK {
		v.checkElementCount(rep, obj, scenes, level)
	}
	if level.atLeast(LevelComplete) {
		for _, check := range v.crossChecks {
			rep.add(check(obj)...)
		}
	}

	res = rep.result()
	v.log.Debug("request validated",
		"level", level, "errors", len(res.Errors), "warnings", len(res.Warnings))
	return res
}

func asRequest(req any) (schema.Object, bool) {
	switch r := req.(type) {
	case *schema.Request:
		if r == nil {
			return nil, false
		}
		doc, err := r.Document()
		if err != nil {
			return nil, false
		}
		return doc, true
	case schema.Request:
		doc, err := r.Document()
		if err != nil {
			return nil, false
		}
		return doc, true
	}
	return schema.AsObject(req)
}

// structural checks the gross shape and returns the scene list when it is
// usable.
func (v *Validator) structural(rep *report, req schema.Object) ([]any, bool) {
	var (
		scenes   []any
		scenesOK bool
	)
	raw, present := schema.Get(req, "scenes")
	switch {
	case !present:
		rep.fail(schema.KindRequired, "scenes", "Missing required field: scenes")
	default:
		scenes, scenesOK = schema.AsArray(raw)
		if !scenesOK {
			rep.fail(schema.KindStructural, "scenes", "Field 'scenes' must be an array")
		} else if len(scenes) == 0 {
			rep.warn("scenes", "Request has no scenes")
		}
	}

	root := scoped{report: rep}
	width, hasWidth := checkNumber(root, req, "width")
	if hasWidth && !schema.WidthRange.Contains(width) {
		rep.fail(schema.KindRange, "width", "width must be between %g and %g", schema.WidthRange.Min, schema.WidthRange.Max)
	}
	height, hasHeight := checkNumber(root, req, "height")
	if hasHeight && !schema.HeightRange.Contains(height) {
		rep.fail(schema.KindRange, "height", "height must be between %g and %g", schema.HeightRange.Min, schema.HeightRange.Max)
	}

	checkEnum(root, req, "quality", schema.Qualities)
	if resolution, ok := checkEnum(root, req, "resolution", schema.Resolutions); ok && resolution == schema.ResolutionCustom {
		_, w := schema.Get(req, "width")
		_, h := schema.Get(req, "height")
		if !w || !h {
			rep.fail(schema.KindRequired, "resolution", "Custom resolution requires both width and height")
		}
	}

	if raw, ok := schema.Get(req, "elements"); ok {
		if _, ok := schema.AsArray(raw); !ok {
			rep.fail(schema.KindStructural, "elements", "Field 'elements' must be an array")
		}
	}
	if raw, ok := schema.Get(req, "exports"); ok {
		if _, ok := schema.AsArray(raw); !ok {
			rep.fail(schema.KindStructural, "exports", "Field 'exports' must be an array")
		}
	}

	return scenes, scenesOK
}

func (v *Validator) semantic(rep *report, req schema.Object, scenes []any, level Level) {
	if raw, ok := schema.Get(req, "elements"); ok {
		if items, ok := schema.AsArray(raw); ok {
			for i, el := range items {
				rep.merge(v.ValidateElement(el, MovieLocation(i), level))
			}
		}
	}

	for i, raw := range scenes {
		v.validateScene(rep, raw, i, level)
	}

	if raw, ok := schema.Get(req, "exports"); ok {
		if _, ok := schema.AsArray(raw); ok {
			rep.merge(v.ValidateExports(raw))
		}
	}
}

func (v *Validator) validateScene(rep *report, raw any, index int, level Level) {
	sc := scoped{
		report: rep,
		prefix: fmt.Sprintf("Scene %d: ", index+1),
		path:   indexed("scenes", index),
	}
	scene, ok := schema.AsObject(raw)
	if !ok {
		sc.fail(schema.KindStructural, "", "Scene must be an object")
		return
	}

	checkDuration(sc, scene)
	v.checkTransition(sc, scene, index)

	rawElements, present := schema.Get(scene, "elements")
	if !present {
		sc.fail(schema.KindRequired, "elements", "Missing required field: elements")
		return
	}
	elements, ok := schema.AsArray(rawElements)
	if !ok {
		sc.fail(schema.KindStructural, "elements", "Field 'elements' must be an array")
		return
	}
	for j, el := range elements {
		rep.merge(v.ValidateElement(el, SceneLocation(index, j), level))
	}
}

func (v *Validator) checkTransition(sc scoped, scene schema.Object, index int) {
	raw, ok := schema.Get(scene, "transition")
	if !ok {
		return
	}
	transition, ok := schema.AsObject(raw)
	if !ok {
		sc.fail(schema.KindType, "transition", "transition must be an object")
		return
	}
	if style, ok := schema.Get(transition, "style"); ok {
		if _, isString := style.(string); !isString {
			sc.fail(schema.KindType, "transition.style", "transition style must be a string")
		}
	}
	if d, ok := checkNumber(sc, transition, "duration"); ok && d < 0 {
		sc.fail(schema.KindRange, "transition.duration", "transition duration must be non-negative")
	}
	if index == 0 {
		sc.warn("transition", "transition is ignored on the first scene")
	}
}

// checkElementCount reports a request with nothing to render: an error at
// complete depth, a warning below it. Scene elements already validated
// during the semantic pass are not validated again.
func (v *Validator) checkElementCount(rep *report, req schema.Object, scenes []any, level Level) {
	total := 0
	if raw, ok := schema.Get(req, "elements"); ok {
		if items, ok := schema.AsArray(raw); ok {
			total += len(items)
		}
	}
	for _, raw := range scenes {
		scene, ok := schema.AsObject(raw)
		if !ok {
			continue
		}
		if els, ok := schema.Get(scene, "elements"); ok {
			if items, ok := schema.AsArray(els); ok {
				total += len(items)
			}
		}
	}
	if total > 0 {
		return
	}

	const msg = "Request must contain at least one element (movie-level or in a scene)"
	if level.atLeast(LevelComplete) {
		rep.fail(schema.KindBusinessRule, "", msg)
	} else {
		rep.warn("", msg)
	}
}
