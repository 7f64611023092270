package validator

import (
	"fmt"
	"strings"

	"github.com/ivlev/json2video/internal/schema"
)

// Location identifies where an element sits in a request. Indexes are
// zero-based; messages use one-based numbering.
type Location struct {
	Movie bool
	Scene int
	Index int
}

// MovieLocation is the i-th element of the request's movie-level list.
func MovieLocation(i int) Location {
	return Location{Movie: true, Index: i}
}

// SceneLocation is the j-th element of the i-th scene.
func SceneLocation(scene, i int) Location {
	return Location{Scene: scene, Index: i}
}

func (l Location) prefix() string {
	if l.Movie {
		return fmt.Sprintf("Movie element %d: ", l.Index+1)
	}
	return fmt.Sprintf("Scene %d, element %d: ", l.Scene+1, l.Index+1)
}

func (l Location) path() string {
	if l.Movie {
		return indexed("elements", l.Index)
	}
	return indexed(indexed("scenes", l.Scene)+".elements", l.Index)
}

func (l Location) allowed() []schema.ElementType {
	if l.Movie {
		return schema.MovieElementTypes
	}
	return schema.SceneElementTypes
}

// ValidateElement checks one element in the context of loc. Structural depth
// only checks the element's shape; deeper levels add the per-type rules.
func (v *Validator) ValidateElement(el any, loc Location, level Level) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			v.log.Error("element validation panicked", "path", loc.path(), "panic", fmt.Sprint(r))
			res = Result{
				Errors:   []schema.Issue{schema.Newf(schema.KindInternal, loc.path(), msgUnknownFailure)},
				Warnings: []schema.Issue{},
			}
		}
	}()

	rep := &report{}
	sc := scoped{report: rep, prefix: loc.prefix(), path: loc.path()}

	obj, ok := schema.AsObject(el)
	if !ok {
		sc.fail(schema.KindStructural, "", "Element must be an object")
		return rep.result()
	}
	rawType, _ := schema.Get(obj, "type")
	typeName, ok := schema.NonBlankString(rawType)
	if !ok {
		sc.fail(schema.KindBusinessRule, "type", "Element type is required")
		return rep.result()
	}
	if !level.atLeast(LevelSemantic) {
		return rep.result()
	}

	t := schema.ElementType(strings.ToLower(typeName))
	if !schema.Allowed(loc.allowed(), t) {
		switch {
		case t == schema.TypeSubtitles:
			sc.fail(schema.KindForbidden, "type", "Subtitles elements are only allowed at movie level, not in scenes")
		case loc.Movie:
			sc.fail(schema.KindForbidden, "type", "Invalid movie element type: %s. Allowed: %s", typeName, schema.Join(loc.allowed()))
		default:
			sc.fail(schema.KindForbidden, "type", "Invalid scene element type: %s. Allowed: %s", typeName, schema.Join(loc.allowed()))
		}
		return rep.result()
	}

	v.checkCommon(sc, obj)
	v.checkType(sc, obj, t)
	return rep.result()
}

func (v *Validator) checkType(sc scoped, el schema.Object, t schema.ElementType) {
	label := typeLabel(t)

	switch t {
	case schema.TypeVideo, schema.TypeAudio, schema.TypeAudiogram:
		if src, ok := nonBlank(el, "src"); ok {
			v.checkURL(sc, "src", src, label)
		} else {
			sc.fail(schema.KindBusinessRule, "src", "%s element requires src", label)
		}

	case schema.TypeImage:
		src, hasSrc := nonBlank(el, "src")
		_, hasPrompt := nonBlank(el, "prompt")
		switch {
		case hasSrc && hasPrompt:
			sc.fail(schema.KindConflict, "", "Image element cannot have both source URL and AI prompt")
		case !hasSrc && !hasPrompt:
			sc.fail(schema.KindBusinessRule, "", "Either source URL (src) or AI prompt is required for image element")
		case hasSrc:
			v.checkURL(sc, "src", src, label)
		default:
			checkEnum(sc, el, "model", schema.ImageModels)
			checkEnum(sc, el, "aspect-ratio", schema.AspectRatios)
		}

	case schema.TypeText:
		if _, ok := nonBlank(el, "text"); !ok {
			sc.fail(schema.KindBusinessRule, "text", "Text element requires text")
		}

	case schema.TypeVoice:
		if _, ok := nonBlank(el, "text"); !ok {
			sc.fail(schema.KindBusinessRule, "text", "Voice element requires text")
		}
		checkEnum(sc, el, "model", schema.TTSModels)

	case schema.TypeComponent:
		if _, ok := nonBlank(el, "component"); !ok {
			sc.fail(schema.KindBusinessRule, "component", "Component element requires component")
		}

	case schema.TypeHTML:
		src, hasSrc := nonBlank(el, "src")
		_, hasHTML := nonBlank(el, "html")
		if !hasSrc && !hasHTML {
			sc.fail(schema.KindBusinessRule, "", "HTML element requires either src or html")
		}
		if hasSrc {
			v.checkURL(sc, "src", src, label)
		}
	}
}

// checkCommon applies the numeric and enum rules every element type shares.
func (v *Validator) checkCommon(sc scoped, el schema.Object) {
	checkDuration(sc, el)

	if start, ok := checkNumber(sc, el, "start"); ok && start < 0 {
		sc.fail(schema.KindRange, "start", "start must be non-negative")
	}
	if z, ok := checkNumber(sc, el, "z-index"); ok && !schema.ZIndexRange.Contains(z) {
		sc.fail(schema.KindRange, "z-index", "z-index must be between %g and %g", schema.ZIndexRange.Min, schema.ZIndexRange.Max)
	}
	if vol, ok := checkNumber(sc, el, "volume"); ok && !schema.VolumeRange.Contains(vol) {
		sc.fail(schema.KindRange, "volume", "volume must be between %g and %g", schema.VolumeRange.Min, schema.VolumeRange.Max)
	}
	for _, key := range []string{"fade-in", "fade-out"} {
		if fade, ok := checkNumber(sc, el, key); ok && fade < 0 {
			sc.fail(schema.KindRange, key, "%s must be non-negative", key)
		}
	}

	if position, ok := checkEnum(sc, el, "position", schema.Positions); ok && position == schema.PositionCustom {
		_, hasX := schema.Get(el, "x")
		_, hasY := schema.Get(el, "y")
		if !hasX || !hasY {
			sc.fail(schema.KindRequired, "position", "Custom position requires both x and y")
		}
	}

	checkCrop(sc, el)
}

// checkCrop isolates crop inspection: a crop value that cannot be read is
// reported instead of aborting the element.
func checkCrop(sc scoped, el schema.Object) {
	raw, ok := schema.Get(el, "crop")
	if !ok {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			sc.fail(schema.KindStructural, "crop", "invalid crop object structure")
		}
	}()

	crop, ok := schema.AsObject(raw)
	if !ok {
		sc.fail(schema.KindStructural, "crop", "invalid crop object structure")
		return
	}
	cs := scoped{report: sc.report, prefix: sc.prefix + "crop ", path: join(sc.path, "crop")}
	for _, key := range []string{"width", "height"} {
		if n, ok := checkNumber(cs, crop, key); ok && n <= 0 {
			cs.fail(schema.KindRange, key, "%s must be positive", key)
		}
	}
}

func checkDuration(sc scoped, o schema.Object) {
	d, ok := checkNumber(sc, o, "duration")
	if !ok {
		return
	}
	if d > 0 || d == schema.DurationIntrinsic || d == schema.DurationMatchContainer {
		return
	}
	sc.fail(schema.KindRange, "duration",
		"duration must be positive, -1 (intrinsic length) or -2 (match container)")
}

// checkNumber returns the value of a present numeric field. A present
// non-numeric value is reported as a type error.
func checkNumber(sc scoped, o schema.Object, key string) (float64, bool) {
	raw, ok := schema.Get(o, key)
	if !ok {
		return 0, false
	}
	n, ok := schema.AsNumber(raw)
	if !ok {
		sc.fail(schema.KindType, key, "%s must be a number type", key)
		return 0, false
	}
	return n, true
}

// checkEnum returns the value of a present field restricted to allowed.
func checkEnum(sc scoped, o schema.Object, key string, allowed []string) (string, bool) {
	raw, ok := schema.Get(o, key)
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		sc.fail(schema.KindType, key, "%s must be a string type", key)
		return "", false
	}
	if strings.TrimSpace(s) == "" {
		return "", false
	}
	if !schema.Allowed(allowed, s) {
		sc.fail(schema.KindEnum, key, "Invalid %s: %s. Must be one of: %s", key, s, schema.Join(allowed))
		return "", false
	}
	return s, true
}

func nonBlank(o schema.Object, key string) (string, bool) {
	raw, ok := schema.Get(o, key)
	if !ok {
		return "", false
	}
	return schema.NonBlankString(raw)
}

// checkURL accepts absolute URLs and relative references the API resolves
// itself ("video.mp4"). Anything with a scheme must parse as a URL.
func (v *Validator) checkURL(sc scoped, field, raw, label string) {
	if !v.isURL(raw) {
		sc.fail(schema.KindFormat, field, "%s element %s must be a valid URL", label, field)
	}
}

func (v *Validator) isURL(raw string) bool {
	if strings.ContainsAny(raw, " \t\r\n") {
		return false
	}
	if !strings.Contains(raw, "://") {
		return true
	}
	return v.validate.Var(raw, "url") == nil
}

func typeLabel(t schema.ElementType) string {
	switch t {
	case schema.TypeHTML:
		return "HTML"
	case "":
		return ""
	}
	s := string(t)
	return strings.ToUpper(s[:1]) + s[1:]
}
