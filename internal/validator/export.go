package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ivlev/json2video/internal/schema"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// DestinationChecker validates the type-specific fields of one export
// destination. Messages carry no location prefix.
type DestinationChecker interface {
	Check(dest schema.Object) []schema.Issue
}

// NewDestinationChecker returns the checker for a destination type.
func (v *Validator) NewDestinationChecker(t schema.DestinationType) (DestinationChecker, error) {
	switch t {
	case schema.DestinationWebhook:
		return webhookChecker{v: v}, nil
	case schema.DestinationFTP:
		return ftpChecker{}, nil
	case schema.DestinationEmail:
		return emailChecker{}, nil
	default:
		return nil, fmt.Errorf("unknown destination type: %s", t)
	}
}

// ValidateExports checks the request's export list. Only the first config is
// honored by the API, so extra configs are a warning.
func (v *Validator) ValidateExports(exports any) Result {
	rep := &report{}
	configs, ok := schema.AsArray(exports)
	if !ok {
		rep.fail(schema.KindStructural, "exports", "Field 'exports' must be an array")
		return rep.result()
	}
	if len(configs) > 1 {
		rep.warn("exports", "Multiple export configurations provided - only the first one will be used")
	}

	for i, raw := range configs {
		sc := scoped{
			report: rep,
			prefix: fmt.Sprintf("Export config %d: ", i+1),
			path:   indexed("exports", i),
		}
		cfg, ok := schema.AsObject(raw)
		if !ok {
			sc.fail(schema.KindStructural, "", "Export config must be an object")
			continue
		}
		rawDests, _ := schema.Get(cfg, "destinations")
		dests, ok := schema.AsArray(rawDests)
		if !ok || len(dests) == 0 {
			sc.fail(schema.KindRequired, "destinations", "at least one destination is required")
			continue
		}
		for j, d := range dests {
			v.validateDestination(rep, d, i, j)
		}
	}
	return rep.result()
}

func (v *Validator) validateDestination(rep *report, raw any, config, index int) {
	sc := scoped{
		report: rep,
		prefix: fmt.Sprintf("Export config %d, destination %d: ", config+1, index+1),
		path:   indexed(indexed("exports", config)+".destinations", index),
	}
	dest, ok := schema.AsObject(raw)
	if !ok {
		sc.fail(schema.KindStructural, "", "destination must be an object")
		return
	}
	rawType, _ := schema.Get(dest, "type")
	name, ok := schema.NonBlankString(rawType)
	if !ok {
		sc.fail(schema.KindRequired, "type", "destination type is required")
		return
	}

	checker, err := v.NewDestinationChecker(schema.DestinationType(strings.ToLower(name)))
	if err != nil {
		sc.fail(schema.KindEnum, "type", "Invalid destination type: %s. Must be one of: %s",
			name, schema.Join(schema.DestinationTypes))
		return
	}
	for _, is := range checker.Check(dest) {
		sc.fail(is.Kind, is.Path, "%s", is.Message)
	}
}

type webhookChecker struct {
	v *Validator
}

func (c webhookChecker) Check(dest schema.Object) []schema.Issue {
	endpoint, ok := nonBlank(dest, "endpoint")
	if !ok {
		return []schema.Issue{schema.Newf(schema.KindRequired, "endpoint", "webhook endpoint is required")}
	}
	if c.v.validate.Var(endpoint, "url") != nil {
		return []schema.Issue{schema.Newf(schema.KindFormat, "endpoint", "webhook endpoint must be a valid URL")}
	}
	if !strings.HasPrefix(strings.ToLower(endpoint), "https://") {
		return []schema.Issue{schema.Newf(schema.KindFormat, "endpoint", "Webhook endpoint must use HTTPS")}
	}
	return nil
}

type ftpChecker struct{}

func (ftpChecker) Check(dest schema.Object) []schema.Issue {
	var issues []schema.Issue
	for _, key := range []string{"host", "username", "password"} {
		if _, ok := nonBlank(dest, key); !ok {
			issues = append(issues, schema.Newf(schema.KindRequired, key, "FTP %s is required", key))
		}
	}

	if raw, ok := schema.Get(dest, "port"); ok {
		port, isNumber := schema.AsNumber(raw)
		switch {
		case !isNumber:
			issues = append(issues, schema.Newf(schema.KindType, "port", "FTP port must be a number type"))
		case !schema.PortRange.Contains(port) || port != float64(int(port)):
			issues = append(issues, schema.Newf(schema.KindRange, "port",
				"FTP port must be between %g and %g", schema.PortRange.Min, schema.PortRange.Max))
		}
	}

	if raw, ok := schema.Get(dest, "remote-path"); ok {
		path, isString := raw.(string)
		switch {
		case !isString:
			issues = append(issues, schema.Newf(schema.KindType, "remote-path", "FTP remote-path must be a string type"))
		case !strings.HasPrefix(path, "/"):
			issues = append(issues, schema.Newf(schema.KindFormat, "remote-path", "FTP remote-path must be an absolute path"))
		case hasParentSegment(path):
			issues = append(issues, schema.Newf(schema.KindFormat, "remote-path", "FTP remote-path must not contain '..' segments"))
		}
	}
	return issues
}

func hasParentSegment(path string) bool {
	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}

type emailChecker struct{}

func (emailChecker) Check(dest schema.Object) []schema.Issue {
	var issues []schema.Issue

	raw, _ := schema.Get(dest, "to")
	switch to := raw.(type) {
	case string:
		if strings.TrimSpace(to) == "" {
			issues = append(issues, schema.Newf(schema.KindRequired, "to", "email recipient (to) is required"))
		} else if !emailPattern.MatchString(to) {
			issues = append(issues, schema.Newf(schema.KindFormat, "to", "Invalid email address: %s", to))
		}
	default:
		list, ok := schema.AsArray(raw)
		if !ok || len(list) == 0 {
			issues = append(issues, schema.Newf(schema.KindRequired, "to", "email recipient (to) is required"))
			break
		}
		for i, item := range list {
			addr, isString := item.(string)
			if !isString || !emailPattern.MatchString(addr) {
				issues = append(issues, schema.Newf(schema.KindFormat, indexed("to", i),
					"Invalid email address: %v", item))
			}
		}
	}

	if raw, ok := schema.Get(dest, "from"); ok {
		if from, isString := raw.(string); !isString || !emailPattern.MatchString(from) {
			issues = append(issues, schema.Newf(schema.KindFormat, "from", "Invalid sender email address: %v", raw))
		}
	}
	return issues
}
