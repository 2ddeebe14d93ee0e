package resolve

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kirill-demidov/gcp-cost-agent/internal/model"
	"github.com/kirill-demidov/gcp-cost-agent/internal/nlu"
)

var numericPeriodRe = regexp.MustCompile(`^\d{4}-?\d{2}$`)

// NormalizePeriod turns one extracted period text into a canonical
// period. Relative references resolve against ref, the period of the
// turn's receipt time. A bare month name means its most recent
// occurrence not after ref.
func NormalizePeriod(text string, lang model.Language, ref model.Period) (model.Period, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return model.Period{}, fmt.Errorf("%w: empty period", ErrAmbiguousParameter)
	}

	if numericPeriodRe.MatchString(text) {
		p, err := model.ParsePeriod(text)
		if err != nil {
			return model.Period{}, fmt.Errorf("%w: %q", ErrAmbiguousParameter, text)
		}
		return p, nil
	}

	if off, ok := nlu.LookupRelative(text, lang); ok {
		return ref.Add(off), nil
	}

	// "september 2025" / "сентября 2025" / bare month name.
	fields := strings.Fields(text)
	switch len(fields) {
	case 1:
		m, ok := nlu.LookupMonth(fields[0], lang)
		if !ok {
			return model.Period{}, fmt.Errorf("%w: %q", ErrAmbiguousParameter, text)
		}
		p := model.Period{Year: ref.Year, Month: m}
		if ref.Before(p) {
			p.Year--
		}
		return p, nil
	case 2:
		m, ok := nlu.LookupMonth(fields[0], lang)
		if !ok {
			return model.Period{}, fmt.Errorf("%w: %q", ErrAmbiguousParameter, text)
		}
		year, err := strconv.Atoi(fields[1])
		if err != nil || year < 2000 || year > 2100 {
			return model.Period{}, fmt.Errorf("%w: %q", ErrAmbiguousParameter, text)
		}
		return model.Period{Year: year, Month: m}, nil
	}
	return model.Period{}, fmt.Errorf("%w: %q", ErrAmbiguousParameter, text)
}

// NormalizeServices maps service mentions to the names billing exports
// use ("storage" becomes "Cloud Storage"). A mention without an alias
// passes through unchanged; the warehouse matches it by substring.
func NormalizeServices(texts []string, lang model.Language) []string {
	var out []string
	for _, text := range texts {
		text = strings.ToLower(strings.TrimSpace(text))
		if text == "" {
			continue
		}
		if name, ok := nlu.LookupService(text, lang); ok {
			out = append(out, name)
			continue
		}
		out = append(out, text)
	}
	return out
}

// NormalizeDimension maps a dimension alias to a canonical dimension.
// Empty text means no dimension was mentioned.
func NormalizeDimension(text string, lang model.Language) (model.Dimension, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return model.DimensionNone, nil
	}
	if d, ok := nlu.LookupDimension(text, lang); ok {
		return d, nil
	}
	return model.DimensionNone, fmt.Errorf("%w: %q", ErrUnknownDimension, text)
}
