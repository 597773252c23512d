package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/carcare/internal/common"
)

// FlexNumber is a numeric input field that accepts a JSON number or a
// locale-flexible string ("1 234,56"). Malformed values fail unmarshalling;
// they are never coerced to zero.
type FlexNumber float64

func (n *FlexNumber) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("%w: %v", common.ErrorValidation, err)
		}
		v, err := ParseFlexibleNumber(s)
		if err != nil {
			return err
		}
		*n = FlexNumber(v)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("%w: not a number", common.ErrorValidation)
	}
	*n = FlexNumber(f)
	return nil
}

func (n FlexNumber) Float() float64 { return float64(n) }

// Int returns the value as an integer, rejecting fractional input.
func (n FlexNumber) Int() (int64, error) {
	f := float64(n)
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: expected an integer, got %v", common.ErrorValidation, f)
	}
	return int64(f), nil
}

// ParseFlexibleNumber normalizes locale-flexible numeric text: regular and
// non-breaking spaces act as thousands separators, a comma as the decimal
// separator. Text carrying both a comma and a dot is rejected as ambiguous.
func ParseFlexibleNumber(s string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', ' ', ' ':
			return -1
		}
		return r
	}, strings.TrimSpace(s))

	if cleaned == "" {
		return 0, fmt.Errorf("%w: empty number", common.ErrorValidation)
	}
	if strings.Contains(cleaned, ",") && strings.Contains(cleaned, ".") {
		return 0, fmt.Errorf("%w: ambiguous number %q", common.ErrorValidation, s)
	}
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed number %q", common.ErrorValidation, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: malformed number %q", common.ErrorValidation, s)
	}
	return v, nil
}

// FlexTime is a timestamp input field that accepts an ISO-8601 string or a
// Unix epoch number (seconds).
type FlexTime time.Time

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (t *FlexTime) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("%w: %v", common.ErrorValidation, err)
		}
		parsed, err := ParseFlexibleDate(s)
		if err != nil {
			return err
		}
		*t = FlexTime(parsed)
		return nil
	}
	var epoch int64
	if err := json.Unmarshal(b, &epoch); err != nil {
		return fmt.Errorf("%w: not a timestamp", common.ErrorValidation)
	}
	*t = FlexTime(time.Unix(epoch, 0).UTC())
	return nil
}

func (t FlexTime) Time() time.Time { return time.Time(t) }

// ParseFlexibleDate tries the accepted ISO-8601 layouts in order.
// Unparsable strings are rejected, not defaulted.
func ParseFlexibleDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparsable date %q", common.ErrorValidation, s)
}

// Round rounds v to the given number of decimal places, half away from zero.
func Round(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
