//-------------------------------------------------------------------------
//
// Northwind Data Warehouse ETL
//
// Copyright (c) 2025 - 2026, the northwind-dw authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package transform

import (
	"strconv"
	"strings"
	"time"
)

// kind is the target type of a warehouse column.
type kind int

const (
	kindString kind = iota
	kindInt
	kindFloat
	kindBool
	kindDate
)

// colSpec declares one warehouse column: the normalized source column it
// comes from, an optional fallback name (for join-suffixed variants), the
// target name, the target type, and the default applied when the source
// value is missing or unparseable. A nil default leaves the value null.
//
// Declaring columns up front means source-schema drift surfaces here, at
// the boundary, instead of as silent misses deeper in the pipeline.
type colSpec struct {
	src string
	alt string
	dst string
	typ kind
	def any
}

// dateLayouts are tried in order when parsing source date strings.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"1/2/2006",
	"01/02/2006",
}

// parseDate parses a source date value. Unparseable values yield false;
// dates have no meaningful default.
func parseDate(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x.Truncate(24 * time.Hour), true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if d, err := time.Parse(layout, s); err == nil {
				return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), true
			}
		}
	}
	return time.Time{}, false
}

func parseFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}

func parseInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		return int(x), true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		if n, err := strconv.Atoi(s); err == nil {
			return n, true
		}
		// Sources sometimes carry integer ids as "3.0".
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f), true
		}
	}
	return 0, false
}

func parseBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case int:
		return x != 0, true
	case float64:
		return x != 0, true
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "1", "true", "t", "yes", "y":
			return true, true
		case "0", "false", "f", "no", "n", "":
			return false, x != ""
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			return f != 0, true
		}
	}
	return false, false
}

func parseString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		s := strings.TrimSpace(x)
		return s, s != ""
	case nil:
		return "", false
	}
	return "", false
}

// convert coerces a raw source value to the spec's target type, falling
// back to the spec default (possibly nil) when the value is missing or
// unparseable. This is the row-level recovery policy: bad values never
// fail a dimension row.
func (c colSpec) convert(v any) any {
	if v == nil {
		return c.def
	}
	switch c.typ {
	case kindString:
		if s, ok := parseString(v); ok {
			return s
		}
	case kindInt:
		if n, ok := parseInt(v); ok {
			return n
		}
	case kindFloat:
		if f, ok := parseFloat(v); ok {
			return f
		}
	case kindBool:
		if b, ok := parseBool(v); ok {
			return b
		}
	case kindDate:
		if d, ok := parseDate(v); ok {
			return d
		}
	}
	return c.def
}
