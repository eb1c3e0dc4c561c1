// README: Slot state for open-ended destination inspiration searches.
package conversation

import (
	"skylane/internal/amadeus"
)

// DateSpan is a single departure date or an inclusive range. End empty
// means a single date.
type DateSpan struct {
	Start string
	End   string
}

// DaySpan is a trip length in days, single value or range. Max zero means
// a single duration.
type DaySpan struct {
	Min int
	Max int
}

// InspirationSlots accumulates the fields for a destination-inspiration
// search: where from, roughly when, how long, and an optional budget.
// MaxPrice zero means no budget constraint and does not gate completeness.
type InspirationSlots struct {
	Origin    string
	DateRange *DateSpan
	Duration  *DaySpan
	MaxPrice  float64
}

func NewInspirationSlots() *InspirationSlots {
	return &InspirationSlots{}
}

func (s *InspirationSlots) Fields() []string {
	return []string{"origin", "date_range", "duration", "max_price"}
}

func (s *InspirationSlots) Update(field string, value any) bool {
	switch field {
	case "origin":
		v, ok := value.(string)
		if !ok || v == "" {
			return false
		}
		s.Origin = v
	case "date_range":
		span, ok := asDateSpan(value)
		if !ok {
			return false
		}
		s.DateRange = span
	case "duration":
		span, ok := asDaySpan(value)
		if !ok {
			return false
		}
		s.Duration = span
	case "max_price":
		switch v := value.(type) {
		case float64:
			if v <= 0 {
				return false
			}
			s.MaxPrice = v
		case int:
			if v <= 0 {
				return false
			}
			s.MaxPrice = float64(v)
		default:
			return false
		}
	default:
		return false
	}
	return true
}

func (s *InspirationSlots) Get(field string) any {
	switch field {
	case "origin":
		return s.Origin
	case "date_range":
		if s.DateRange == nil {
			return nil
		}
		return *s.DateRange
	case "duration":
		if s.Duration == nil {
			return nil
		}
		return *s.Duration
	case "max_price":
		return s.MaxPrice
	}
	return nil
}

func (s *InspirationSlots) Clear(field string) {
	switch field {
	case "origin":
		s.Origin = ""
	case "date_range":
		s.DateRange = nil
	case "duration":
		s.Duration = nil
	case "max_price":
		s.MaxPrice = 0
	}
}

func (s *InspirationSlots) IsComplete() bool {
	return s.Origin != "" && s.DateRange != nil && s.Duration != nil
}

func (s *InspirationSlots) Missing() []string {
	var missing []string
	if s.Origin == "" {
		missing = append(missing, "origin")
	}
	if s.DateRange == nil {
		missing = append(missing, "date_range")
	}
	if s.Duration == nil {
		missing = append(missing, "duration")
	}
	return missing
}

func (s *InspirationSlots) Snapshot() map[string]any {
	snap := map[string]any{
		"origin":     s.Origin,
		"date_range": nil,
		"duration":   nil,
		"max_price":  s.MaxPrice,
	}
	if s.DateRange != nil {
		if s.DateRange.End == "" {
			snap["date_range"] = s.DateRange.Start
		} else {
			snap["date_range"] = []string{s.DateRange.Start, s.DateRange.End}
		}
	}
	if s.Duration != nil {
		if s.Duration.Max == 0 {
			snap["duration"] = s.Duration.Min
		} else {
			snap["duration"] = []int{s.Duration.Min, s.Duration.Max}
		}
	}
	return snap
}

// Query builds the inspiration request. It panics when the state is
// incomplete: the caller gates dispatch on IsComplete.
func (s *InspirationSlots) Query() amadeus.InspirationQuery {
	if !s.IsComplete() {
		panic("conversation: inspiration query built from incomplete state")
	}
	return amadeus.InspirationQuery{
		Origin:         s.Origin,
		DepartureStart: s.DateRange.Start,
		DepartureEnd:   s.DateRange.End,
		DurationMin:    s.Duration.Min,
		DurationMax:    s.Duration.Max,
		MaxPrice:       int(s.MaxPrice),
	}
}

// asDateSpan accepts a single date string or a two-element range.
func asDateSpan(value any) (*DateSpan, bool) {
	switch v := value.(type) {
	case string:
		if v == "" {
			return nil, false
		}
		return &DateSpan{Start: v}, true
	case []any:
		if len(v) != 2 {
			return nil, false
		}
		start, okStart := v[0].(string)
		end, okEnd := v[1].(string)
		if !okStart || !okEnd || start == "" || end == "" {
			return nil, false
		}
		return &DateSpan{Start: start, End: end}, true
	case []string:
		if len(v) != 2 || v[0] == "" || v[1] == "" {
			return nil, false
		}
		return &DateSpan{Start: v[0], End: v[1]}, true
	}
	return nil, false
}

// asDaySpan accepts a single day count or a two-element [min, max] range.
func asDaySpan(value any) (*DaySpan, bool) {
	if n, ok := asInt(value); ok {
		if n <= 0 {
			return nil, false
		}
		return &DaySpan{Min: n}, true
	}
	list, ok := value.([]any)
	if !ok || len(list) != 2 {
		return nil, false
	}
	min, okMin := asInt(list[0])
	max, okMax := asInt(list[1])
	if !okMin || !okMax || min <= 0 || max <= 0 {
		return nil, false
	}
	return &DaySpan{Min: min, Max: max}, true
}
