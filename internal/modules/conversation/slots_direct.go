// README: Slot state for direct flight-offer searches.
package conversation

import (
	"skylane/internal/amadeus"
)

// DirectFlightSlots accumulates the fields for a specific one-way or
// round-trip search. Passengers and travel class carry defaults so only
// origin, destination and departure date gate completeness. An empty
// return date is a meaningful value: it marks the trip one-way.
type DirectFlightSlots struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
	OneWay        bool
	Passengers    int
	TravelClass   string
}

func NewDirectFlightSlots() *DirectFlightSlots {
	return &DirectFlightSlots{
		Passengers:  1,
		TravelClass: amadeus.ClassEconomy,
	}
}

func (s *DirectFlightSlots) Fields() []string {
	return []string{"origin", "destination", "departure_date", "return_date", "passengers", "travel_class"}
}

func (s *DirectFlightSlots) Update(field string, value any) bool {
	switch field {
	case "origin":
		v, ok := value.(string)
		if !ok || v == "" {
			return false
		}
		s.Origin = v
	case "destination":
		v, ok := value.(string)
		if !ok || v == "" {
			return false
		}
		s.Destination = v
	case "departure_date":
		v, ok := value.(string)
		if !ok || v == "" {
			return false
		}
		s.DepartureDate = v
	case "return_date":
		v, ok := value.(string)
		if !ok {
			return false
		}
		// Empty string is the explicit "no return leg" signal.
		s.ReturnDate = v
		s.OneWay = v == ""
	case "passengers":
		n, ok := asInt(value)
		if !ok || n <= 0 {
			return false
		}
		s.Passengers = n
	case "travel_class":
		v, ok := value.(string)
		if !ok || v == "" {
			return false
		}
		s.TravelClass = v
	default:
		return false
	}
	return true
}

func (s *DirectFlightSlots) Get(field string) any {
	switch field {
	case "origin":
		return s.Origin
	case "destination":
		return s.Destination
	case "departure_date":
		return s.DepartureDate
	case "return_date":
		return s.ReturnDate
	case "passengers":
		return s.Passengers
	case "travel_class":
		return s.TravelClass
	}
	return nil
}

func (s *DirectFlightSlots) Clear(field string) {
	switch field {
	case "origin":
		s.Origin = ""
	case "destination":
		s.Destination = ""
	case "departure_date":
		s.DepartureDate = ""
	case "return_date":
		s.ReturnDate = ""
		s.OneWay = false
	case "passengers":
		s.Passengers = 1
	case "travel_class":
		s.TravelClass = amadeus.ClassEconomy
	}
}

func (s *DirectFlightSlots) IsComplete() bool {
	if s.Origin == "" || s.Destination == "" || s.DepartureDate == "" {
		return false
	}
	return s.OneWay || s.ReturnDate != ""
}

func (s *DirectFlightSlots) Missing() []string {
	var missing []string
	if s.Origin == "" {
		missing = append(missing, "origin")
	}
	if s.Destination == "" {
		missing = append(missing, "destination")
	}
	if s.DepartureDate == "" {
		missing = append(missing, "departure_date")
	}
	if !s.OneWay && s.ReturnDate == "" {
		missing = append(missing, "return_date")
	}
	return missing
}

func (s *DirectFlightSlots) Snapshot() map[string]any {
	return map[string]any{
		"origin":         s.Origin,
		"destination":    s.Destination,
		"departure_date": s.DepartureDate,
		"return_date":    s.ReturnDate,
		"one_way":        s.OneWay,
		"passengers":     s.Passengers,
		"travel_class":   s.TravelClass,
	}
}

// Query builds the search request. It panics when the state is incomplete:
// the caller gates dispatch on IsComplete.
func (s *DirectFlightSlots) Query() amadeus.FlightQuery {
	if !s.IsComplete() {
		panic("conversation: flight query built from incomplete state")
	}
	return amadeus.FlightQuery{
		Origin:        s.Origin,
		Destination:   s.Destination,
		DepartureDate: s.DepartureDate,
		ReturnDate:    s.ReturnDate,
		Adults:        s.Passengers,
		TravelClass:   s.TravelClass,
	}
}

// asInt accepts the numeric shapes json.Unmarshal and the extractor produce.
func asInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	}
	return 0, false
}
