// README: Normalization of raw flight offers into display-ready results.
package amadeus

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
)

// maxDepartureGroups caps the number of distinct outbound itineraries kept in
// a round-trip result, in first-seen order.
const maxDepartureGroups = 20

var durationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?`)

// DurationMinutes converts an ISO-8601 duration such as "PT7H5M" to minutes.
// Unparseable input converts to 0.
func DurationMinutes(iso string) int {
	m := durationPattern.FindStringSubmatch(iso)
	if m == nil {
		return 0
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	return hours*60 + minutes
}

func normalizeItinerary(raw rawItinerary) Itinerary {
	it := make(Itinerary, 0, len(raw.Segments))
	for _, seg := range raw.Segments {
		it = append(it, Segment{
			Airline:         AirlineName(seg.CarrierCode),
			FlightNumber:    seg.Number,
			Departure:       Stop{Airport: seg.Departure.IataCode, Time: seg.Departure.At},
			Arrival:         Stop{Airport: seg.Arrival.IataCode, Time: seg.Arrival.At},
			DurationMinutes: DurationMinutes(seg.Duration),
		})
	}
	return it
}

// departureKey is the canonical fingerprint of an outbound itinerary. Two
// offers with identical outbound legs must produce the same key regardless of
// their return legs.
func departureKey(it Itinerary) string {
	b, err := json.Marshal(it)
	if err != nil {
		// Itinerary contains only strings and ints; Marshal cannot fail.
		panic("amadeus: marshal itinerary: " + err.Error())
	}
	return string(b)
}

// processOffers flattens raw offers into the normalized result shape.
//
// One-way: every offer becomes one priced itinerary, in upstream order.
// Round-trip: offers are grouped by canonical departure key; each group tracks
// its return options and the running minimum total price, and the group list
// is truncated to the first maxDepartureGroups distinct keys in first-seen
// order, never sorted by price.
func processOffers(offers []rawOffer, roundTrip bool) *FlightResult {
	if !roundTrip {
		options := make([]OneWayOption, 0, len(offers))
		for _, offer := range offers {
			if len(offer.Itineraries) < 1 {
				continue
			}
			options = append(options, OneWayOption{
				DepartureItinerary: normalizeItinerary(offer.Itineraries[0]),
				TotalPrice:         offer.Price.GrandTotal,
				Currency:           offer.Price.Currency,
			})
		}
		return &FlightResult{OneWay: &OneWayResult{Results: options, Count: len(options)}}
	}

	groups := make(map[string]*DepartureGroup)
	var order []string

	for _, offer := range offers {
		if len(offer.Itineraries) < 2 {
			continue
		}
		outbound := normalizeItinerary(offer.Itineraries[0])
		key := departureKey(outbound)

		price, _ := strconv.ParseFloat(offer.Price.GrandTotal, 64)
		priceStr := fmt.Sprintf("%.2f", price)

		option := ReturnOption{
			ReturnItinerary: normalizeItinerary(offer.Itineraries[1]),
			TotalPrice:      priceStr,
		}

		if g, ok := groups[key]; ok {
			g.ReturnItineraries = append(g.ReturnItineraries, option)
			if min, _ := strconv.ParseFloat(g.DepartureMinPrice, 64); price < min {
				g.DepartureMinPrice = priceStr
			}
			continue
		}
		groups[key] = &DepartureGroup{
			DepartureItinerary: outbound,
			DepartureMinPrice:  priceStr,
			ReturnItineraries:  []ReturnOption{option},
			Currency:           "EUR",
		}
		order = append(order, key)
	}

	if len(order) > maxDepartureGroups {
		order = order[:maxDepartureGroups]
	}
	results := make([]DepartureGroup, 0, len(order))
	for _, key := range order {
		g := groups[key]
		g.ReturnCount = len(g.ReturnItineraries)
		results = append(results, *g)
	}
	return &FlightResult{RoundTrip: &RoundTripResult{Results: results, Count: len(results)}}
}
