// README: Amadeus query and normalized result models.
package amadeus

// Travel classes accepted by the flight-offers search.
const (
	ClassEconomy        = "ECONOMY"
	ClassPremiumEconomy = "PREMIUM_ECONOMY"
	ClassBusiness       = "BUSINESS"
	ClassFirst          = "FIRST"
)

// FlightQuery describes one direct flight search.
// An empty ReturnDate means a one-way search.
type FlightQuery struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
	Adults        int
	TravelClass   string
}

// InspirationQuery describes one flight-destinations search.
// DepartureEnd may be empty for a single departure date; DurationMax of zero
// means a single duration value rather than a range.
type InspirationQuery struct {
	Origin         string
	DepartureStart string
	DepartureEnd   string
	DurationMin    int
	DurationMax    int
	MaxPrice       int
}

// Stop is one endpoint of a flight segment.
type Stop struct {
	Airport string `json:"airport"`
	Time    string `json:"time"`
}

// Segment is one flight leg operated by a single carrier.
type Segment struct {
	Airline         string `json:"airlineName"`
	FlightNumber    string `json:"flightNumber"`
	Departure       Stop   `json:"departure"`
	Arrival         Stop   `json:"arrival"`
	DurationMinutes int    `json:"duration"`
}

// Itinerary is an ordered chain of segments.
type Itinerary []Segment

// OneWayOption is a single priced one-way itinerary.
type OneWayOption struct {
	DepartureItinerary Itinerary `json:"departureItinerary"`
	TotalPrice         string    `json:"totalPrice"`
	Currency           string    `json:"currency"`
}

// ReturnOption is one priced return leg within a departure group.
type ReturnOption struct {
	ReturnItinerary Itinerary `json:"returnItinerary"`
	TotalPrice      string    `json:"totalPrice"`
}

// DepartureGroup collects every return option that shares the same outbound
// itinerary, along with the cheapest total price seen for the group.
type DepartureGroup struct {
	DepartureItinerary Itinerary      `json:"departureItinerary"`
	DepartureMinPrice  string         `json:"departureMinPrice"`
	ReturnItineraries  []ReturnOption `json:"returnItineraries"`
	ReturnCount        int            `json:"returnCount"`
	Currency           string         `json:"currency"`
}

// OneWayResult is the normalized payload of a one-way search.
type OneWayResult struct {
	Results []OneWayOption `json:"results"`
	Count   int            `json:"count"`
}

// RoundTripResult is the normalized payload of a round-trip search.
type RoundTripResult struct {
	Results []DepartureGroup `json:"results"`
	Count   int              `json:"count"`
}

// FlightResult holds exactly one of the two search shapes.
type FlightResult struct {
	OneWay    *OneWayResult    `json:"oneWay,omitempty"`
	RoundTrip *RoundTripResult `json:"roundTrip,omitempty"`
}

// Destination is one inspiration search hit.
type Destination struct {
	Origin           string `json:"origin"`
	Destination      string `json:"destination"`
	DepartureDate    string `json:"departureDate"`
	ReturnDate       string `json:"returnDate"`
	Price            string `json:"price"`
	FlightOffersLink string `json:"flightOffersLink"`
}

// Wire types for the upstream flight-offers payload.

type offersResponse struct {
	Data []rawOffer `json:"data"`
}

type rawOffer struct {
	Itineraries []rawItinerary `json:"itineraries"`
	Price       rawPrice       `json:"price"`
}

type rawItinerary struct {
	Segments []rawSegment `json:"segments"`
}

type rawSegment struct {
	CarrierCode string      `json:"carrierCode"`
	Number      string      `json:"number"`
	Departure   rawEndpoint `json:"departure"`
	Arrival     rawEndpoint `json:"arrival"`
	Duration    string      `json:"duration"`
}

type rawEndpoint struct {
	IataCode string `json:"iataCode"`
	At       string `json:"at"`
}

type rawPrice struct {
	GrandTotal string `json:"grandTotal"`
	Currency   string `json:"currency"`
}

type destinationsResponse struct {
	Data []rawDestination `json:"data"`
}

type rawDestination struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departureDate"`
	ReturnDate    string `json:"returnDate"`
	Price         struct {
		Total string `json:"total"`
	} `json:"price"`
	Links struct {
		FlightOffers string `json:"flightOffers"`
	} `json:"links"`
}

type apiErrorResponse struct {
	Errors []apiError `json:"errors"`
}

type apiError struct {
	Code   any    `json:"code"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}
