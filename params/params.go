// Package params turns the untrusted search payload supplied by the agent
// into a well-typed parameter record. Validation is deliberately partial:
// each field is independently optional and silently dropped when malformed,
// so bad input narrows a search instead of aborting it.
package params

// DateRange is an explicit travel window. Start and End hold calendar dates
// in YYYY-MM-DD form; a range only survives validation when Start is strictly
// in the future and End does not precede Start.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Party describes the travelling party.
type Party struct {
	Adults    int   `json:"adults"`
	Children  int   `json:"children"`
	ChildAges []int `json:"childAges,omitempty"`
}

// Parameters is the sanitized search-parameter record. Zero/nil fields mean
// "not supplied"; the offer engine treats them as unconstrained.
type Parameters struct {
	Stars                 []int      `json:"stars,omitempty"`
	DestinationNames      []string   `json:"destinationNames,omitempty"`
	DestinationGroupNames []string   `json:"destinationGroupNames,omitempty"`
	DestinationThemes     []string   `json:"destinationThemes,omitempty"`
	MaxPricePerPerson     *float64   `json:"maxPricePerPerson,omitempty"`
	WeekendOnly           *bool      `json:"weekendOnly,omitempty"`
	VacationTypes         []string   `json:"vacationTypes,omitempty"`
	RoomBoardTypes        []string   `json:"roomBoardTypes,omitempty"`
	HotelFacilities       []string   `json:"hotelFacilities,omitempty"`
	TravelMonths          []int      `json:"travelMonths,omitempty"`
	NumberOfNights        []int      `json:"numberOfNights,omitempty"`
	DateRange             *DateRange `json:"dateRange,omitempty"`
	Party                 *Party     `json:"party,omitempty"`
}

// Resolved is the sanitized record augmented with the canonical IDs the
// destination resolver produced. It is echoed back to the agent inside the
// tool output so the model can confirm what was actually searched.
type Resolved struct {
	Parameters
	DestinationIDs []int    `json:"destinationIds"`
	FacilityIDs    []string `json:"facilityIds,omitempty"`
}
