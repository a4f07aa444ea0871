package params

import (
	"time"

	"github.com/voyago/voyago/logging"
)

const (
	maxPrice    = 2000
	minStar     = 1
	maxStar     = 5
	minChildAge = 1
	maxChildAge = 17
)

// dateLayout is the calendar date form the agent is instructed to emit.
const dateLayout = "2006-01-02"

// Validator sanitizes raw search payloads. The zero value is not usable;
// construct with NewValidator.
type Validator struct {
	log logging.Logger
	now func() time.Time
}

// NewValidator creates a Validator. The now function is injectable for tests
// of future-date rules; nil defaults to time.Now.
func NewValidator(log logging.Logger, now func() time.Time) *Validator {
	if log == nil {
		log = logging.NoOpLogger{}
	}
	if now == nil {
		now = time.Now
	}
	return &Validator{log: log, now: now}
}

// Validate converts an untrusted field map into Parameters. It never fails:
// any field that is absent or breaks its predicate is dropped and the rest
// of the payload still goes through.
func (v *Validator) Validate(raw map[string]any) Parameters {
	var p Parameters

	p.Stars = intsInRange(raw["stars"], minStar, maxStar)
	p.DestinationNames = stringSlice(raw["destinationNames"])
	p.DestinationGroupNames = stringSlice(raw["destinationGroupNames"])
	p.DestinationThemes = stringSlice(raw["destinationThemes"])

	if price, ok := number(raw["max_price_per_person"]); ok && price >= 0 && price <= maxPrice {
		p.MaxPricePerPerson = &price
	}

	if b, ok := boolean(raw["weekend_only"]); ok {
		p.WeekendOnly = &b
	}

	p.VacationTypes = stringSlice(raw["vacation_types"])
	p.RoomBoardTypes = stringSlice(raw["room_board_types"])
	p.HotelFacilities = stringSlice(raw["hotel_facilities"])
	p.TravelMonths = intsInRange(raw["travel_months"], 1, 12)
	p.NumberOfNights = intSlice(raw["number_of_nights"])

	rawRange := raw["date_range"]
	if rawRange == nil {
		rawRange = raw["specific_date_range"]
	}
	p.DateRange = v.dateRange(rawRange)

	rawParty := raw["party"]
	if rawParty == nil {
		rawParty = raw["party_composition"]
	}
	p.Party = v.party(rawParty)

	return p
}

// dateRange keeps a start/end pair only when both parse as calendar dates,
// start is strictly after now and end does not precede start. A rejected
// range is logged and dropped whole.
func (v *Validator) dateRange(raw any) *DateRange {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	startStr, _ := m["start"].(string)
	endStr, _ := m["end"].(string)

	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		v.log.Debug("dropping date range: bad start date", "start", startStr)
		return nil
	}
	end, err := time.Parse(dateLayout, endStr)
	if err != nil {
		v.log.Debug("dropping date range: bad end date", "end", endStr)
		return nil
	}
	if !start.After(v.now()) {
		v.log.Debug("dropping date range: start not in the future", "start", startStr)
		return nil
	}
	if end.Before(start) {
		v.log.Debug("dropping date range: end precedes start", "start", startStr, "end", endStr)
		return nil
	}

	return &DateRange{Start: startStr, End: endStr}
}

// party clips adults/children to non-negative integers and keeps only child
// ages in [1,17].
func (v *Validator) party(raw any) *Party {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil
	}

	party := &Party{}
	if n, ok := number(m["adults"]); ok && n >= 0 {
		party.Adults = int(n)
	}
	if n, ok := number(m["children"]); ok && n >= 0 {
		party.Children = int(n)
	}
	ages := m["child_ages"]
	if ages == nil {
		ages = m["childAges"]
	}
	party.ChildAges = intsInRange(ages, minChildAge, maxChildAge)

	return party
}

// number coerces a JSON-decoded value to float64.
func number(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// boolean coerces a JSON-decoded value to bool.
func boolean(raw any) (bool, bool) {
	b, ok := raw.(bool)
	return b, ok
}

// integer reports whether the value is a whole number and returns it.
func integer(raw any) (int, bool) {
	n, ok := number(raw)
	if !ok || n != float64(int(n)) {
		return 0, false
	}
	return int(n), true
}

// stringSlice keeps the value only if it is a sequence of strings.
func stringSlice(raw any) []string {
	seq, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(seq))
	for _, item := range seq {
		s, ok := item.(string)
		if !ok {
			return nil
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// intSlice keeps the value only if it is a sequence of whole numbers.
func intSlice(raw any) []int {
	seq, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]int, 0, len(seq))
	for _, item := range seq {
		n, ok := integer(item)
		if !ok {
			return nil
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// intsInRange filters a sequence down to whole numbers within [lo,hi],
// preserving order. Out-of-range entries are dropped individually.
func intsInRange(raw any, lo, hi int) []int {
	seq, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]int, 0, len(seq))
	for _, item := range seq {
		n, ok := integer(item)
		if !ok || n < lo || n > hi {
			continue
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
