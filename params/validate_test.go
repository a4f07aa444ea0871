package params

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyago/voyago/logging"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testValidator() *Validator {
	return NewValidator(logging.NoOpLogger{}, func() time.Time { return testNow })
}

// decode mimics the dispatch boundary: payloads arrive as JSON text.
func decode(t *testing.T, payload string) map[string]any {
	t.Helper()
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))
	return raw
}

func TestValidate_Stars(t *testing.T) {
	v := testValidator()

	p := v.Validate(decode(t, `{"stars":[2,7,0,5,1]}`))
	assert.Equal(t, []int{2, 5, 1}, p.Stars)

	p = v.Validate(decode(t, `{"stars":[7,0]}`))
	assert.Nil(t, p.Stars)

	p = v.Validate(decode(t, `{"stars":"five"}`))
	assert.Nil(t, p.Stars)
}

func TestValidate_MaxPrice(t *testing.T) {
	v := testValidator()

	tests := []struct {
		name    string
		payload string
		want    *float64
	}{
		{"in range", `{"max_price_per_person":1500}`, ptr(1500.0)},
		{"zero boundary", `{"max_price_per_person":0}`, ptr(0.0)},
		{"upper boundary", `{"max_price_per_person":2000}`, ptr(2000.0)},
		{"too high", `{"max_price_per_person":2500}`, nil},
		{"negative", `{"max_price_per_person":-1}`, nil},
		{"not numeric", `{"max_price_per_person":"cheap"}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := v.Validate(decode(t, tt.payload))
			if tt.want == nil {
				assert.Nil(t, p.MaxPricePerPerson)
			} else {
				require.NotNil(t, p.MaxPricePerPerson)
				assert.Equal(t, *tt.want, *p.MaxPricePerPerson)
			}
		})
	}
}

func TestValidate_Sequences(t *testing.T) {
	v := testValidator()

	p := v.Validate(decode(t, `{
		"destinationNames":["Paris","Rome"],
		"vacation_types":["beach"],
		"room_board_types":["all inclusive"],
		"hotel_facilities":["Pool"],
		"number_of_nights":[3,7]
	}`))
	assert.Equal(t, []string{"Paris", "Rome"}, p.DestinationNames)
	assert.Equal(t, []string{"beach"}, p.VacationTypes)
	assert.Equal(t, []string{"all inclusive"}, p.RoomBoardTypes)
	assert.Equal(t, []string{"Pool"}, p.HotelFacilities)
	assert.Equal(t, []int{3, 7}, p.NumberOfNights)

	// Not a sequence: dropped, nothing else affected.
	p = v.Validate(decode(t, `{"destinationNames":"Paris","number_of_nights":[3,"week"]}`))
	assert.Nil(t, p.DestinationNames)
	assert.Nil(t, p.NumberOfNights)
}

func TestValidate_TravelMonths(t *testing.T) {
	v := testValidator()

	p := v.Validate(decode(t, `{"travel_months":[0,1,6,12,13]}`))
	assert.Equal(t, []int{1, 6, 12}, p.TravelMonths)
}

func TestValidate_WeekendOnly(t *testing.T) {
	v := testValidator()

	p := v.Validate(decode(t, `{"weekend_only":true}`))
	require.NotNil(t, p.WeekendOnly)
	assert.True(t, *p.WeekendOnly)

	p = v.Validate(decode(t, `{"weekend_only":"yes"}`))
	assert.Nil(t, p.WeekendOnly)
}

func TestValidate_DateRange(t *testing.T) {
	v := testValidator()

	tests := []struct {
		name    string
		payload string
		kept    bool
	}{
		{"valid future range", `{"date_range":{"start":"2026-06-01","end":"2026-06-08"}}`, true},
		{"single day", `{"date_range":{"start":"2026-06-01","end":"2026-06-01"}}`, true},
		{"alternate key", `{"specific_date_range":{"start":"2026-06-01","end":"2026-06-08"}}`, true},
		{"start in the past", `{"date_range":{"start":"2025-06-01","end":"2026-06-08"}}`, false},
		{"start is today", `{"date_range":{"start":"2026-03-01","end":"2026-06-08"}}`, false},
		{"end before start", `{"date_range":{"start":"2026-06-08","end":"2026-06-01"}}`, false},
		{"unparseable start", `{"date_range":{"start":"next summer","end":"2026-06-08"}}`, false},
		{"missing end", `{"date_range":{"start":"2026-06-01"}}`, false},
		{"not an object", `{"date_range":"2026-06-01"}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := v.Validate(decode(t, tt.payload))
			if tt.kept {
				require.NotNil(t, p.DateRange)
			} else {
				assert.Nil(t, p.DateRange)
			}
		})
	}
}

func TestValidate_Party(t *testing.T) {
	v := testValidator()

	p := v.Validate(decode(t, `{"party":{"adults":2,"children":2,"child_ages":[0,3,17,18]}}`))
	require.NotNil(t, p.Party)
	assert.Equal(t, 2, p.Party.Adults)
	assert.Equal(t, 2, p.Party.Children)
	assert.Equal(t, []int{3, 17}, p.Party.ChildAges)

	// Negative counts clip to zero.
	p = v.Validate(decode(t, `{"party":{"adults":-1,"children":-3}}`))
	require.NotNil(t, p.Party)
	assert.Equal(t, 0, p.Party.Adults)
	assert.Equal(t, 0, p.Party.Children)

	// camelCase child ages accepted as well.
	p = v.Validate(decode(t, `{"party_composition":{"adults":1,"childAges":[5]}}`))
	require.NotNil(t, p.Party)
	assert.Equal(t, []int{5}, p.Party.ChildAges)
}

func TestValidate_PartialDropPolicy(t *testing.T) {
	v := testValidator()

	// Invalid fields never abort the whole request.
	p := v.Validate(decode(t, `{"stars":[2,7],"max_price_per_person":2500,"destinationNames":["Paris"]}`))
	assert.Equal(t, []int{2}, p.Stars)
	assert.Nil(t, p.MaxPricePerPerson)
	assert.Equal(t, []string{"Paris"}, p.DestinationNames)
}

func TestValidate_EmptyPayload(t *testing.T) {
	v := testValidator()

	p := v.Validate(map[string]any{})
	assert.Equal(t, Parameters{}, p)

	p = v.Validate(nil)
	assert.Equal(t, Parameters{}, p)
}

func ptr(f float64) *float64 { return &f }
