package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/voyago/voyago/catalog"
	"github.com/voyago/voyago/logging"
	"github.com/voyago/voyago/params"
)

// SearchName is the function name the agent is instructed to call.
const SearchName = "makeSearch"

// HotelSearcher is the slice of the offers client the search tool needs.
type HotelSearcher interface {
	SearchHotels(ctx context.Context, req params.Resolved) (json.RawMessage, error)
}

// SearchTool services the search capability: it sanitizes the agent-supplied
// payload, resolves destination names, groups and themes to canonical IDs,
// and runs the hotel search.
type SearchTool struct {
	validator *params.Validator
	resolver  *catalog.Resolver
	catalog   *catalog.Catalog
	searcher  HotelSearcher
	log       logging.Logger
}

// NewSearchTool wires the validation/resolution/search pipeline.
func NewSearchTool(
	validator *params.Validator,
	cat *catalog.Catalog,
	searcher HotelSearcher,
	log logging.Logger,
) *SearchTool {
	if log == nil {
		log = logging.NoOpLogger{}
	}
	return &SearchTool{
		validator: validator,
		resolver:  catalog.NewResolver(cat),
		catalog:   cat,
		searcher:  searcher,
		log:       log,
	}
}

// Name returns the function name registered with the agent service.
func (t *SearchTool) Name() string { return SearchName }

// Description is shown to the agent so it knows when to call the tool.
func (t *SearchTool) Description() string {
	return "Search holiday offers matching the user's preferences. " +
		"Destinations may be given as concrete names, destination groups " +
		"(e.g. 'Greek Islands') or themes (e.g. 'Romantic break')."
}

// Parameters describes the accepted search payload.
func (t *SearchTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"stars": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "integer", "minimum": 1, "maximum": 5},
				"description": "Acceptable hotel star ratings",
			},
			"destinationNames": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Concrete destination names, e.g. 'Paris'",
			},
			"destinationGroupNames": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Destination group names, e.g. 'Greek Islands'",
			},
			"destinationThemes": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Theme names; results must match every theme",
			},
			"max_price_per_person": map[string]any{
				"type":        "number",
				"description": "Budget per person in EUR, up to 2000",
			},
			"weekend_only": map[string]any{"type": "boolean"},
			"vacation_types": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"room_board_types": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"hotel_facilities": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Facility names, e.g. 'Pool', 'Spa'",
			},
			"travel_months": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "integer", "minimum": 1, "maximum": 12},
			},
			"number_of_nights": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "integer"},
			},
			"date_range": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"start": map[string]any{"type": "string", "description": "YYYY-MM-DD"},
					"end":   map[string]any{"type": "string", "description": "YYYY-MM-DD"},
				},
			},
			"party": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"adults":     map[string]any{"type": "integer"},
					"children":   map[string]any{"type": "integer"},
					"child_ages": map[string]any{"type": "array", "items": map[string]any{"type": "integer"}},
				},
			},
		},
	}
}

// Call runs the validate→resolve→search pipeline and returns the result
// envelope echoed back to the agent.
func (t *SearchTool) Call(ctx context.Context, args map[string]any) (any, error) {
	sanitized := t.validator.Validate(args)

	resolved := params.Resolved{
		Parameters: sanitized,
		DestinationIDs: t.resolver.Resolve(
			sanitized.DestinationNames,
			sanitized.DestinationGroupNames,
			sanitized.DestinationThemes,
		),
		FacilityIDs: t.catalog.FacilityIDs(sanitized.HotelFacilities),
	}

	t.log.Debug("executing hotel search",
		"destination_ids", len(resolved.DestinationIDs),
		"facility_ids", len(resolved.FacilityIDs))

	if _, err := t.searcher.SearchHotels(ctx, resolved); err != nil {
		return nil, NewToolError(SearchName, err.Error(), CodeExecutionError)
	}

	ref := uuid.NewString()[:8]

	return Result{
		Status:  "success",
		Message: fmt.Sprintf("Search completed, result reference %s", ref),
		Data:    resolved,
	}, nil
}
