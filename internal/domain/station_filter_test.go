package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/charger-microservice/internal/pkg/errors"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: nil},
		{name: "single", input: "CCS", expected: []string{"CCS"}},
		{name: "trims and drops empty", input: " CCS , ,Type 2,", expected: []string{"CCS", "Type 2"}},
		{name: "only separators", input: " , ,", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitList(tt.input)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCanonicalCurrentType(t *testing.T) {
	assert.Equal(t, CurrentTypeACSinglePhase, CanonicalCurrentType("AC"))
	assert.Equal(t, CurrentTypeACThreePhase, CanonicalCurrentType("AC3"))
	assert.Equal(t, CurrentTypeACSinglePhase, CanonicalCurrentType(" AC "))
	assert.Equal(t, "DC", CanonicalCurrentType("DC"))
	assert.Equal(t, CurrentTypeACSinglePhase, CanonicalCurrentType(CurrentTypeACSinglePhase))
	assert.Equal(t, "Wireless", CanonicalCurrentType("Wireless"))
}

func TestCanonicalizeCriteria(t *testing.T) {
	t.Run("synonyms and lists", func(t *testing.T) {
		c := CanonicalizeCriteria(RawCriteria{
			Connectors: []string{"CCS,Type 2", "CHAdeMO"},
			Currents:   []string{"AC, AC3", "DC"},
			Operators:  []string{" Tesla "},
		})

		assert.Equal(t, []string{"CCS", "Type 2", "CHAdeMO"}, c.ConnectorTypes)
		assert.Equal(t, []string{CurrentTypeACSinglePhase, CurrentTypeACThreePhase, "DC"}, c.CurrentTypes)
		assert.Equal(t, []string{"Tesla"}, c.Operators)
		assert.Nil(t, c.ReferencePoint)
		assert.Nil(t, c.RadiusKm)
	})

	t.Run("empty input gives empty criteria", func(t *testing.T) {
		c := CanonicalizeCriteria(RawCriteria{})
		assert.Empty(t, c.ConnectorTypes)
		assert.Empty(t, c.CurrentTypes)
		assert.Empty(t, c.Operators)
	})

	t.Run("idempotent on canonical input", func(t *testing.T) {
		first := CanonicalizeCriteria(RawCriteria{
			Connectors: []string{"CCS"},
			Currents:   []string{"AC", "AC3", "DC"},
			Operators:  []string{"Evie"},
		})
		second := CanonicalizeCriteria(RawCriteria{
			Connectors: first.ConnectorTypes,
			Currents:   first.CurrentTypes,
			Operators:  first.Operators,
		})
		assert.Equal(t, first, second)
	})
}

func TestFilterCriteria_Predicate(t *testing.T) {
	station := &Station{
		ID:            "1",
		ConnectorType: "CCS, Type 2",
		CurrentType:   "DC",
		Operator:      "Chargefox",
	}

	tests := []struct {
		name     string
		criteria FilterCriteria
		station  *Station
		expected bool
	}{
		{name: "empty criteria matches everything", criteria: FilterCriteria{}, station: station, expected: true},
		{name: "token membership", criteria: FilterCriteria{ConnectorTypes: []string{"Type 2"}}, station: station, expected: true},
		{name: "case insensitive", criteria: FilterCriteria{Operators: []string{"CHARGEFOX"}}, station: station, expected: true},
		{name: "any of several values", criteria: FilterCriteria{CurrentTypes: []string{CurrentTypeACSinglePhase, "DC"}}, station: station, expected: true},
		{name: "substring is not a token", criteria: FilterCriteria{ConnectorTypes: []string{"Type"}}, station: station, expected: false},
		{
			name: "AND across dimensions",
			criteria: FilterCriteria{
				ConnectorTypes: []string{"CCS"},
				CurrentTypes:   []string{CurrentTypeACSinglePhase},
			},
			station:  station,
			expected: false,
		},
		{name: "empty field never matches non-empty filter", criteria: FilterCriteria{Operators: []string{"Tesla"}}, station: &Station{ID: "2"}, expected: false},
		{name: "nil station", criteria: FilterCriteria{}, station: nil, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.criteria.Predicate()(tt.station))
		})
	}
}

func TestFilterCriteria_PredicateIsConjunction(t *testing.T) {
	stations := []*Station{
		{ID: "1", ConnectorType: "CCS", CurrentType: "DC", Operator: "Evie"},
		{ID: "2", ConnectorType: "Type 2", CurrentType: CurrentTypeACSinglePhase, Operator: "Evie"},
		{ID: "3", ConnectorType: "CCS", CurrentType: CurrentTypeACThreePhase, Operator: "Tesla"},
	}
	connectors := FilterCriteria{ConnectorTypes: []string{"CCS"}}
	operators := FilterCriteria{Operators: []string{"Evie"}}
	both := FilterCriteria{ConnectorTypes: []string{"CCS"}, Operators: []string{"Evie"}}

	for _, s := range stations {
		expected := connectors.Predicate()(s) && operators.Predicate()(s)
		assert.Equal(t, expected, both.Predicate()(s), "station %s", s.ID)
	}
}

func TestFilterCriteria_Validate(t *testing.T) {
	tests := []struct {
		name     string
		criteria FilterCriteria
		wantErr  error
	}{
		{name: "no location", criteria: FilterCriteria{}},
		{name: "location without radius", criteria: FilterCriteria{}.WithReferencePoint(10, 20)},
		{name: "location with radius", criteria: FilterCriteria{}.WithReferencePoint(10, 20).WithRadius(5)},
		{name: "radius without location", criteria: FilterCriteria{}.WithRadius(5), wantErr: apperrors.ErrInvalidRequest},
		{name: "zero radius", criteria: FilterCriteria{}.WithReferencePoint(0, 0).WithRadius(0), wantErr: apperrors.ErrInvalidRadius},
		{name: "negative radius", criteria: FilterCriteria{}.WithReferencePoint(0, 0).WithRadius(-1), wantErr: apperrors.ErrInvalidRadius},
		{name: "NaN radius", criteria: FilterCriteria{}.WithReferencePoint(0, 0).WithRadius(math.NaN()), wantErr: apperrors.ErrInvalidRadius},
		{name: "latitude out of range", criteria: FilterCriteria{}.WithReferencePoint(91, 0), wantErr: apperrors.ErrInvalidCoordinates},
		{name: "longitude out of range", criteria: FilterCriteria{}.WithReferencePoint(0, 181), wantErr: apperrors.ErrInvalidCoordinates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.criteria.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestFilterCriteria_WithDoesNotMutate(t *testing.T) {
	base := FilterCriteria{Operators: []string{"Evie"}}
	withPoint := base.WithReferencePoint(1, 2).WithRadius(3)

	assert.Nil(t, base.ReferencePoint)
	assert.Nil(t, base.RadiusKm)
	assert.True(t, withPoint.HasLocation())
}
