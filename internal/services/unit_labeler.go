package services

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/rentowl/backend/internal/dtos"
	"github.com/rentowl/backend/internal/utils"
)

// LabeledUnit is one physical unit emitted by the label generator,
// ready to be persisted onto a property.
type LabeledUnit struct {
	FloorIndex int
	FloorName  string
	UnitType   string
	Rent       int64
	Label      string
}

// Ordinal floor names by submission index. Index 0 is always "Ground".
var floorNames = [...]string{
	"Ground", "First", "Second", "Third", "Fourth", "Fifth",
	"Sixth", "Seventh", "Eighth", "Ninth", "Tenth",
}

// FloorName maps a 0-based floor index to its display name. Past the
// fixed table every floor gets a bare "th" suffix ("12th", "21th");
// stored floor names depend on this exact string, so the suffix is not
// corrected for ordinals ending in 1/2/3.
func FloorName(i int) string {
	if i >= 0 && i < len(floorNames) {
		return floorNames[i]
	}
	return fmt.Sprintf("%dth", i+1)
}

// FloorPrefix is the leading label segment: "G" for ground, "F" for the
// first floor, "{i}F" above that.
func FloorPrefix(i int) string {
	switch i {
	case 0:
		return "G"
	case 1:
		return "F"
	default:
		return fmt.Sprintf("%dF", i)
	}
}

// Fixed unit-type prefix table, matched case-insensitively.
var typePrefixes = map[string]string{
	"bedsitter":   "B",
	"1 bedroom":   "1B",
	"2 bedroom":   "2B",
	"3 bedroom":   "3B",
	"4 bedroom":   "4B",
	"penthouse":   "P",
	"single room": "SR",
	"double room": "DR",
	"condominium": "C",
	"other":       "O",
}

// TypePrefix resolves the label segment for a unit type. Unrecognized
// free-text types fall back to their uppercased, whitespace-stripped
// form; that fallback is a first-class branch, not an error.
func TypePrefix(unitType string) string {
	key := strings.ToLower(strings.TrimSpace(unitType))
	if p, ok := typePrefixes[key]; ok {
		return p
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, unitType)
}

// GenerateUnitLabels walks the submitted floors in order and assigns
// every blueprint a label of the form floorPrefix + typePrefix + n,
// where n is the 1-based occurrence of that type prefix on that floor.
// The per-floor counter is keyed by prefix, not by the original type
// string, so two free-text types that collapse to the same prefix still
// get distinct sequence numbers. Deterministic: same input order, same
// labels. One unit is emitted per blueprint element; Count never
// multiplies units.
func GenerateUnitLabels(floors []dtos.FloorBlueprint) ([]LabeledUnit, error) {
	if len(floors) == 0 {
		return nil, fmt.Errorf("no floors submitted: %w", utils.ErrMalformedUnits)
	}

	var out []LabeledUnit
	for i, floor := range floors {
		typeCounts := map[string]int{}
		for _, bp := range floor.Units {
			if strings.TrimSpace(bp.Type) == "" {
				return nil, fmt.Errorf("floor %d has a unit with no type: %w", i, utils.ErrMalformedUnits)
			}
			if bp.Rent < 0 {
				return nil, fmt.Errorf("floor %d has a unit with negative rent: %w", i, utils.ErrMalformedUnits)
			}
			prefix := TypePrefix(bp.Type)
			typeCounts[prefix]++
			out = append(out, LabeledUnit{
				FloorIndex: i,
				FloorName:  FloorName(i),
				UnitType:   bp.Type,
				Rent:       bp.Rent,
				Label:      fmt.Sprintf("%s%s%d", FloorPrefix(i), prefix, typeCounts[prefix]),
			})
		}
	}
	return out, nil
}
