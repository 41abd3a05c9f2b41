package catalog

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Modifier names one college-granted effect. Numeric modifiers read through
// Number or Multiplier, boolean ones through Flag.
type Modifier string

const (
	ModAttendClassEnergy   Modifier = "attendClassEnergy"
	ModSummerSanMultiplier Modifier = "summerSanMultiplier"
	ModSocialInit          Modifier = "socialInit"
	ModBathSanMultiplier   Modifier = "bathSanMultiplier"
	ModLateChance          Modifier = "lateChance"
	ModVolunteerEfficiency Modifier = "volunteerEfficiency"
	ModVolunteerRequired   Modifier = "volunteerRequired"
	ModGPAEfficiency       Modifier = "gpaEfficiency"
	ModNightStudySanLoss   Modifier = "nightStudySanLoss"
	ModCharmInit           Modifier = "charmInit"
	ModSocialEnergyCost    Modifier = "socialEnergyCost"
	ModDateChanceBonus     Modifier = "dateChanceBonus"
	ModLogicGrowth         Modifier = "logicGrowth"
	ModStarspaceBonus      Modifier = "starspaceBonus"
	ModSickImmunity        Modifier = "sickImmunity"
	ModCrossCampusEnergy   Modifier = "crossCampusEnergy"
	ModMoneyEfficiency     Modifier = "moneyEfficiency"
	ModInitialMastery      Modifier = "initialMastery"
	ModGPANoLimit          Modifier = "gpaNoLimit"
	ModExtraCourses        Modifier = "extraCourses"
	ModGPAThreshold        Modifier = "gpaThreshold"
)

var knownModifiers = map[Modifier]bool{
	ModAttendClassEnergy:   true,
	ModSummerSanMultiplier: true,
	ModSocialInit:          true,
	ModBathSanMultiplier:   true,
	ModLateChance:          true,
	ModVolunteerEfficiency: true,
	ModVolunteerRequired:   true,
	ModGPAEfficiency:       true,
	ModNightStudySanLoss:   true,
	ModCharmInit:           true,
	ModSocialEnergyCost:    true,
	ModDateChanceBonus:     true,
	ModLogicGrowth:         true,
	ModStarspaceBonus:      true,
	ModSickImmunity:        true,
	ModCrossCampusEnergy:   true,
	ModMoneyEfficiency:     true,
	ModInitialMastery:      true,
	ModGPANoLimit:          true,
	ModExtraCourses:        true,
	ModGPAThreshold:        true,
}

// Modifiers is the typed modifier table of a college. Absent keys read as
// zero or false.
type Modifiers map[Modifier]float64

func (m Modifiers) Number(key Modifier) float64 {
	return m[key]
}

func (m Modifiers) Flag(key Modifier) bool {
	return m[key] != 0
}

// Multiplier reads a multiplicative modifier, defaulting to 1.
func (m Modifiers) Multiplier(key Modifier) float64 {
	if v := m[key]; v != 0 {
		return v
	}
	return 1
}

// Keys lists the modifiers that are set, sorted for stable output.
func (m Modifiers) Keys() []Modifier {
	keys := make([]Modifier, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (m *Modifiers) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: modifiers must be a mapping", value.Line)
	}
	out := make(Modifiers, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode, valNode := value.Content[i], value.Content[i+1]
		key := Modifier(keyNode.Value)
		if !knownModifiers[key] {
			return fmt.Errorf("line %d: unknown modifier %q", keyNode.Line, keyNode.Value)
		}
		if valNode.Tag == "!!bool" {
			var b bool
			if err := valNode.Decode(&b); err != nil {
				return fmt.Errorf("modifier %s: %w", key, err)
			}
			if b {
				out[key] = 1
			}
			continue
		}
		var f float64
		if err := valNode.Decode(&f); err != nil {
			return fmt.Errorf("modifier %s: %w", key, err)
		}
		out[key] = f
	}
	*m = out
	return nil
}
