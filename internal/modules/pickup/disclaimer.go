// README: Disclaimer gate for regulated material types (pure predicate, no side effects).
package pickup

// regulatedMaterials require the requester to explicitly accept the handling
// disclaimer before a pickup can be created: glass, cardboard, appliances,
// and non-ferrous metals.
var regulatedMaterials = map[MaterialType]bool{
	MaterialGlass:     true,
	MaterialCardboard: true,
	MaterialAppliance: true,
	MaterialAluminum:  true,
	MaterialCopper:    true,
}

// IsRegulated reports whether the material type requires a disclaimer.
func IsRegulated(t MaterialType) bool {
	return regulatedMaterials[t]
}

// CheckDisclaimer rejects material sets that contain a regulated type unless
// the disclaimer was accepted.
func CheckDisclaimer(materials []Material, accepted bool) error {
	if accepted {
		return nil
	}
	for _, m := range materials {
		if IsRegulated(m.Type) {
			return ErrDisclaimerRequired
		}
	}
	return nil
}
