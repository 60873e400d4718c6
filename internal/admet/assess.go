package admet

// Absorption labels.
const (
	AbsorptionPoor     = "Poor oral absorption"
	AbsorptionGood     = "Good oral absorption"
	AbsorptionModerate = "Moderate oral absorption"
)

// Distribution labels.
const (
	DistributionHighLipophilicity = "high lipophilicity, may accumulate in tissues"
	DistributionLowLipophilicity  = "low lipophilicity, limited tissue distribution"
	DistributionCNS               = "good CNS penetration predicted"
	DistributionModerate          = "moderate distribution predicted"
)

// Textual permeability assessments.
const (
	PermeabilityGood     = "good"
	PermeabilityPoor     = "poor"
	PermeabilityModerate = "moderate"
)

// Absorption predicts oral absorption from weight, H-bond counts and PSA.
func Absorption(p PropertySet) string {
	if p.MolecularWeight > 500 || p.HBD > 5 || p.HBA > 10 || p.PSA > 140 {
		return AbsorptionPoor
	}
	if p.MolecularWeight < 400 && p.HBD <= 3 && p.HBA <= 7 && p.PSA < 100 {
		return AbsorptionGood
	}
	return AbsorptionModerate
}

// Distribution predicts tissue distribution from logP and PSA.
func Distribution(logP, psa float64) string {
	switch {
	case logP > 5:
		return DistributionHighLipophilicity
	case logP < 0:
		return DistributionLowLipophilicity
	case psa < 90 && logP > 0 && logP < 3:
		return DistributionCNS
	default:
		return DistributionModerate
	}
}

// SolubilityReport is the solubility/permeability prediction for one compound.
// PermeabilityClass comes from the decision table and PermeabilityAssessment
// from independent thresholds; they can disagree and are reported separately.
type SolubilityReport struct {
	Solubility             string  `json:"solubility"`
	PermeabilityClass      string  `json:"permeability"`
	PermeabilityAssessment string  `json:"permeability_assessment"`
	LogP                   float64 `json:"logp"`
	PSA                    float64 `json:"psa"`
	MolecularWeight        float64 `json:"molecular_weight"`
	HBD                    float64 `json:"hbd"`
	HBA                    float64 `json:"hba"`
}

// solubilityRule is one row of the solubility decision table.
type solubilityRule struct {
	match        func(logP, psa float64) bool
	solubility   string
	permeability string
}

// solubilityTable is evaluated top to bottom; the first match wins.
var solubilityTable = []solubilityRule{
	{func(l, p float64) bool { return l < 0 && p > 100 }, "High", "Low"},
	{func(l, p float64) bool { return l > 5 || p < 40 }, "Low", "High"},
	{func(l, p float64) bool { return l > 3 && p < 70 }, "Low-Moderate", "High"},
	{func(l, p float64) bool { return l < 2 && p > 80 }, "Moderate-High", "Low-Moderate"},
}

// SolubilityClass returns the solubility and permeability classes from the table.
func SolubilityClass(logP, psa float64) (solubility, permeability string) {
	for _, rule := range solubilityTable {
		if rule.match(logP, psa) {
			return rule.solubility, rule.permeability
		}
	}
	return "Moderate", "Moderate"
}

// Permeability returns the threshold-based textual permeability assessment.
func Permeability(logP, psa float64) string {
	if logP > 0 && logP < 5 && psa < 90 {
		return PermeabilityGood
	}
	if psa > 140 || logP < -1 {
		return PermeabilityPoor
	}
	return PermeabilityModerate
}

// Solubility builds the full solubility/permeability report.
func Solubility(p PropertySet) SolubilityReport {
	sol, perm := SolubilityClass(p.LogP, p.PSA)
	return SolubilityReport{
		Solubility:             sol,
		PermeabilityClass:      perm,
		PermeabilityAssessment: Permeability(p.LogP, p.PSA),
		LogP:                   p.LogP,
		PSA:                    p.PSA,
		MolecularWeight:        p.MolecularWeight,
		HBD:                    p.HBD,
		HBA:                    p.HBA,
	}
}
