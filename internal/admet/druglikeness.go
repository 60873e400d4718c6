package admet

// Lipinski criterion names reported in DrugLikeness.Violations.
const (
	ViolationWeight    = "Molecular weight > 500"
	ViolationLogP      = "LogP > 5"
	ViolationDonors    = "H-bond donors > 5"
	ViolationAcceptors = "H-bond acceptors > 10"

	// AllCriteriaMet is the single Violations entry when nothing is violated.
	AllCriteriaMet = "All Lipinski criteria met"
)

// Overall drug-likeness labels.
const (
	LabelExcellent = "Excellent"
	LabelGood      = "Good"
	LabelPoor      = "Poor"
)

// Bioavailability labels.
const (
	BioavailabilityLikely    = "Likely"
	BioavailabilityUncertain = "Uncertain"
)

// Recommendations, keyed on Lipinski violations and the Veber result.
const (
	RecommendExcellent = "Excellent drug-like properties; strong candidate for oral drug development"
	RecommendGood      = "Good drug-like properties; likely suitable for oral administration"
	RecommendModerate  = "Moderate drug-like properties; may require optimization"
	RecommendPoor      = "Poor drug-like properties; significant optimization needed"
)

// DrugLikeness is the Lipinski/Veber assessment of one compound.
type DrugLikeness struct {
	LipinskiViolations int      `json:"lipinski_violations"`
	Violations         []string `json:"violations"`
	VeberPass          bool     `json:"veber_pass"`
	Overall            string   `json:"overall"`
	Bioavailability    string   `json:"bioavailability"`
	Recommendation     string   `json:"recommendation"`
}

// LipinskiViolations counts violated Rule-of-Five criteria and names them.
func LipinskiViolations(p PropertySet) (int, []string) {
	var names []string
	if p.MolecularWeight > 500 {
		names = append(names, ViolationWeight)
	}
	if p.LogP > 5 {
		names = append(names, ViolationLogP)
	}
	if p.HBD > 5 {
		names = append(names, ViolationDonors)
	}
	if p.HBA > 10 {
		names = append(names, ViolationAcceptors)
	}
	return len(names), names
}

// VeberPass reports whether rotatable bonds and PSA satisfy the Veber rules.
func VeberPass(p PropertySet) bool {
	return p.RotatableBonds <= 10 && p.PSA <= 140
}

// AssessDrugLikeness computes the Lipinski and Veber assessment.
func AssessDrugLikeness(p PropertySet) DrugLikeness {
	count, names := LipinskiViolations(p)
	if count == 0 {
		names = []string{AllCriteriaMet}
	}
	veber := VeberPass(p)

	d := DrugLikeness{
		LipinskiViolations: count,
		Violations:         names,
		VeberPass:          veber,
		Overall:            overallLabel(count),
		Bioavailability:    BioavailabilityUncertain,
		Recommendation:     recommendation(count, veber),
	}
	if veber && count <= 1 {
		d.Bioavailability = BioavailabilityLikely
	}
	return d
}

func overallLabel(violations int) string {
	switch violations {
	case 0:
		return LabelExcellent
	case 1:
		return LabelGood
	default:
		return LabelPoor
	}
}

// recommendation maps (violations, veber) to text. Zero violations with a
// failed Veber check lands on the moderate row.
func recommendation(violations int, veber bool) string {
	switch {
	case violations == 0 && veber:
		return RecommendExcellent
	case violations <= 1 && veber:
		return RecommendGood
	case violations <= 2:
		return RecommendModerate
	default:
		return RecommendPoor
	}
}

// Report bundles every prediction for one compound.
type Report struct {
	Properties   PropertySet      `json:"properties"`
	Absorption   string           `json:"absorption"`
	Distribution string           `json:"distribution"`
	Solubility   SolubilityReport `json:"solubility"`
	DrugLikeness DrugLikeness     `json:"drug_likeness"`
}

// Evaluate runs all assessors over p.
func Evaluate(p PropertySet) Report {
	return Report{
		Properties:   p,
		Absorption:   Absorption(p),
		Distribution: Distribution(p.LogP, p.PSA),
		Solubility:   Solubility(p),
		DrugLikeness: AssessDrugLikeness(p),
	}
}
