package chembl

import (
	"fmt"

	"github.com/matsen/scimcp/internal/admet"
)

// Molecule is the subset of a ChEMBL molecule record used for property
// assessment. Descriptor values arrive as strings and are parsed by admet.
type Molecule struct {
	ChEMBLID     string              `json:"molecule_chembl_id"`
	PrefName     string              `json:"pref_name"`
	MoleculeType string              `json:"molecule_type"`
	MaxPhase     any                 `json:"max_phase"`
	Properties   map[string]any      `json:"molecule_properties"`
	Structures   *MoleculeStructures `json:"molecule_structures"`
}

// MoleculeStructures holds structure representations of a molecule.
type MoleculeStructures struct {
	CanonicalSmiles  string `json:"canonical_smiles"`
	StandardInchiKey string `json:"standard_inchi_key"`
}

// Descriptors converts molecule_properties into an admet.PropertySet.
// A molecule without properties (e.g. a biologic) yields an all-absent set.
func (m *Molecule) Descriptors() (admet.PropertySet, error) {
	ps, err := admet.ParseDescriptors(m.Properties)
	if err != nil {
		return admet.PropertySet{}, fmt.Errorf("molecule %s: %w", m.ChEMBLID, err)
	}
	return ps, nil
}

// Smiles returns the canonical SMILES, if known.
func (m *Molecule) Smiles() string {
	if m.Structures == nil {
		return ""
	}
	return m.Structures.CanonicalSmiles
}

// Summary is the compact view of a molecule used in comparisons and batches.
type Summary struct {
	ChEMBLID     string             `json:"molecule_chembl_id"`
	PrefName     string             `json:"pref_name,omitempty"`
	MoleculeType string             `json:"molecule_type,omitempty"`
	MaxPhase     any                `json:"max_phase,omitempty"`
	Smiles       string             `json:"canonical_smiles,omitempty"`
	Properties   admet.PropertySet  `json:"properties"`
	DrugLikeness admet.DrugLikeness `json:"drug_likeness"`
}

// Summarize builds the compact view of m.
func (m *Molecule) Summarize() (Summary, error) {
	ps, err := m.Descriptors()
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		ChEMBLID:     m.ChEMBLID,
		PrefName:     m.PrefName,
		MoleculeType: m.MoleculeType,
		MaxPhase:     m.MaxPhase,
		Smiles:       m.Smiles(),
		Properties:   ps,
		DrugLikeness: admet.AssessDrugLikeness(ps),
	}, nil
}
