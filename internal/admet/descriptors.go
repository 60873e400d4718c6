// Package admet derives qualitative absorption, distribution, solubility and
// drug-likeness predictions from a compound's physicochemical descriptors.
//
// Every function here is pure. Absent descriptors are zero, which means an
// incomplete record tends to look favorable; callers that care should check
// PropertySet.Missing.
package admet

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// PropertySet holds the descriptors of one compound. Zero means absent.
type PropertySet struct {
	MolecularWeight float64 `json:"molecular_weight"`
	LogP            float64 `json:"logp"`
	HBD             float64 `json:"hbd"`
	HBA             float64 `json:"hba"`
	PSA             float64 `json:"psa"`
	RotatableBonds  float64 `json:"rotatable_bonds"`
	Ro5Violations   float64 `json:"ro5_violations"`

	// Missing lists descriptor names that were not supplied.
	Missing []string `json:"missing,omitempty"`
}

// descriptor keys, in reporting order.
const (
	KeyMolecularWeight = "molecular_weight"
	KeyLogP            = "logp"
	KeyHBD             = "hbd"
	KeyHBA             = "hba"
	KeyPSA             = "psa"
	KeyRotatableBonds  = "rotatable_bonds"
	KeyRo5Violations   = "ro5_violations"
)

// aliases maps accepted input keys to canonical descriptor keys. ChEMBL's
// molecule_properties names are accepted so upstream records can be passed
// straight through.
var aliases = map[string]string{
	"molecular_weight":   KeyMolecularWeight,
	"mw":                 KeyMolecularWeight,
	"full_mwt":           KeyMolecularWeight,
	"mw_freebase":        KeyMolecularWeight,
	"logp":               KeyLogP,
	"alogp":              KeyLogP,
	"cx_logp":            KeyLogP,
	"hbd":                KeyHBD,
	"hbd_lipinski":       KeyHBD,
	"h_bond_donors":      KeyHBD,
	"hba":                KeyHBA,
	"hba_lipinski":       KeyHBA,
	"h_bond_acceptors":   KeyHBA,
	"psa":                KeyPSA,
	"tpsa":               KeyPSA,
	"polar_surface_area": KeyPSA,
	"rtb":                KeyRotatableBonds,
	"rotatable_bonds":    KeyRotatableBonds,
	"num_ro5_violations": KeyRo5Violations,
	"ro5_violations":     KeyRo5Violations,
}

// allKeys lists canonical keys in reporting order.
var allKeys = []string{
	KeyMolecularWeight, KeyLogP, KeyHBD, KeyHBA, KeyPSA, KeyRotatableBonds, KeyRo5Violations,
}

// ParseDescriptors builds a PropertySet from a loosely-typed map.
// Values may be numbers or numeric strings; nil means absent. Unknown keys are
// ignored. When several aliases name the same descriptor, the first one in
// sorted key order wins.
func ParseDescriptors(m map[string]any) (PropertySet, error) {
	var ps PropertySet
	seen := make(map[string]bool, len(allKeys))

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		canon, ok := aliases[strings.ToLower(strings.TrimSpace(k))]
		if !ok || seen[canon] {
			continue
		}
		raw := m[k]
		if raw == nil {
			continue
		}
		n, err := parseNumber(raw)
		if err != nil {
			return PropertySet{}, fmt.Errorf("descriptor %s: %w", k, err)
		}
		if canon != KeyLogP && n < 0 {
			return PropertySet{}, fmt.Errorf("descriptor %s: must not be negative, got %v", k, n)
		}
		ps.set(canon, n)
		seen[canon] = true
	}

	for _, k := range allKeys {
		if !seen[k] {
			ps.Missing = append(ps.Missing, k)
		}
	}
	return ps, nil
}

func (ps *PropertySet) set(key string, n float64) {
	switch key {
	case KeyMolecularWeight:
		ps.MolecularWeight = n
	case KeyLogP:
		ps.LogP = n
	case KeyHBD:
		ps.HBD = n
	case KeyHBA:
		ps.HBA = n
	case KeyPSA:
		ps.PSA = n
	case KeyRotatableBonds:
		ps.RotatableBonds = n
	case KeyRo5Violations:
		ps.Ro5Violations = n
	}
}

func parseNumber(v any) (float64, error) {
	var n float64
	switch x := v.(type) {
	case float64:
		n = x
	case int:
		n = float64(x)
	case int64:
		n = float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", x.String())
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", x)
		}
		n = f
	default:
		return 0, fmt.Errorf("not a number: %T", v)
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return n, nil
}
