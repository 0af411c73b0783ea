package physics

import (
	"encoding/json"
	"fmt"
	"io"
)

// materialRecord is the on-disk shape of one material table entry
// (spec §6: "Material table (JSON-like) ... density, energy[],
// matten_comp[], matten_phot[], matten_rayl[], x[], form_factor[],
// scattering_func[], optional xray_escape[], xray_probs[],
// auger_probs[]"). The table itself is an array of these records;
// only the data types it populates (GammaStats/Material) are in scope
// per spec §1 — the loader here is a small literal transcription of
// the field list, not a general materials-file format.
type materialRecord struct {
	Name             string    `json:"name"`
	Density          float64   `json:"density"`
	IsDetector       bool      `json:"is_detector"`
	RayleighOn       bool      `json:"rayleigh"`
	Energy           []float64 `json:"energy"`
	AttenCompton     []float64 `json:"matten_comp"`
	AttenPhoto       []float64 `json:"matten_phot"`
	AttenRayleigh    []float64 `json:"matten_rayl"`
	X                []float64 `json:"x"`
	FormFactor       []float64 `json:"form_factor"`
	ScatteringFunc   []float64 `json:"scattering_func"`
	XrayEscape       []float64 `json:"xray_escape"`
	XrayProbs        []float64 `json:"xray_probs"`
	AugerProbs       []float64 `json:"auger_probs"`
}

// LoadMaterials parses a material table (spec §6) into a MaterialTable
// ready for transport lookups. Each record's id is its position in
// the file (starting at 0).
func LoadMaterials(r io.Reader) (*MaterialTable, error) {
	var records []materialRecord
	dec := json.NewDecoder(r)
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("physics: parsing material table: %w", err)
	}

	t := NewMaterialTable()
	for idx, rec := range records {
		stats, err := NewGammaStats(rec.Energy, rec.AttenPhoto, rec.AttenCompton, rec.AttenRayleigh,
			rec.X, rec.FormFactor, rec.ScatteringFunc, rec.RayleighOn)
		if err != nil {
			return nil, fmt.Errorf("physics: material %d (%s): %w", idx, rec.Name, err)
		}
		m := &Material{
			ID:                 int32(idx),
			Name:               rec.Name,
			Density:            rec.Density,
			Stats:              stats,
			IsDetector:         rec.IsDetector,
			XrayEscapeEnergies: rec.XrayEscape,
			XrayProbabilities:  rec.XrayProbs,
			AugerProbabilities: rec.AugerProbs,
		}
		t.Add(m)
	}
	return t, nil
}

// MaterialTable is the scene-wide set of loaded materials, indexed by
// id, implementing transport.MaterialLookup (spec §3: "Material /
// GammaMaterial").
type MaterialTable struct {
	byID map[int32]*Material
}

// NewMaterialTable builds an empty table.
func NewMaterialTable() *MaterialTable {
	return &MaterialTable{byID: make(map[int32]*Material)}
}

// Add registers a material under its own ID.
func (t *MaterialTable) Add(m *Material) {
	t.byID[m.ID] = m
}

// Material resolves a material id to its record, satisfying
// transport.MaterialLookup. Returns nil if the id is unknown.
func (t *MaterialTable) Material(id int32) *Material {
	return t.byID[id]
}

// Len reports how many materials are registered.
func (t *MaterialTable) Len() int {
	return len(t.byID)
}

// ByName looks up a material by its table name, used when wiring
// source/detector configs that reference materials symbolically.
func (t *MaterialTable) ByName(name string) (*Material, bool) {
	for _, m := range t.byID {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}
