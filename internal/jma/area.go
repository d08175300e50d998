package jma

// AreaEntry is one code's descriptor in area.json
type AreaEntry struct {
	Name       string   `json:"name"`
	EnName     string   `json:"enName"`
	OfficeName string   `json:"officeName,omitempty"`
	Parent     string   `json:"parent,omitempty"`
	Children   []string `json:"children,omitempty"`
}

// AreaDocument is the JMA area-metadata document (common/const/area.json)
type AreaDocument struct {
	Centers  map[string]AreaEntry `json:"centers"`
	Offices  map[string]AreaEntry `json:"offices"`
	Class10s map[string]AreaEntry `json:"class10s"`
	Class15s map[string]AreaEntry `json:"class15s"`
	Class20s map[string]AreaEntry `json:"class20s"`
}

// OfficeName returns the display name of an office (prefecture) code
func (d *AreaDocument) OfficeName(code string) (string, bool) {
	if d == nil {
		return "", false
	}
	entry, ok := d.Offices[code]
	if !ok {
		return "", false
	}
	return entry.Name, true
}

// Tiers returns the sub-area classification tiers in the order they are merged:
// class15s, class10s, class20s. Missing tiers are nil maps.
func (d *AreaDocument) Tiers() []map[string]AreaEntry {
	if d == nil {
		return nil
	}
	return []map[string]AreaEntry{d.Class15s, d.Class10s, d.Class20s}
}
