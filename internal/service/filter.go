package service

import "github.com/triagedesk/backend/internal/models"

// Visible derives the working subset of candidates for a filter state,
// preserving the original relative order.
func Visible(candidates []models.Candidate, f models.Filter) []models.Candidate {
	out := make([]models.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if Matches(c, f) {
			out = append(out, c)
		}
	}
	return out
}

// Matches is the three-way filter predicate: area AND area-specific cargo
// AND status, where "pending" selects candidates not yet triaged.
func Matches(c models.Candidate, f models.Filter) bool {
	if f.Area != "" && f.Area != models.FilterAll && string(c.Area) != f.Area {
		return false
	}
	if f.Cargo != "" && f.Cargo != models.FilterAll && c.Cargo() != f.Cargo {
		return false
	}
	switch f.Status {
	case models.FilterAll:
	case "", models.FilterPending:
		if !c.Pending() {
			return false
		}
	default:
		if string(c.Status) != f.Status {
			return false
		}
	}
	return true
}

// CargoOptions lists the distinct cargos available under an area filter, in
// order of first appearance. Drives the dashboard's cargo dropdown.
func CargoOptions(candidates []models.Candidate, area string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, c := range candidates {
		if area != "" && area != models.FilterAll && string(c.Area) != area {
			continue
		}
		cargo := c.Cargo()
		if cargo == "" {
			continue
		}
		if _, ok := seen[cargo]; ok {
			continue
		}
		seen[cargo] = struct{}{}
		out = append(out, cargo)
	}
	return out
}
