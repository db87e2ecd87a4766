package service

import (
	"testing"

	"github.com/triagedesk/backend/internal/models"
)

func sampleCandidates() []models.Candidate {
	return []models.Candidate{
		{RegistrationNumber: "1", Name: "Ana", Area: models.AreaAdministrativa, CargoAdministrativo: "Auxiliar Administrativo"},
		{RegistrationNumber: "2", Name: "Bruno", Area: models.AreaAssistencial, CargoAssistencial: "Enfermeiro", Status: models.StatusClassificado},
		{RegistrationNumber: "3", Name: "Carla", Area: models.AreaAdministrativa, CargoAdministrativo: "Recepcionista", Status: models.StatusRevisar},
		{RegistrationNumber: "4", Name: "Davi", Area: models.AreaAssistencial, CargoAssistencial: "Enfermeiro"},
		{RegistrationNumber: "5", Name: "Eva", Area: models.AreaAdministrativa, CargoAdministrativo: "Auxiliar Administrativo", Status: models.StatusDesclassificado},
	}
}

func regs(candidates []models.Candidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.RegistrationNumber
	}
	return out
}

func sameRegs(a []string, b ...string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestVisibleDefaultFilterSelectsPending(t *testing.T) {
	got := Visible(sampleCandidates(), models.DefaultFilter())
	if !sameRegs(regs(got), "1", "4") {
		t.Fatalf("expected pending candidates 1 and 4, got %v", regs(got))
	}
}

func TestVisibleCombinesAreaCargoStatus(t *testing.T) {
	cases := []struct {
		name   string
		filter models.Filter
		want   []string
	}{
		{"all", models.Filter{Area: models.FilterAll, Cargo: models.FilterAll, Status: models.FilterAll}, []string{"1", "2", "3", "4", "5"}},
		{"area", models.Filter{Area: "Assistencial", Cargo: models.FilterAll, Status: models.FilterAll}, []string{"2", "4"}},
		{"cargo", models.Filter{Area: models.FilterAll, Cargo: "Auxiliar Administrativo", Status: models.FilterAll}, []string{"1", "5"}},
		{"status", models.Filter{Area: models.FilterAll, Cargo: models.FilterAll, Status: "Revisar"}, []string{"3"}},
		{"combined", models.Filter{Area: "Assistencial", Cargo: "Enfermeiro", Status: models.FilterPending}, []string{"4"}},
		{"empty status means pending", models.Filter{Area: models.FilterAll, Cargo: models.FilterAll}, []string{"1", "4"}},
	}
	for _, tc := range cases {
		got := regs(Visible(sampleCandidates(), tc.filter))
		if !sameRegs(got, tc.want...) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestCargoOptionsAppearanceOrder(t *testing.T) {
	got := CargoOptions(sampleCandidates(), models.FilterAll)
	if !sameRegs(got, "Auxiliar Administrativo", "Enfermeiro", "Recepcionista") {
		t.Fatalf("unexpected options: %v", got)
	}

	got = CargoOptions(sampleCandidates(), "Assistencial")
	if !sameRegs(got, "Enfermeiro") {
		t.Fatalf("expected area-scoped options, got %v", got)
	}
}
