package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/triagedesk/backend/internal/models"
)

// Report renders the plain-text triage summary the coordinators export at
// the end of a screening round.
func Report(candidates []models.Candidate, analyst string, now time.Time) string {
	var classified, disqualified, review, pending []models.Candidate
	for _, c := range candidates {
		switch c.Status {
		case models.StatusClassificado:
			classified = append(classified, c)
		case models.StatusDesclassificado:
			disqualified = append(disqualified, c)
		case models.StatusRevisar:
			review = append(review, c)
		default:
			pending = append(pending, c)
		}
	}

	byArea := map[models.Area]int{}
	classifiedByArea := map[models.Area]int{}
	for _, c := range candidates {
		byArea[c.Area]++
		if c.Status == models.StatusClassificado {
			classifiedByArea[c.Area]++
		}
	}

	total := len(candidates)
	var b strings.Builder
	b.WriteString("RELATÓRIO DE TRIAGEM DE CANDIDATOS\n")
	b.WriteString("====================================\n")
	fmt.Fprintf(&b, "Data: %s\n", now.Format("02/01/2006 15:04"))
	fmt.Fprintf(&b, "Analista: %s\n\n", analyst)

	b.WriteString("RESUMO GERAL\n")
	b.WriteString("------------\n")
	fmt.Fprintf(&b, "Total de candidatos: %d\n", total)
	fmt.Fprintf(&b, "Classificados: %d (%s)\n", len(classified), percent(len(classified), total))
	fmt.Fprintf(&b, "Desclassificados: %d (%s)\n", len(disqualified), percent(len(disqualified), total))
	fmt.Fprintf(&b, "Para revisar: %d (%s)\n", len(review), percent(len(review), total))
	fmt.Fprintf(&b, "Pendentes: %d (%s)\n\n", len(pending), percent(len(pending), total))

	b.WriteString("POR ÁREA\n")
	b.WriteString("--------\n")
	fmt.Fprintf(&b, "Administrativa: %d candidatos (%d classificados)\n",
		byArea[models.AreaAdministrativa], classifiedByArea[models.AreaAdministrativa])
	fmt.Fprintf(&b, "Assistencial: %d candidatos (%d classificados)\n\n",
		byArea[models.AreaAssistencial], classifiedByArea[models.AreaAssistencial])

	writeSection(&b, "CANDIDATOS CLASSIFICADOS", classified)
	writeSection(&b, "CANDIDATOS DESCLASSIFICADOS", disqualified)
	writeSection(&b, "CANDIDATOS PARA REVISAR", review)
	writeSection(&b, "CANDIDATOS PENDENTES", pending)

	return b.String()
}

func writeSection(b *strings.Builder, title string, candidates []models.Candidate) {
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("-", len([]rune(title))) + "\n")
	for _, c := range candidates {
		fmt.Fprintf(b, "%s - %s - %s - Registro: %s\n", c.Name, c.Area, c.Cargo(), c.RegistrationNumber)
	}
	b.WriteString("\n")
}

func percent(n, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(n)/float64(total)*100)
}
