package apiclient

import "strings"

// TicketFilter filtros de la lista de tickets. Campos vacíos no filtran.
type TicketFilter struct {
	Status   string
	Priority string
	Search   string // subcadena, sin distinguir mayúsculas, en subject o name
}

// Active indica si hay algún filtro aplicado.
func (f TicketFilter) Active() bool {
	return f.Status != "" || f.Priority != "" || strings.TrimSpace(f.Search) != ""
}

// FilterTickets aplica f sobre tickets conservando el orden.
func FilterTickets(tickets []Ticket, f TicketFilter) []Ticket {
	q := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]Ticket, 0, len(tickets))
	for _, t := range tickets {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(t.Subject), q) && !strings.Contains(strings.ToLower(t.Name), q) {
			continue
		}
		out = append(out, t)
	}
	return out
}
