package console

import (
	"html/template"
	"strings"
	"time"
)

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
	"/", "&#x2F;",
	"`", "&#96;",
	"=", "&#61;",
)

// EscapeHTML escapa & < > " ' / ` = para insertar texto de usuario en HTML.
func EscapeHTML(s string) string {
	if s == "" {
		return ""
	}
	return htmlReplacer.Replace(s)
}

// Preview recorta s a n runas agregando "..."; vacío se muestra como "-".
func Preview(s string, n int) string {
	if s == "" {
		return "-"
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// StatusClass clase CSS del badge de estado de un ticket.
func StatusClass(status string) string {
	switch status {
	case "resolved":
		return "resolved"
	case "in-progress":
		return "inprogress"
	default:
		return "open"
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

var funcs = template.FuncMap{
	// esc ya escapa los 8 caracteres; html/template no debe volver a escapar.
	"esc":         func(s string) template.HTML { return template.HTML(EscapeHTML(s)) },
	"dash":        orDash,
	"preview":     Preview,
	"statusClass": StatusClass,
	"fmtTime": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Local().Format("2006-01-02 15:04")
	},
	"inc": func(i int) int { return i + 1 },
}
