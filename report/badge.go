package report

import (
	"strings"

	"github.com/sumitdasdk/DRX-pro/scenario"
)

type BadgeVariant string

const (
	BadgeVariantSecondary BadgeVariant = "secondary"
	BadgeVariantSuccess   BadgeVariant = "success"
	BadgeVariantWarning   BadgeVariant = "warning"
	BadgeVariantError     BadgeVariant = "error"
)

type BadgeProps struct {
	Variant BadgeVariant
	Class   string
}

func badgeClasses(props BadgeProps) string {
	classes := []string{"badge"}

	switch props.Variant {
	case BadgeVariantSecondary:
		classes = append(classes, "badge-secondary")
	case BadgeVariantSuccess:
		classes = append(classes, "badge-success")
	case BadgeVariantWarning:
		classes = append(classes, "badge-warning")
	case BadgeVariantError:
		classes = append(classes, "badge-error")
	}

	if props.Class != "" {
		classes = append(classes, props.Class)
	}

	return strings.Join(classes, " ")
}

// resultBadge picks the badge for a result: passed, failed check or error.
func resultBadge(r scenario.Result) (BadgeProps, string) {
	switch {
	case r.Passed():
		return BadgeProps{Variant: BadgeVariantSuccess}, "PASS"
	case r.FailedCheck() != "":
		return BadgeProps{Variant: BadgeVariantWarning}, "FAIL"
	default:
		return BadgeProps{Variant: BadgeVariantError}, "ERROR"
	}
}

// badgeStyles is the stylesheet for badgeClasses.
const badgeStyles = `.badge{display:inline-flex;align-items:center;border-radius:9999px;padding:2px 10px;font:600 12px monospace;background:#000;color:#fff}
.badge-secondary{background:#e5e5e5;color:#000}
.badge-success{background:#16a34a}
.badge-warning{background:#fb923c}
.badge-error{background:#ef4444}
`
