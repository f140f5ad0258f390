package rxapp

import "strings"

type buttonVariant string

const (
	buttonVariantDefault buttonVariant = ""
	buttonVariantOutline buttonVariant = "outline"
	buttonVariantNav     buttonVariant = "nav"
)

func buttonClasses(variant buttonVariant, active bool) string {
	classes := []string{"btn"}

	switch variant {
	case buttonVariantOutline:
		classes = append(classes, "btn-outline")
	case buttonVariantNav:
		classes = append(classes, "btn-nav")
	default:
		classes = append(classes, "btn-primary")
	}

	if active {
		classes = append(classes, "active")
	}

	return strings.Join(classes, " ")
}
