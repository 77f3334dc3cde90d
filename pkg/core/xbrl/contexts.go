package xbrl

// AccountingContext is the reporting scope shared by the facts that reference it.
// PeriodEnd is an ISO date, the raw text when it could not be normalized, or "" when the context
// carries no period at all (an empty PeriodEnd never equals a target date).
type AccountingContext struct {
	ID         string
	PeriodEnd  string
	HasSegment bool
}

// Contexts maps context id to its resolved definition. It lives for one document parse.
type Contexts map[string]AccountingContext

// ResolveContexts scans every <context> element of the document.
//
// Segment presence: any <segment> under <entity> marks the context as a sub-entity breakdown,
// regardless of its content. Period end: a duration (startDate + endDate) yields endDate,
// otherwise an instant yields its date.
func ResolveContexts(doc *Document) Contexts {
	contexts := make(Contexts)
	for _, node := range doc.Elements("context") {
		id, ok := node.Attr("id")
		if !ok || id == "" {
			continue
		}

		ctx := AccountingContext{
			ID:         id,
			HasSegment: descendants(descendants(node, "entity"), "segment").Length() > 0,
		}

		var raw string
		periods := descendants(node, "period")
		start := descendants(periods, "startDate")
		end := descendants(periods, "endDate")
		instant := descendants(periods, "instant")
		switch {
		case start.Length() > 0 && end.Length() > 0:
			raw = nodeText(end.First())
		case instant.Length() > 0:
			raw = nodeText(instant.First())
		}
		if raw != "" {
			ctx.PeriodEnd = NormalizeDateOrRaw(raw)
		}

		contexts[id] = ctx
	}
	return contexts
}
