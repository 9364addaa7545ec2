package service

import (
	"strings"

	"oven_dashboard/internal/logger"
	"oven_dashboard/internal/models"

	"golang.org/x/text/cases"
)

// ColumnResolver maps raw headers onto canonical fields by keyword search.
type ColumnResolver struct {
	keywords map[models.Field][]string // already folded
	log      *logger.Logger
}

func NewColumnResolver(keywords map[models.Field][]string, log *logger.Logger) *ColumnResolver {
	folded := make(map[models.Field][]string, len(keywords))
	for f, kws := range keywords {
		for _, kw := range kws {
			if kw = fold(kw); kw != "" {
				folded[f] = append(folded[f], kw)
			}
		}
	}
	return &ColumnResolver{keywords: folded, log: log}
}

// Resolve picks, per canonical field, the first header in column order whose
// folded text contains any of the field's keywords. Unmatched fields are
// left out of the map.
func (r *ColumnResolver) Resolve(header []string) models.FieldMap {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = normalizeHeader(h)
	}

	fm := make(models.FieldMap, len(models.Fields))
	for _, f := range models.Fields {
		if idx := firstMatch(normalized, r.keywords[f]); idx >= 0 {
			fm[f] = models.Column{Header: header[idx], Index: idx}
		}
	}

	for _, f := range fm.Missing() {
		r.log.Warnw("column_unresolved", "field", f, "header", header)
	}
	return fm
}

func firstMatch(headers, keywords []string) int {
	for i, h := range headers {
		for _, kw := range keywords {
			if strings.Contains(h, kw) {
				return i
			}
		}
	}
	return -1
}

func normalizeHeader(h string) string {
	return fold(strings.TrimPrefix(h, "\ufeff"))
}

// fold trims and case-folds s for caseless substring matching.
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
