package service

import (
	"regexp"
	"strings"

	"oven_dashboard/internal/config"
	"oven_dashboard/internal/models"
)

// PhaseClassifier maps controller messages onto phases.
type PhaseClassifier struct {
	preheat []string
	runtime []string
	end     []string
}

func NewPhaseClassifier(cfg config.Phase) *PhaseClassifier {
	return &PhaseClassifier{
		preheat: foldAll(cfg.PreheatKeywords),
		runtime: foldAll(cfg.RuntimeKeywords),
		end:     foldAll(cfg.EndKeywords),
	}
}

// Classify returns the phase for msg and whether any keyword matched.
// End keywords win over PREHEAT, which wins over RUNTIME.
func (c *PhaseClassifier) Classify(msg string) (models.Phase, bool) {
	m := fold(msg)
	if m == "" {
		return models.PhaseNone, false
	}
	switch {
	case containsAny(m, c.end):
		return models.PhaseNone, true
	case containsAny(m, c.preheat):
		return models.PhasePreheat, true
	case containsAny(m, c.runtime):
		return models.PhaseRuntime, true
	}
	return models.PhaseNone, false
}

var (
	programShortRe = regexp.MustCompile(`(?i)\bP\s*(\d+)`)
	programLongRe  = regexp.MustCompile(`(?i)\b(?:Programm|Prog)\s+(\d+)`)
)

// ProgramNumber extracts "P<n>" from messages like "P 12 geladen" or
// "Programm 12 gestartet"; "" when none is present.
func ProgramNumber(msg string) string {
	if m := programShortRe.FindStringSubmatch(msg); m != nil {
		return "P" + m[1]
	}
	if m := programLongRe.FindStringSubmatch(msg); m != nil {
		return "P" + m[1]
	}
	return ""
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func foldAll(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if s = fold(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
