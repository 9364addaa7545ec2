package service

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"oven_dashboard/internal/models"
)

var (
	labelRe  = regexp.MustCompile(`^(.*?)\s*\(([^)]+)\)\s*$`)
	digitsRe = regexp.MustCompile(`\d+`)
	herdNoRe = regexp.MustCompile(`Herd\s*(\d+)`)
)

// sortKey orders labels by device type, numeric id parts, then hearth.
type sortKey struct {
	invalid bool
	typ     string
	ids     []int
	hearth  int
}

func labelSortKey(label string) sortKey {
	base, hearth, _ := strings.Cut(label, " - ")

	var typ, id string
	if m := labelRe.FindStringSubmatch(base); m != nil {
		typ, id = strings.ToLower(strings.TrimSpace(m[1])), strings.TrimSpace(m[2])
	} else {
		typ = strings.ToLower(base)
	}
	if isBlankType(typ) || id == "" {
		return sortKey{invalid: true}
	}

	k := sortKey{typ: typ}
	for _, d := range digitsRe.FindAllString(id, -1) {
		n, _ := strconv.Atoi(d)
		k.ids = append(k.ids, n)
	}
	if len(k.ids) == 0 {
		k.ids = []int{9999}
	}
	if m := herdNoRe.FindStringSubmatch(hearth); m != nil {
		k.hearth, _ = strconv.Atoi(m[1])
	}
	return k
}

func (a sortKey) less(b sortKey) bool {
	if a.invalid != b.invalid {
		return !a.invalid
	}
	if a.typ != b.typ {
		return a.typ < b.typ
	}
	for i := 0; i < len(a.ids) && i < len(b.ids); i++ {
		if a.ids[i] != b.ids[i] {
			return a.ids[i] < b.ids[i]
		}
	}
	if len(a.ids) != len(b.ids) {
		return len(a.ids) < len(b.ids)
	}
	return a.hearth < b.hearth
}

// sortSmart orders charts by device type, id and hearth; labels that do not
// look like "Type (id)" go last. Ties keep appearance order.
func sortSmart(dcs []models.DeviceChart) {
	keys := make(map[string]sortKey, len(dcs))
	for _, dc := range dcs {
		keys[dc.Device] = labelSortKey(dc.Device)
	}
	sort.SliceStable(dcs, func(i, j int) bool {
		return keys[dcs[i].Device].less(keys[dcs[j].Device])
	})
}
