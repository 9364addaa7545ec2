package service

import (
	"testing"

	"oven_dashboard/internal/models"

	"github.com/google/go-cmp/cmp"
)

func TestSortSmart(t *testing.T) {
	t.Parallel()

	labels := []string{
		"MIWE ideal TC (2/1) - Herd 1",
		"unbekannt",
		"MIWE ideal TC (1/1) - Herd 2",
		"MIWE ideal TC (10/1) - kein Herd",
		"MIWE ideal TC (1/1) - Herd 1",
		"Ofen1",
		"MIWE gateway (2/1)",
	}
	dcs := make([]models.DeviceChart, len(labels))
	for i, l := range labels {
		dcs[i] = models.DeviceChart{Device: l}
	}

	sortSmart(dcs)

	var got []string
	for _, dc := range dcs {
		got = append(got, dc.Device)
	}
	want := []string{
		"MIWE gateway (2/1)",
		"MIWE ideal TC (1/1) - Herd 1",
		"MIWE ideal TC (1/1) - Herd 2",
		"MIWE ideal TC (2/1) - Herd 1",
		"MIWE ideal TC (10/1) - kein Herd",
		"unbekannt",
		"Ofen1",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestLabelSortKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		label string
		want  sortKey
	}{
		{"MIWE ideal TC (1/2) - Herd 3", sortKey{typ: "miwe ideal tc", ids: []int{1, 2}, hearth: 3}},
		{"Stikkenofen (A)", sortKey{typ: "stikkenofen", ids: []int{9999}}},
		{"(1/1)", sortKey{invalid: true}},
		{"Ofen1", sortKey{invalid: true}},
	}
	for _, tt := range tests {
		got := labelSortKey(tt.label)
		if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(sortKey{})); diff != "" {
			t.Fatalf("labelSortKey(%q) mismatch (-want +got):\n%s", tt.label, diff)
		}
	}
}
