package service

import (
	"fmt"
	"regexp"
	"strings"

	"oven_dashboard/internal/config"
)

var (
	deviceRe = regexp.MustCompile(`^(.*?)\s*\((.*?)\)\s*$`)
	hearthRe = regexp.MustCompile(`Herd\s*([0-9]+)`)
)

// DeviceNamer builds the chart label of a row from its device cell and message.
type DeviceNamer struct {
	gateway     string
	hearthTypes []string
	noHearth    string
	unknown     string
}

func NewDeviceNamer(cfg config.Device) *DeviceNamer {
	return &DeviceNamer{
		gateway:     cfg.GatewayName,
		hearthTypes: foldAll(cfg.HearthTypes),
		noHearth:    cfg.NoHearth,
		unknown:     cfg.UnknownLabel,
	}
}

// Label turns "MIWE ideal TC (1/1)" plus a "Herd 2" message into
// "MIWE ideal TC (1/1) - Herd 2". A nameless "(2/1)" becomes the gateway.
func (n *DeviceNamer) Label(raw, msg string) string {
	typ, id := splitDevice(raw)
	if isBlankType(typ) && strings.Contains(id, "/") {
		typ = n.gateway
	}
	if isBlankType(typ) && id == "" {
		return n.unknown
	}

	base := typ
	if id != "" {
		base = fmt.Sprintf("%s (%s)", typ, id)
	}
	if containsAny(fold(typ), n.hearthTypes) {
		hearth := n.noHearth
		if m := hearthRe.FindStringSubmatch(msg); m != nil {
			hearth = "Herd " + m[1]
		}
		return base + " - " + hearth
	}
	return base
}

func splitDevice(raw string) (typ, id string) {
	raw = strings.TrimSpace(raw)
	if m := deviceRe.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	return raw, ""
}

func isBlankType(typ string) bool {
	switch strings.ToLower(typ) {
	case "", "0", "nan":
		return true
	}
	return false
}
