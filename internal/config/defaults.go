package config

import (
	"time"

	"github.com/spf13/viper"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")

	v.SetDefault("input.path", "Ofenauswertung.csv")
	v.SetDefault("input.timezone", "Local")

	v.SetDefault("dialect.encodings", []string{"utf-8-sig", "cp1252", "latin1"})
	v.SetDefault("dialect.delimiters", []string{";", ",", "\t"})
	v.SetDefault("dialect.min_columns", 2)

	v.SetDefault("columns.timestamp", []string{"datum", "zeit", "timestamp", "date"})
	v.SetDefault("columns.device", []string{"ger", "gerät", "ger„t", "device"})
	v.SetDefault("columns.message", []string{"meld", "message"})
	v.SetDefault("columns.setpoint", []string{"soll", "setpoint"})
	v.SetDefault("columns.actual", []string{"ist", "actual"})

	v.SetDefault("normalize.split_layout", "06/01/02 15:04:05")
	v.SetDefault("normalize.time_layouts", []string{
		"02.01.2006 15:04:05",
		"02.01.2006 15:04",
		"02.01.06 15:04:05",
		"02.01.06 15:04",
		"02/01/2006 15:04:05",
		"02/01/2006 15:04",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		time.RFC3339,
		"02.01.2006",
		"2006-01-02",
	})

	v.SetDefault("phase.preheat_keywords", []string{"aufheiz", "vorheiz", "arbeitsprog", "preheat"})
	v.SetDefault("phase.runtime_keywords", []string{"betrieb", "programm gestartet", "runtime"})
	v.SetDefault("phase.end_keywords", []string{"programmende", "programm beendet", "programm gestoppt"})
	v.SetDefault("phase.sticky", false)
	v.SetDefault("phase.min_duration", time.Minute)

	v.SetDefault("device.gateway_name", "MIWE gateway")
	v.SetDefault("device.hearth_types", []string{"miwe ideal tc"})
	v.SetDefault("device.no_hearth", "kein Herd")
	v.SetDefault("device.unknown_label", "unbekannt")

	v.SetDefault("chart.height", "350px")
	v.SetDefault("chart.y_min", 0.0)
	v.SetDefault("chart.y_max", 350.0)
	v.SetDefault("chart.preheat_color", "rgba(255,0,0,0.3)")
	v.SetDefault("chart.runtime_color", "rgba(0,200,0,0.3)")
	v.SetDefault("chart.actual_color", "orange")
	v.SetDefault("chart.setpoint_color", "blue")
	v.SetDefault("chart.cycle_start_hour", -1)
	v.SetDefault("chart.assets_host", "https://cdn.jsdelivr.net/npm/echarts@5.5.1/dist/")
	v.SetDefault("chart.script_integrity", "")

	v.SetDefault("dashboard.title", "Ofen-Dashboard")
	v.SetDefault("dashboard.output", "ofen_dashboard.html")
	v.SetDefault("dashboard.fragments_dir", "")
	v.SetDefault("dashboard.order", OrderAppearance)

	v.SetDefault("export.report", "")
	v.SetDefault("export.sqlite", "")
}
