package calendar

// weekdays returns the same value for Monday through Friday and empty
// strings for the weekend.
func weekdays(s string) [7]string {
	return [7]string{s, s, s, s, s, "", ""}
}

// defaultHours is the built-in market-hours table, keyed by the upstream's
// exchange codes. Exchanges absent from this table are polled at the
// user-configured interval without throttling.
var defaultHours = map[string]Hours{
	"TGT": {
		Name:  "Direkthandel",
		TZ:    "Europe/Berlin",
		Open:  weekdays("08:00"),
		Close: weekdays("22:00"),
	},
	"FRA": {
		Name:  "Frankfurt",
		TZ:    "Europe/Berlin",
		Open:  weekdays("08:00"),
		Close: weekdays("22:00"),
	},
	"STU": {
		Name:  "Stuttgart",
		TZ:    "Europe/Berlin",
		Open:  weekdays("08:00"),
		Close: weekdays("22:00"),
	},
	"DUS": {
		Name:  "Düsseldorf",
		TZ:    "Europe/Berlin",
		Open:  weekdays("08:00"),
		Close: weekdays("20:00"),
	},
	"ETR": {
		Name:  "XETRA",
		TZ:    "Europe/Berlin",
		Open:  weekdays("09:00"),
		Close: weekdays("17:30"),
	},
	"MUC": {
		Name:  "München",
		TZ:    "Europe/Berlin",
		Open:  weekdays("08:00"),
		Close: weekdays("22:00"),
	},
	"BEB": {
		Name:  "Berlin",
		TZ:    "Europe/Berlin",
		Open:  weekdays("08:00"),
		Close: weekdays("20:00"),
	},
	"HAM": {
		Name:  "Hamburg",
		TZ:    "Europe/Berlin",
		Open:  weekdays("08:00"),
		Close: weekdays("22:00"),
	},
	"HAJ": {
		Name:  "Hannover",
		TZ:    "Europe/Berlin",
		Open:  weekdays("08:00"),
		Close: weekdays("22:00"),
	},
	"UTC": {
		Name:  "Nasdaq",
		TZ:    "America/New_York",
		Open:  weekdays("09:30"),
		Close: weekdays("16:00"),
	},
	"USC": {
		Name:  "New York Stock Exchange",
		TZ:    "America/New_York",
		Open:  weekdays("09:30"),
		Close: weekdays("16:00"),
	},
}
