// Package calendar implements the Market Calendar component.
//
// The Market Calendar:
//   - Maps exchange codes to weekly open/close schedules with IANA timezones
//   - Answers Open/Closed/Unknown for any exchange code and instant
//   - Is a pure lookup: no I/O, no mutable state, safe per refresh cycle
//
// An exchange code without a table entry is always Unknown, never Closed.
// Unknown tells the coordinator to skip market-hour throttling entirely and
// poll at the user-configured interval.
package calendar
