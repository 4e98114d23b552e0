// Package domain models NAV CANADA upper-wind forecasts and reshapes them into
// time-of-day buckets.
//
// # Data Source
//
// Forecasts come from the NAV CANADA weather API alpha-numeric endpoint,
// queried per site with the "upperwind" product:
//
//	https://plan.navcanada.ca/weather/api/alpha/?site=CYYU&alpha=upperwind
//
// The response is a JSON object whose "data" array holds one entry per
// forecast issue. Each entry carries a validity window and a "text" member.
//
// # Vendor Conventions
//
// Validity timestamps:
//
//	ISO-8601, e.g. "2024-01-15T06:00:00". The wall clock of the string as
//	written is what classifies an entry; no timezone conversion is applied.
//
// Text member:
//
//	A string holding a JSON array. Only the last element matters: it is the
//	list of wind levels, and it supersedes anything before it in the array.
//
//	  "[\"FBCN31\", [[3000,250,10,null,0],[6000,260,15,-4,0]]]"
//
// Wind level tuple:
//
//	[altitude, heading, wind, temperature, unused]
//	Altitude in feet, heading in degrees true, wind in knots, temperature in
//	degrees Celsius. Heading, wind and temperature may be null (not
//	forecast at that level, e.g. no temperature at 3000 ft) and are stored
//	as 0. The fifth element is dropped.
//
// # Period Buckets
//
// Entries are bucketed by the time of day of their start validity:
//
//	AM     05:00 <= t < 09:00
//	PM     09:00 <= t < 18:00
//	NIGHT  t >= 18:00 or t < 05:00
//
// The three ranges are half-open and cover the whole day, so every entry with
// a readable start time lands in exactly one bucket. See [PeriodOf].
package domain
