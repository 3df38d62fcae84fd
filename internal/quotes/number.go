package quotes

import "time"

// numberLayout keeps quote numbers sortable with wall-clock time while
// using only filename- and URL-safe characters.
const numberLayout = "2006-01-02_15-04-05"

// Number mints a human-readable quote number from the given time, e.g.
// QT-2025-08-31_14-22-05. Two quotes created within the same second get
// the same number; ids stay unique regardless.
func Number(now time.Time) string {
	return "QT-" + now.Format(numberLayout)
}
