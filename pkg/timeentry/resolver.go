package timeentry

import "sort"

type entryKey struct {
	employeeId int
	date       string
	kind       Kind
}

// ResolveCurrent reduces an append-only log to the current value per
// (employee, date, kind): the entry with the latest CreatedAt wins, ties
// broken by the higher ID since IDs are assigned in insertion order. A
// current value of 0 minutes is kept in the result; it means "no time
// recorded" and is how deletions appear in the log.
//
// The reducer is pure. Call sites must never walk the raw log themselves.
func ResolveCurrent(entries []Entry) []Entry {
	latest := make(map[entryKey]Entry, len(entries))
	for _, e := range entries {
		key := entryKey{e.EmployeeID, e.Date.Format("2006-01-02"), e.Kind}
		prev, ok := latest[key]
		if !ok {
			latest[key] = e
			continue
		}
		if e.CreatedAt.After(prev.CreatedAt) || (e.CreatedAt.Equal(prev.CreatedAt) && e.ID > prev.ID) {
			latest[key] = e
		}
	}

	current := make([]Entry, 0, len(latest))
	for _, e := range latest {
		current = append(current, e)
	}
	sort.Slice(current, func(i, j int) bool {
		if !current[i].Date.Equal(current[j].Date) {
			return current[i].Date.Before(current[j].Date)
		}
		return current[i].Kind < current[j].Kind
	})
	return current
}
