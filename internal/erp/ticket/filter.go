package ticket

import (
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// StatusAll disables the status clause.
const StatusAll = "All"

// Record is what the filter needs from a ticket. Both ticket entities
// implement it; sales tickets report an empty status.
type Record interface {
	TicketID() string
	TicketDate() string
	TicketStatus() string
	SearchFields() []string
}

// Query 列表筛选条件，各条件之间为 AND
type Query struct {
	Status   string `json:"status"`
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
	Search   string `json:"search"`
}

// QueryFromValues 解析 ?status=&date_from=&date_to=&search=
func QueryFromValues(v url.Values) Query {
	q := Query{
		Status:   v.Get("status"),
		DateFrom: v.Get("date_from"),
		DateTo:   v.Get("date_to"),
		Search:   v.Get("search"),
	}
	if q.Status == "" {
		q.Status = StatusAll
	}
	return q
}

// Filter returns the tickets matching every active clause of q, in their
// original order. Empty or unparsable query dates leave that bound open. The
// upper bound includes the whole DateTo day.
func Filter[T Record](tickets []T, q Query) []T {
	from, hasFrom := parseDate(q.DateFrom)
	to, hasTo := parseDate(q.DateTo)
	if hasTo {
		to = to.AddDate(0, 0, 1)
	}

	lower := cases.Lower(language.Und)
	term := lower.String(q.Search)
	status := q.Status != "" && q.Status != StatusAll

	out := make([]T, 0, len(tickets))
	for _, t := range tickets {
		if status && t.TicketStatus() != q.Status {
			continue
		}
		if hasFrom || hasTo {
			d, ok := parseDate(t.TicketDate())
			if !ok {
				continue
			}
			if hasFrom && d.Before(from) {
				continue
			}
			if hasTo && !d.Before(to) {
				continue
			}
		}
		if term != "" && !matches(lower, t.SearchFields(), term) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matches(lower cases.Caser, fields []string, term string) bool {
	for _, f := range fields {
		if strings.Contains(lower.String(f), term) {
			return true
		}
	}
	return false
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
