package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/ifex-stack/kickbook-sub000/internal/booking"
)

const icsTimeLayout = "20060102T150405Z"

// Feed renders the bookings as an iCalendar document consumable by any
// calendar app that supports subscription URLs.
func Feed(bookings []booking.Booking, generatedAt time.Time) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//KickBook//Match Calendar//EN\r\n")
	b.WriteString("CALSCALE:GREGORIAN\r\n")
	b.WriteString("X-WR-CALNAME:KickBook Matches\r\n")

	for _, bk := range bookings {
		if bk.Status == booking.StatusCancelled {
			continue
		}
		b.WriteString("BEGIN:VEVENT\r\n")
		fmt.Fprintf(&b, "UID:booking-%d@kickbook.app\r\n", bk.ID)
		fmt.Fprintf(&b, "DTSTAMP:%s\r\n", generatedAt.UTC().Format(icsTimeLayout))
		fmt.Fprintf(&b, "DTSTART:%s\r\n", bk.StartsAt.UTC().Format(icsTimeLayout))
		fmt.Fprintf(&b, "DTEND:%s\r\n", bk.EndsAt.UTC().Format(icsTimeLayout))
		fmt.Fprintf(&b, "SUMMARY:%s\r\n", escapeText(bk.Title))
		if bk.Location != "" {
			fmt.Fprintf(&b, "LOCATION:%s\r\n", escapeText(bk.Location))
		}
		fmt.Fprintf(&b, "DESCRIPTION:%d-a-side match\r\n", bk.Format)
		b.WriteString("END:VEVENT\r\n")
	}

	b.WriteString("END:VCALENDAR\r\n")
	return b.String()
}

// escapeText applies RFC 5545 text escaping.
func escapeText(s string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\n", "\\n",
	)
	return r.Replace(s)
}
