package domain

import (
	"fmt"
	"time"
)

// DateKind identifies how much of a publication date a provider supplied.
type DateKind string

const (
	DateKindFullDate  DateKind = "full_date"
	DateKindYearMonth DateKind = "year_month"
	DateKindYearOnly  DateKind = "year_only"
	DateKindUnparsed  DateKind = "unparsed"
)

// PublishedDate is a tagged representation of the free-text publication
// dates returned by metadata providers. Providers send anything from a
// full ISO date down to a bare year or an arbitrary string; the kind
// records which shape was recognized and Raw always preserves the
// original text.
type PublishedDate struct {
	Kind  DateKind `json:"kind"`
	Year  int      `json:"year,omitempty"`
	Month int      `json:"month,omitempty"`
	Day   int      `json:"day,omitempty"`
	Raw   string   `json:"raw"`
}

// ParsePublishedDate classifies a provider-supplied date string.
// Recognized layouts are "2006-01-02", "2006-01", and "2006"; anything
// else becomes Unparsed with the raw text intact.
func ParsePublishedDate(raw string) PublishedDate {
	if raw == "" {
		return PublishedDate{Kind: DateKindUnparsed, Raw: ""}
	}

	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return PublishedDate{
			Kind:  DateKindFullDate,
			Year:  t.Year(),
			Month: int(t.Month()),
			Day:   t.Day(),
			Raw:   raw,
		}
	}

	if t, err := time.Parse("2006-01", raw); err == nil {
		return PublishedDate{
			Kind:  DateKindYearMonth,
			Year:  t.Year(),
			Month: int(t.Month()),
			Raw:   raw,
		}
	}

	if t, err := time.Parse("2006", raw); err == nil {
		return PublishedDate{
			Kind: DateKindYearOnly,
			Year: t.Year(),
			Raw:  raw,
		}
	}

	return PublishedDate{Kind: DateKindUnparsed, Raw: raw}
}

// String renders the date at the precision it was parsed with.
func (d PublishedDate) String() string {
	switch d.Kind {
	case DateKindFullDate:
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	case DateKindYearMonth:
		return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
	case DateKindYearOnly:
		return fmt.Sprintf("%04d", d.Year)
	default:
		return d.Raw
	}
}

// IsZero reports whether no date information is present at all.
func (d PublishedDate) IsZero() bool {
	return d.Kind == "" || (d.Kind == DateKindUnparsed && d.Raw == "")
}
