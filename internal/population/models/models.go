// Package models defines the population fact row, the displacement categories,
// and the parameter/result types of the aggregation queries.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category classifies a displaced population. Stored and compared as a string tag.
type Category string

const (
	CategoryRefugees            Category = "REFUGEES"
	CategoryAsylumSeekers       Category = "ASYLUM_SEEKERS"
	CategoryInternallyDisplaced Category = "INTERNALLY_DISPLACED"
	CategoryPeopleOfConcern     Category = "PEOPLE_OF_CONCERN"
)

// Categories lists every known category in presentation order.
var Categories = []Category{
	CategoryRefugees,
	CategoryAsylumSeekers,
	CategoryInternallyDisplaced,
	CategoryPeopleOfConcern,
}

// ParseCategory resolves a case-insensitive category name.
func ParseCategory(name string) (Category, error) {
	tag := Category(strings.ToUpper(strings.TrimSpace(name)))
	for _, c := range Categories {
		if c == tag {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", name)
}

func (c Category) String() string { return string(c) }

// Role selects which foreign key of the fact table a query joins the country
// dimension on. Every aggregation comes in two mirrored forms that differ only
// in this join column.
type Role int

const (
	// RoleOrigin joins on country_id (country of origin).
	RoleOrigin Role = iota
	// RoleArrival joins on country_arrival_id (country of arrival).
	RoleArrival
)

func (r Role) String() string {
	if r == RoleArrival {
		return "arrival"
	}
	return "origin"
}

// Record is one population movement fact: Number people of Category moved from
// CountryID to CountryArrivalID in Year. The same (origin, arrival, year,
// category) combination may appear on multiple rows and is summed on read.
type Record struct {
	ID               uuid.UUID
	Number           int64
	Year             int32
	Category         Category
	CountryID        uuid.UUID
	CountryArrivalID uuid.UUID
	Created          time.Time
}

// YearCount is one time-series result row.
type YearCount struct {
	Number uint64 `json:"number"`
	Year   int32  `json:"year"`
}

// CountryCount is one country-ranking result row. ISO2 is nil only for the
// synthetic "Others" remainder row.
type CountryCount struct {
	Number uint64  `json:"number"`
	Name   string  `json:"name"`
	ISO2   *string `json:"iso_2"`
}

// OthersName labels the remainder bucket of a top-N ranking.
const OthersName = "Others"

// TopN is how many ranked rows a folded ranking keeps before the remainder
// collapses into the "Others" bucket.
const TopN = 10

// Query parameterizes one aggregation. The zero value means "no filter" for
// every field.
//
// Role reads differently per query shape:
//   - rankings group countries on the Role side; Country optionally restricts
//     the ranked side and Counterpart fixes the opposite side;
//   - year series hold the Role-side country fixed via Country; Counterpart
//     additionally fixes the opposite side for bilateral series.
type Query struct {
	Role        Role
	Year        int32    // 0 = all years
	Category    Category // "" = all categories
	Country     string   // ISO-2 fixed on the Role side
	Counterpart string   // ISO-2 fixed on the opposite side
}

// CacheKey renders the query as a stable cache key fragment.
func (q Query) CacheKey() string {
	return fmt.Sprintf("%s:%d:%s:%s:%s",
		q.Role, q.Year, q.Category, strings.ToUpper(q.Country), strings.ToUpper(q.Counterpart))
}
