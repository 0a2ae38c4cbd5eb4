package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fullbalance/internal/analytics"
	"fullbalance/internal/core"
)

const dateLayout = "2006-01-02"

type transactionPayload struct {
	Title     string `json:"title"`
	Amount    string `json:"amount"`
	Date      string `json:"date"`
	Kind      string `json:"kind"`
	Category  string `json:"category"`
	AccountID string `json:"account_id"`
}

// toCore converts the payload into a validated-shape domain record.
// Validation proper happens in the service layer.
func (p transactionPayload) toCore(ownerID, id string) (core.Transaction, error) {
	amount, err := core.ParseAmount(p.Amount)
	if err != nil {
		return core.Transaction{}, err
	}

	date, err := parseDate(p.Date)
	if err != nil {
		return core.Transaction{}, err
	}

	return core.Transaction{
		ID:        id,
		OwnerID:   ownerID,
		Title:     sanitizeInput(p.Title),
		Amount:    amount,
		Date:      date,
		Kind:      core.TransactionKind(strings.ToLower(strings.TrimSpace(p.Kind))),
		Category:  sanitizeInput(p.Category),
		AccountID: strings.TrimSpace(p.AccountID),
	}, nil
}

type accountPayload struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type themePayload struct {
	Color string `json:"color"`
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// parseCriteria reads filter parameters from the query string. Absent
// parameters leave their predicate inactive.
func parseCriteria(query url.Values) (analytics.Criteria, error) {
	c := analytics.Criteria{
		Kind:      strings.TrimSpace(query.Get("kind")),
		AccountID: strings.TrimSpace(query.Get("account_id")),
		Search:    strings.TrimSpace(query.Get("search")),
	}

	if c.Kind != "" && c.Kind != analytics.KindAll && !core.TransactionKind(c.Kind).IsValid() {
		return analytics.Criteria{}, fmt.Errorf("invalid kind %q", c.Kind)
	}

	if v := strings.TrimSpace(query.Get("start")); v != "" {
		start, err := time.Parse(dateLayout, v)
		if err != nil {
			return analytics.Criteria{}, fmt.Errorf("invalid start date %q", v)
		}
		c.Start = analytics.StartOfDay(start)
	}
	if v := strings.TrimSpace(query.Get("end")); v != "" {
		end, err := time.Parse(dateLayout, v)
		if err != nil {
			return analytics.Criteria{}, fmt.Errorf("invalid end date %q", v)
		}
		c.End = analytics.EndOfDay(end)
	}

	return c, nil
}

type pagination struct {
	Page     int
	PageSize int
}

func parsePagination(query url.Values) pagination {
	p := pagination{Page: 1, PageSize: 20}

	if v := strings.TrimSpace(query.Get("page")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.Page = n
		}
	}
	if v := strings.TrimSpace(query.Get("page_size")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			p.PageSize = n
		}
	}
	return p
}

// slice returns the page bounds clamped to the list length.
func (p pagination) slice(total int) (int, int) {
	start := (p.Page - 1) * p.PageSize
	if start > total {
		start = total
	}
	end := start + p.PageSize
	if end > total {
		end = total
	}
	return start, end
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, core.ErrInvalidDate
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	// Bare dates land at noon UTC so day-boundary filters behave the same
	// in every timezone.
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC), nil
}

// sanitizeInput trims whitespace and strips control characters except tab,
// newline and carriage return.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
