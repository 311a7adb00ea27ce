/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the domain model from
  the wire contract. Counter fields on requests are deliberately untyped
  (any): clients send numbers, numeric strings or nothing at all, and the
  domain coercion turns each one into a count without failing the call.

NAMING CONVENTION:
  - *DTO: response types returned to clients
  - *Request: request body types from clients

SEE ALSO:
  - handlers.go: uses these types
  - stats/reconcile.go: CoerceCounters leniency
*/
package api

import (
	"time"

	"github.com/Tiavinjanahary/STT/stats"
)

// StatDTO is a daily record in API responses: raw counters plus the three
// derived metrics, computed fresh at serialization time.
type StatDTO struct {
	ID   string `json:"id"`
	Date string `json:"date"`

	Appel    int `json:"appel"`
	Jira     int `json:"jira"`
	Mail     int `json:"mail"`
	Escalade int `json:"escalade"`
	P1       int `json:"p1"`
	P2       int `json:"p2"`
	P3       int `json:"p3"`
	P4       int `json:"p4"`

	Total   int `json:"total"`
	Traite  int `json:"traite"`
	EnCours int `json:"en_cours"`

	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// NewStatDTO serializes a record, deriving total/traite/en_cours from the
// raw counters at this moment.
func NewStatDTO(rec stats.DailyRecord) StatDTO {
	dto := StatDTO{
		ID:       rec.ID,
		Date:     rec.Date.String(),
		Appel:    rec.Appel,
		Jira:     rec.Jira,
		Mail:     rec.Mail,
		Escalade: rec.Escalade,
		P1:       rec.P1,
		P2:       rec.P2,
		P3:       rec.P3,
		P4:       rec.P4,
		Total:    rec.Total(),
		Traite:   rec.Traite(),
		EnCours:  rec.EnCours(),
	}
	if !rec.CreatedAt.IsZero() {
		dto.CreatedAt = rec.CreatedAt.Format(time.RFC3339)
	}
	if !rec.UpdatedAt.IsZero() {
		dto.UpdatedAt = rec.UpdatedAt.Format(time.RFC3339)
	}
	return dto
}

// NewStatDTOs serializes a record list, never returning nil.
func NewStatDTOs(records []stats.DailyRecord) []StatDTO {
	dtos := make([]StatDTO, len(records))
	for i, rec := range records {
		dtos[i] = NewStatDTO(rec)
	}
	return dtos
}

// UpsertStatRequest is the body of the add and update endpoints. Date is
// ignored on updates (a record never changes its day).
type UpsertStatRequest struct {
	Date     string `json:"date"`
	Appel    any    `json:"appel"`
	Jira     any    `json:"jira"`
	Mail     any    `json:"mail"`
	Escalade any    `json:"escalade"`
	P1       any    `json:"p1"`
	P2       any    `json:"p2"`
	P3       any    `json:"p3"`
	P4       any    `json:"p4"`
}

// Fields returns the request counters as a coercible field bag.
func (r UpsertStatRequest) Fields() stats.FieldValues {
	return stats.FieldValues{
		"appel":    r.Appel,
		"jira":     r.Jira,
		"mail":     r.Mail,
		"escalade": r.Escalade,
		"p1":       r.P1,
		"p2":       r.P2,
		"p3":       r.P3,
		"p4":       r.P4,
	}
}

// TotalsDTO is the aggregated summary in API responses.
type TotalsDTO struct {
	Appel    int `json:"appel"`
	Jira     int `json:"jira"`
	Mail     int `json:"mail"`
	Escalade int `json:"escalade"`
	P1       int `json:"p1"`
	P2       int `json:"p2"`
	P3       int `json:"p3"`
	P4       int `json:"p4"`
	Total    int `json:"total"`
	Traite   int `json:"traite"`
	EnCours  int `json:"en_cours"`
}

func NewTotalsDTO(t stats.TotalsSummary) TotalsDTO {
	return TotalsDTO{
		Appel:    t.Appel,
		Jira:     t.Jira,
		Mail:     t.Mail,
		Escalade: t.Escalade,
		P1:       t.P1,
		P2:       t.P2,
		P3:       t.P3,
		P4:       t.P4,
		Total:    t.Total,
		Traite:   t.Traite,
		EnCours:  t.EnCours,
	}
}

// ImportResponse reports how many day columns an import reconciled.
type ImportResponse struct {
	Imported int    `json:"imported"`
	Message  string `json:"message"`
}

// SeedWeekResponse reports how many weekdays were newly inserted.
type SeedWeekResponse struct {
	Inserted int `json:"inserted"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
