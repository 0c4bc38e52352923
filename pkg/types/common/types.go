// Package common holds identifiers and request/response types shared across
// service layers.
package common

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ID is a string alias for UUID v4.
type ID string

// NewID generates a fresh random ID.
func NewID() ID {
	return ID(uuid.New().String())
}

// GenerateID generates an ID with a readable prefix, e.g. "job_<uuid>".
func GenerateID(prefix string) string {
	if prefix == "" {
		return uuid.New().String()
	}
	return prefix + "_" + uuid.New().String()
}

// Validate checks that the ID parses as a UUID.
func (id ID) Validate() error {
	if id == "" {
		return fmt.Errorf("id is empty")
	}
	if _, err := uuid.Parse(string(id)); err != nil {
		return fmt.Errorf("invalid id %q: %w", id, err)
	}
	return nil
}

func (id ID) String() string { return string(id) }

// Metadata is an open-ended key-value bag.
type Metadata map[string]interface{}

// Pagination is a page/page-size request.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)

// Normalize clamps the pagination to sane bounds.
func (p Pagination) Normalize() Pagination {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the zero-based item offset for the page.
func (p Pagination) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PageSize
}

// PageResponse is a paginated list response.
type PageResponse[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
	Total      int64      `json:"total"`
}

// HealthStatus is the tri-state health of a component.
type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthDegraded  HealthStatus = "degraded"
	HealthUnhealthy HealthStatus = "unhealthy"
)

// ComponentHealth reports one dependency's health for readiness responses.
type ComponentHealth struct {
	Name      string       `json:"name"`
	Status    HealthStatus `json:"status"`
	LatencyMs int64        `json:"latency_ms,omitempty"`
	Error     string       `json:"error,omitempty"`
	CheckedAt time.Time    `json:"checked_at"`
}

// Timestamp marshals as Unix milliseconds.
type Timestamp time.Time

func NewTimestamp() Timestamp { return Timestamp(time.Now().UTC()) }

func (t Timestamp) ToUnixMilli() int64 {
	return time.Time(t).UnixMilli()
}

func FromUnixMilli(msec int64) Timestamp {
	return Timestamp(time.UnixMilli(msec).UTC())
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.ToUnixMilli())
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var msec int64
	if err := json.Unmarshal(data, &msec); err != nil {
		return err
	}
	*t = FromUnixMilli(msec)
	return nil
}
