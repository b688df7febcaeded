package repository

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/vidscope/vidscope/pkg/domain"
)

// scanJSON decodes a TEXT/BLOB column into dst
func scanJSON(value interface{}, dst interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported column type %T", value)
	}
}

// analysisJSON stores a VideoAnalysis as a JSON column
type analysisJSON domain.VideoAnalysis

func (a analysisJSON) Value() (driver.Value, error) {
	data, err := json.Marshal(domain.VideoAnalysis(a))
	if err != nil {
		return nil, fmt.Errorf("marshal analysis: %w", err)
	}
	return string(data), nil
}

func (a *analysisJSON) Scan(value interface{}) error {
	return scanJSON(value, (*domain.VideoAnalysis)(a))
}

// sourcesJSON stores memory sources as a JSON column
type sourcesJSON []domain.MemorySource

func (s sourcesJSON) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]domain.MemorySource(s))
	if err != nil {
		return nil, fmt.Errorf("marshal sources: %w", err)
	}
	return string(data), nil
}

func (s *sourcesJSON) Scan(value interface{}) error {
	return scanJSON(value, (*[]domain.MemorySource)(s))
}

// resourcesJSON stores related resources as a JSON column
type resourcesJSON []domain.RelatedResource

func (r resourcesJSON) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]domain.RelatedResource(r))
	if err != nil {
		return nil, fmt.Errorf("marshal resources: %w", err)
	}
	return string(data), nil
}

func (r *resourcesJSON) Scan(value interface{}) error {
	return scanJSON(value, (*[]domain.RelatedResource)(r))
}

// videosJSON stores session videos as a JSON column
type videosJSON []domain.SessionVideo

func (v videosJSON) Value() (driver.Value, error) {
	if v == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]domain.SessionVideo(v))
	if err != nil {
		return nil, fmt.Errorf("marshal session videos: %w", err)
	}
	return string(data), nil
}

func (v *videosJSON) Scan(value interface{}) error {
	return scanJSON(value, (*[]domain.SessionVideo)(v))
}

// stringsJSON stores a string slice as a JSON column
type stringsJSON []string

func (s stringsJSON) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(s))
	if err != nil {
		return nil, fmt.Errorf("marshal strings: %w", err)
	}
	return string(data), nil
}

func (s *stringsJSON) Scan(value interface{}) error {
	return scanJSON(value, (*[]string)(s))
}

// bucketsJSON stores per-category aggregates as a JSON column
type bucketsJSON map[string]domain.CategoryBucket

func (b bucketsJSON) Value() (driver.Value, error) {
	if b == nil {
		return "{}", nil
	}
	data, err := json.Marshal(map[string]domain.CategoryBucket(b))
	if err != nil {
		return nil, fmt.Errorf("marshal category buckets: %w", err)
	}
	return string(data), nil
}

func (b *bucketsJSON) Scan(value interface{}) error {
	return scanJSON(value, (*map[string]domain.CategoryBucket)(b))
}

// countsJSON stores a string->int map as a JSON column
type countsJSON map[string]int

func (c countsJSON) Value() (driver.Value, error) {
	if c == nil {
		return "{}", nil
	}
	data, err := json.Marshal(map[string]int(c))
	if err != nil {
		return nil, fmt.Errorf("marshal counts: %w", err)
	}
	return string(data), nil
}

func (c *countsJSON) Scan(value interface{}) error {
	return scanJSON(value, (*map[string]int)(c))
}
