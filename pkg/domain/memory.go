package domain

// MemorySource records the video a preference was learned from.
type MemorySource struct {
	VideoID    string `json:"videoId"`
	VideoTitle string `json:"videoTitle"`
	Timestamp  *int   `json:"timestamp,omitempty"` // seconds into the video, when known
	AddedAt    int64  `json:"addedAt"`             // unix milliseconds
}

// MemoryEntry is a learned user preference with provenance. Within one type no
// two entries should describe materially the same preference; the
// similarity-check-then-merge protocol enforces this at write time rather than
// any uniqueness constraint.
type MemoryEntry struct {
	ID            string         `json:"id"`
	Type          FeedbackType   `json:"type"`
	Preference    string         `json:"preference"`
	Confidence    float64        `json:"confidence"` // 0..1
	Sources       []MemorySource `json:"sources"`
	ExtractedFrom string         `json:"extractedFrom"` // "summary", "content" or "tags"
	CreatedAt     int64          `json:"createdAt"`
	UpdatedAt     *int64         `json:"updatedAt,omitempty"`
}

// HasSource reports whether the entry already references the given video.
func (m *MemoryEntry) HasSource(videoID string) bool {
	for _, s := range m.Sources {
		if s.VideoID == videoID {
			return true
		}
	}
	return false
}

// AddSource appends a source unless the video is already referenced.
func (m *MemoryEntry) AddSource(src MemorySource) {
	if m.HasSource(src.VideoID) {
		return
	}
	m.Sources = append(m.Sources, src)
}

// FilterMemories returns the entries matching the given feedback type.
func FilterMemories(memories []MemoryEntry, t FeedbackType) []MemoryEntry {
	var out []MemoryEntry
	for _, m := range memories {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}
