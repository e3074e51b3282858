package nats

import (
	"fmt"
	"strings"
	"time"
)

// Stream and subjects
const (
	StreamName    = "CONTENT_EVENTS"
	SubjectPrefix = "content"

	// content.<entity>.<action>
	SubjectAll = SubjectPrefix + ".>"
)

// Subject สร้าง subject ของ event เช่น content.category.moved
func Subject(entity, action string) string {
	return fmt.Sprintf("%s.%s.%s", SubjectPrefix, entity, action)
}

// EntitySubject คือ subject ของทุก action ของ entity เดียว ("" = ทุก entity)
func EntitySubject(entity string) string {
	if entity == "" {
		return SubjectAll
	}
	return fmt.Sprintf("%s.%s.*", SubjectPrefix, entity)
}

// ParseSubject แยก entity / action จาก subject
func ParseSubject(subject string) (entity, action string, ok bool) {
	parts := strings.Split(subject, ".")
	if len(parts) != 3 || parts[0] != SubjectPrefix {
		return "", "", false
	}
	return parts[1], parts[2], true
}

// ═══════════════════════════════════════════════════════════════════════════════
// ContentEventMessage - API → consumers (via JetStream)
// ⚠️ โครงสร้างนี้คือ wire format ที่ consumer ภายนอกอ่าน
// ═══════════════════════════════════════════════════════════════════════════════
type ContentEventMessage struct {
	Entity     string   `json:"entity"`
	Action     string   `json:"action"`
	IDs        []string `json:"ids"`
	OccurredAt int64    `json:"occurred_at"` // unix millis
	Source     string   `json:"source,omitempty"`
}

func (m *ContentEventMessage) Time() time.Time {
	return time.UnixMilli(m.OccurredAt).UTC()
}

// ═══════════════════════════════════════════════════════════════════════════════
// JetStream Status - สำหรับ health endpoint
// ═══════════════════════════════════════════════════════════════════════════════
type StreamStatus struct {
	Name     string `json:"name"`
	Messages uint64 `json:"messages"`
	Bytes    uint64 `json:"bytes"`
	FirstSeq uint64 `json:"first_seq"`
	LastSeq  uint64 `json:"last_seq"`
}
