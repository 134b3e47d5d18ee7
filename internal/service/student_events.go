package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/noah-isme/student-service/internal/models"
	"github.com/noah-isme/student-service/internal/middleware"
)

// Student lifecycle event types.
const (
	StudentEventCreated = "student.created"
	StudentEventUpdated = "student.updated"
	StudentEventDeleted = "student.deleted"
)

// StudentEvent describes a change to a student record.
type StudentEvent struct {
	Type          string         `json:"type"`
	StudentID     string         `json:"studentId"`
	Student       models.Student `json:"student"`
	CorrelationID string         `json:"correlationId,omitempty"`
	OccurredAt    time.Time      `json:"occurredAt"`
}

// StudentEventPublisher delivers student events to interested subscribers.
type StudentEventPublisher interface {
	Publish(ctx context.Context, event StudentEvent) error
}

type natsStudentPublisher struct {
	conn   *nats.Conn
	prefix string
}

// NewNATSStudentPublisher publishes events on "<prefix>.<created|updated|deleted>".
func NewNATSStudentPublisher(conn *nats.Conn, subjectPrefix string) StudentEventPublisher {
	prefix := strings.Trim(strings.TrimSpace(subjectPrefix), ".")
	if prefix == "" {
		prefix = "students"
	}
	return &natsStudentPublisher{conn: conn, prefix: prefix}
}

func (p *natsStudentPublisher) Publish(ctx context.Context, event StudentEvent) error {
	if p.conn == nil {
		return nil
	}
	if event.CorrelationID == "" {
		event.CorrelationID = middleware.CorrelationIDFromContext(ctx)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode student event: %w", err)
	}
	return p.conn.Publish(StudentEventSubject(p.prefix, event.Type), payload)
}

// StudentEventSubject maps an event type onto a subject under prefix.
func StudentEventSubject(prefix, eventType string) string {
	action := strings.TrimPrefix(eventType, "student.")
	return prefix + "." + action
}
