package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"frontdesk/internal/codec/tracking"
	"frontdesk/internal/domain"
)

// CustomerService keeps the registration audit trail. Every registration
// appends a new row; nothing is ever updated.
type CustomerService struct {
	logs domain.AuditLogRepository
	now  func() time.Time
}

func NewCustomerService(l domain.AuditLogRepository) *CustomerService {
	return &CustomerService{logs: l, now: time.Now}
}

func (s *CustomerService) WithClock(now func() time.Time) *CustomerService {
	s.now = now
	return s
}

// Register records one registration event. An empty summary gets the
// default one-liner.
func (s *CustomerService) Register(ctx context.Context, summary string, e tracking.Event) (Registration, error) {
	e.CustomerEmail = normalizeEmail(e.CustomerEmail)
	if e.CustomerEmail == "" || !strings.Contains(e.CustomerEmail, "@") {
		return Registration{}, invalidf("customer email %q is not valid", e.CustomerEmail)
	}
	now := s.now().UTC()
	e.Version = tracking.Version
	if e.Event == "" {
		e.Event = tracking.EventCustomerRegistered
	}
	if e.Consent != nil && e.Consent.CapturedAt.IsZero() {
		e.Consent.CapturedAt = now
	}
	if strings.TrimSpace(summary) == "" {
		summary = tracking.Summary(e)
	}

	a := domain.AuditLog{
		ID:        uuid.NewString(),
		Subject:   e.CustomerEmail,
		Message:   tracking.Encode(summary, e),
		CreatedAt: now,
	}
	if err := s.logs.AppendAuditLog(ctx, a); err != nil {
		return Registration{}, fmt.Errorf("append registration for %s: %w", e.CustomerEmail, err)
	}
	log.Info().Str("audit_id", a.ID).Str("source", e.Source).Msg("customer registration recorded")
	return mapRegistration(a), nil
}

// Trail returns every registration event recorded for email, oldest first.
// Audit rows that are not registration events are skipped.
func (s *CustomerService) Trail(ctx context.Context, email string) ([]Registration, error) {
	rows, err := s.logs.ListAuditLogs(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	out := []Registration{}
	for _, a := range rows {
		if !tracking.IsTracking(a.Message) {
			continue
		}
		out = append(out, mapRegistration(a))
	}
	return out, nil
}
