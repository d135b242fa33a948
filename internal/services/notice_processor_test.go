package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"rentbook/internal/amqp"
	"rentbook/internal/core"
	"rentbook/internal/storage"
)

type fakeNoticePublisher struct {
	notices []*amqp.DueNoticeMessage
	err     error
}

func (f *fakeNoticePublisher) PublishDueNotice(_ context.Context, msg *amqp.DueNoticeMessage) error {
	if f.err != nil {
		return f.err
	}
	f.notices = append(f.notices, msg)
	return nil
}

func TestNoticeScanPublishesForUnpaidTenants(t *testing.T) {
	repo := storage.NewMemoryRepository()
	seedTenant(t, repo, "t-paid", 100000, core.NewDate(2024, time.January, 1))
	seedTenant(t, repo, "t-short", 100000, core.NewDate(2024, time.January, 1))
	seedTenant(t, repo, "t-future", 100000, core.NewDate(2024, time.September, 1))
	seedPayment(t, repo, "p-1", "t-paid", 100000, core.NewDate(2024, time.June, 1))
	seedPayment(t, repo, "p-2", "t-short", 40000, core.NewDate(2024, time.June, 3))

	pub := &fakeNoticePublisher{}
	proc := NewNoticeProcessor(repo, repo, pub, fixedClock(2024, time.June, 15))

	if err := proc.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(pub.notices) != 1 {
		t.Fatalf("notices = %d, want 1", len(pub.notices))
	}
	notice := pub.notices[0]
	if notice.TenantID != "t-short" {
		t.Fatalf("notice tenant = %q", notice.TenantID)
	}
	if notice.Month != "2024-06" {
		t.Fatalf("notice month = %q", notice.Month)
	}
	if notice.PendingCents != 60000 {
		t.Fatalf("pending cents = %d", notice.PendingCents)
	}
}

func TestNoticeScanReportsPublishFailures(t *testing.T) {
	repo := storage.NewMemoryRepository()
	seedTenant(t, repo, "t-short", 100000, core.NewDate(2024, time.January, 1))

	pub := &fakeNoticePublisher{err: errors.New("broker down")}
	proc := NewNoticeProcessor(repo, repo, pub, fixedClock(2024, time.June, 15))

	if err := proc.Run(context.Background()); err == nil {
		t.Fatalf("expected error when publishing fails")
	}
}

func TestNoticeScanEmptyStore(t *testing.T) {
	repo := storage.NewMemoryRepository()
	pub := &fakeNoticePublisher{}
	proc := NewNoticeProcessor(repo, repo, pub, fixedClock(2024, time.June, 15))

	if err := proc.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(pub.notices) != 0 {
		t.Fatalf("no notices expected, got %d", len(pub.notices))
	}
}
