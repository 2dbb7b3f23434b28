package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rishavk21/UrbanCart-backend/services/notification-service/models"
	"github.com/rishavk21/UrbanCart-backend/services/notification-service/sender"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSender struct {
	calls    int
	failures int
	lastTo   string
	lastSubj string
	lastBody string
}

func (f *fakeSender) Send(_ context.Context, to, subject, body string) (sender.SendResult, error) {
	f.calls++
	if f.calls <= f.failures {
		return sender.SendResult{}, errors.New("relay unavailable")
	}
	f.lastTo = to
	f.lastSubj = subject
	f.lastBody = body
	return sender.SendResult{MessageID: "msg-1"}, nil
}

type fakeRepo struct {
	logs []*models.NotificationLog
}

func (f *fakeRepo) Create(_ context.Context, log *models.NotificationLog) error {
	f.logs = append(f.logs, log)
	return nil
}

func (f *fakeRepo) FindAll(_ context.Context, _ models.NotificationFilter) ([]models.NotificationLog, int64, error) {
	out := make([]models.NotificationLog, 0, len(f.logs))
	for _, l := range f.logs {
		out = append(out, *l)
	}
	return out, int64(len(out)), nil
}

func event(status string) *models.OrderStatusEvent {
	return &models.OrderStatusEvent{
		EventType:   "order.status.changed",
		OrderID:     "o-1",
		OrderNumber: "UC-20260901-AB12CD34",
		UserEmail:   "buyer@example.com",
		ToStatus:    status,
	}
}

func TestProcessOrderEvent_SendsTemplatedEmail(t *testing.T) {
	s := &fakeSender{}
	repo := &fakeRepo{}
	svc := NewNotificationService(repo, s, zap.NewNop())

	err := svc.ProcessOrderEvent(context.Background(), event("SHIPPED"))

	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", s.lastTo)
	assert.Contains(t, s.lastSubj, "UC-20260901-AB12CD34")
	assert.Contains(t, s.lastBody, "shipped")

	require.Len(t, repo.logs, 1)
	assert.Equal(t, models.StatusSent, repo.logs[0].Status)
	assert.Equal(t, "msg-1", repo.logs[0].MessageID)
}

func TestProcessOrderEvent_RetriesThenSucceeds(t *testing.T) {
	s := &fakeSender{failures: 2}
	repo := &fakeRepo{}
	svc := NewNotificationService(repo, s, zap.NewNop())

	err := svc.ProcessOrderEvent(context.Background(), event("DELIVERED"))

	require.NoError(t, err)
	assert.Equal(t, 3, s.calls)
	require.Len(t, repo.logs, 1)
	assert.Equal(t, models.StatusSent, repo.logs[0].Status)
}

func TestProcessOrderEvent_ExhaustedRetriesLogsFailure(t *testing.T) {
	s := &fakeSender{failures: 10}
	repo := &fakeRepo{}
	svc := NewNotificationService(repo, s, zap.NewNop())

	err := svc.ProcessOrderEvent(context.Background(), event("CANCELLED"))

	assert.Error(t, err)
	assert.Equal(t, maxSendAttempts, s.calls)
	require.Len(t, repo.logs, 1)
	assert.Equal(t, models.StatusFailed, repo.logs[0].Status)
	assert.NotEmpty(t, repo.logs[0].Error)
}

func TestProcessOrderEvent_UnknownStatusIsSkipped(t *testing.T) {
	s := &fakeSender{}
	repo := &fakeRepo{}
	svc := NewNotificationService(repo, s, zap.NewNop())

	err := svc.ProcessOrderEvent(context.Background(), event("PACKED"))

	require.NoError(t, err)
	assert.Zero(t, s.calls)
	assert.Empty(t, repo.logs)
}

func TestProcessOrderEvent_MissingRecipientIsSkipped(t *testing.T) {
	s := &fakeSender{}
	repo := &fakeRepo{}
	svc := NewNotificationService(repo, s, zap.NewNop())

	evt := event("CONFIRMED")
	evt.UserEmail = ""
	err := svc.ProcessOrderEvent(context.Background(), evt)

	require.NoError(t, err)
	assert.Zero(t, s.calls)
}
