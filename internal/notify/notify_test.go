package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeeverify/backend/internal/models"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) Enqueue(task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task-1"}, nil
}

type fakeSender struct {
	sent []Email
	err  error
}

func (f *fakeSender) Send(_ context.Context, email Email) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, email)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcher_EnqueuesReviewDecided(t *testing.T) {
	enq := &fakeEnqueuer{}
	d := NewDispatcher(enq, discardLogger())

	d.ReviewDecided(ReviewDecidedPayload{
		ReviewTitle: "Solid operation",
		BrandName:   "Crust & Co",
		Status:      models.ReviewStatusApproved,
		AuthorEmail: "author@example.com",
	})

	require.Len(t, enq.tasks, 1)
	assert.Equal(t, TypeReviewDecided, enq.tasks[0].Type())

	var payload ReviewDecidedPayload
	require.NoError(t, json.Unmarshal(enq.tasks[0].Payload(), &payload))
	assert.Equal(t, "author@example.com", payload.AuthorEmail)
}

func TestDispatcher_SwallowsEnqueueFailure(t *testing.T) {
	enq := &fakeEnqueuer{err: errors.New("redis down")}
	d := NewDispatcher(enq, discardLogger())

	// Must not panic and must not propagate anything.
	d.BrandClaimed(BrandClaimedPayload{BrandName: "Crust & Co", OwnerEmail: "owner@example.com"})
	assert.Empty(t, enq.tasks)
}

func TestHandleReviewDecided_RendersOutcome(t *testing.T) {
	sender := &fakeSender{}
	h := &taskHandlers{sender: sender, logger: discardLogger()}

	payload, _ := json.Marshal(ReviewDecidedPayload{
		ReviewTitle: "Solid operation",
		BrandName:   "Crust & Co",
		Status:      models.ReviewStatusRejected,
		AuthorEmail: "author@example.com",
		AuthorName:  "Sam",
	})

	err := h.handleReviewDecided(context.Background(), asynq.NewTask(TypeReviewDecided, payload))
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "author@example.com", sender.sent[0].To)
	assert.Contains(t, sender.sent[0].Subject, "Update on your review")
	assert.Contains(t, sender.sent[0].TextBody, "did not pass moderation")
}

func TestHandleBrandNewReview_RendersOwnerEmail(t *testing.T) {
	sender := &fakeSender{}
	h := &taskHandlers{sender: sender, logger: discardLogger()}

	payload, _ := json.Marshal(BrandNewReviewPayload{
		BrandName:     "Crust & Co",
		OwnerEmail:    "owner@crust.co",
		OwnerName:     "Pat",
		ReviewTitle:   "Solid operation",
		ReviewPreview: "Support was strong in year one.",
		OverallRating: 5,
	})

	err := h.handleBrandNewReview(context.Background(), asynq.NewTask(TypeBrandNewReview, payload))
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "owner@crust.co", sender.sent[0].To)
	assert.Contains(t, sender.sent[0].Subject, "5-star review of Crust & Co")
	assert.Contains(t, sender.sent[0].TextBody, "Support was strong in year one.")
}

func TestHandleBrandClaimed_SenderFailurePropagates(t *testing.T) {
	sender := &fakeSender{err: errors.New("provider 500")}
	h := &taskHandlers{sender: sender, logger: discardLogger()}

	payload, _ := json.Marshal(BrandClaimedPayload{OwnerEmail: "owner@example.com", BrandName: "Crust & Co"})

	err := h.handleBrandClaimed(context.Background(), asynq.NewTask(TypeBrandClaimed, payload))
	require.Error(t, err)
}

func TestHandleLeadCreated_MalformedPayload(t *testing.T) {
	h := &taskHandlers{sender: &fakeSender{}, logger: discardLogger()}

	err := h.handleLeadCreated(context.Background(), asynq.NewTask(TypeLeadCreated, []byte("{not json")))
	require.Error(t, err)
}
