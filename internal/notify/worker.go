package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/zeeverify/backend/internal/models"
)

// Worker drains the notification queue and renders each task into an
// email for the configured sender. Handler errors surface to asynq,
// which retries with backoff up to the task's retry budget.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	logger *slog.Logger
}

func NewWorker(redisOpt asynq.RedisClientOpt, sender Sender, concurrency int, logger *slog.Logger) *Worker {
	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			"notify": 1,
		},
	})

	handlers := &taskHandlers{sender: sender, logger: logger}

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReviewDecided, handlers.handleReviewDecided)
	mux.HandleFunc(TypeBrandNewReview, handlers.handleBrandNewReview)
	mux.HandleFunc(TypeBrandClaimed, handlers.handleBrandClaimed)
	mux.HandleFunc(TypeLeadCreated, handlers.handleLeadCreated)

	return &Worker{server: server, mux: mux, logger: logger}
}

// Start runs the worker in the background.
func (w *Worker) Start() error {
	return w.server.Start(w.mux)
}

// Shutdown waits for in-flight tasks to finish.
func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

type taskHandlers struct {
	sender Sender
	logger *slog.Logger
}

func (h *taskHandlers) handleReviewDecided(ctx context.Context, task *asynq.Task) error {
	var payload ReviewDecidedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to decode review decided payload: %w", err)
	}

	var subject, body string
	if payload.Status == models.ReviewStatusApproved {
		subject = fmt.Sprintf("Your review of %s is live", payload.BrandName)
		body = fmt.Sprintf(
			"Hi %s,\n\nYour review %q of %s has been approved and is now visible to other franchise buyers.\n",
			payload.AuthorName, payload.ReviewTitle, payload.BrandName,
		)
	} else {
		subject = fmt.Sprintf("Update on your review of %s", payload.BrandName)
		body = fmt.Sprintf(
			"Hi %s,\n\nYour review %q of %s did not pass moderation and will not be published.\n",
			payload.AuthorName, payload.ReviewTitle, payload.BrandName,
		)
	}

	return h.send(ctx, Email{To: payload.AuthorEmail, Subject: subject, TextBody: body}, task.Type())
}

func (h *taskHandlers) handleBrandNewReview(ctx context.Context, task *asynq.Task) error {
	var payload BrandNewReviewPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to decode brand new review payload: %w", err)
	}

	email := Email{
		To:      payload.OwnerEmail,
		Subject: fmt.Sprintf("New %d-star review of %s", payload.OverallRating, payload.BrandName),
		TextBody: fmt.Sprintf(
			"Hi %s,\n\nA new review of %s has been published.\n\n%s\n%s\n\nYou can respond to it from your dashboard.\n",
			payload.OwnerName, payload.BrandName, payload.ReviewTitle, payload.ReviewPreview,
		),
	}

	return h.send(ctx, email, task.Type())
}

func (h *taskHandlers) handleBrandClaimed(ctx context.Context, task *asynq.Task) error {
	var payload BrandClaimedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to decode brand claimed payload: %w", err)
	}

	email := Email{
		To:      payload.OwnerEmail,
		Subject: fmt.Sprintf("You now manage %s", payload.BrandName),
		TextBody: fmt.Sprintf(
			"Hi %s,\n\nYour claim of %s is confirmed. You can now respond to reviews and receive leads.\n\nAmount charged: %d %s.\n",
			payload.OwnerName, payload.BrandName, payload.Amount, payload.Currency,
		),
	}

	return h.send(ctx, email, task.Type())
}

func (h *taskHandlers) handleLeadCreated(ctx context.Context, task *asynq.Task) error {
	var payload LeadCreatedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to decode lead created payload: %w", err)
	}

	email := Email{
		To:      payload.OwnerEmail,
		Subject: fmt.Sprintf("New franchise inquiry for %s", payload.BrandName),
		TextBody: fmt.Sprintf(
			"%s (%s) is interested in %s.\n\nInvestment range: %s\n\n%s\n",
			payload.ProspectName, payload.ProspectEmail, payload.BrandName,
			payload.InvestmentRange, payload.Message,
		),
	}

	return h.send(ctx, email, task.Type())
}

func (h *taskHandlers) send(ctx context.Context, email Email, taskType string) error {
	if err := h.sender.Send(ctx, email); err != nil {
		h.logger.Warn("email delivery failed", "task", taskType, "to", email.To, "error", err)
		return err
	}
	h.logger.Info("email delivered", "task", taskType, "to", email.To)
	return nil
}
