package notify

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// Enqueuer is the slice of asynq.Client the dispatcher needs.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Dispatcher enqueues notification tasks. Every method is fire and
// forget; enqueue failures are logged, never returned.
type Dispatcher struct {
	client Enqueuer
	logger *slog.Logger
}

func NewDispatcher(client Enqueuer, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{client: client, logger: logger}
}

func (d *Dispatcher) ReviewDecided(payload ReviewDecidedPayload) {
	d.enqueue(TypeReviewDecided, payload)
}

func (d *Dispatcher) BrandNewReview(payload BrandNewReviewPayload) {
	d.enqueue(TypeBrandNewReview, payload)
}

func (d *Dispatcher) BrandClaimed(payload BrandClaimedPayload) {
	d.enqueue(TypeBrandClaimed, payload)
}

func (d *Dispatcher) LeadCreated(payload LeadCreatedPayload) {
	d.enqueue(TypeLeadCreated, payload)
}

func (d *Dispatcher) enqueue(taskType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		d.logger.Error("failed to encode notification", "task", taskType, "error", err)
		return
	}

	task := asynq.NewTask(taskType, data)
	info, err := d.client.Enqueue(task,
		asynq.Queue("notify"),
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
	)
	if err != nil {
		d.logger.Error("failed to enqueue notification", "task", taskType, "error", err)
		return
	}

	d.logger.Debug("notification enqueued", "task", taskType, "task_id", info.ID)
}
