package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/anonto42/aura/backend/internal/metrics"
	"github.com/hibiken/asynq"
)

const (
	processPostMaxRetry = 5
	processPostTimeout  = time.Minute
)

// Submitter hands a post to the post-processor without waiting for it.
type Submitter interface {
	Submit(ctx context.Context, postID uint) error
}

// AsynqSubmitter enqueues process_post tasks on redis.
type AsynqSubmitter struct {
	client *asynq.Client
	queue  string
	logger *slog.Logger
}

func NewAsynqSubmitter(opt asynq.RedisClientOpt, queue string, logger *slog.Logger) *AsynqSubmitter {
	if queue == "" {
		queue = DefaultQueue
	}
	return &AsynqSubmitter{client: asynq.NewClient(opt), queue: queue, logger: logger}
}

func (s *AsynqSubmitter) Submit(ctx context.Context, postID uint) error {
	task, err := NewProcessPostTask(postID)
	if err != nil {
		return err
	}
	info, err := s.client.EnqueueContext(ctx, task,
		asynq.Queue(s.queue),
		asynq.MaxRetry(processPostMaxRetry),
		asynq.Timeout(processPostTimeout),
	)
	if err != nil {
		metrics.PostsSubmitted.WithLabelValues("error").Inc()
		return fmt.Errorf("enqueue %s for post %d: %w", TypeProcessPost, postID, err)
	}
	metrics.PostsSubmitted.WithLabelValues("ok").Inc()
	s.logger.Debug("post submitted for processing", "post_id", postID, "task_id", info.ID, "queue", info.Queue)
	return nil
}

func (s *AsynqSubmitter) Close() error {
	return s.client.Close()
}

// InlineSubmitter runs the processor in the calling goroutine. It serves
// single-process deployments and tests.
type InlineSubmitter struct {
	Processor *PostProcessor
}

func (s InlineSubmitter) Submit(ctx context.Context, postID uint) error {
	return s.Processor.Process(ctx, postID)
}
