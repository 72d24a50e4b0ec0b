// Package metrics holds the prometheus collectors shared by the API and worker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aura_notifications_created_total",
		Help: "The total number of notifications stored by fan-out",
	}, []string{"type"})

	NotificationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aura_notification_failures_total",
		Help: "The total number of fan-out attempts that failed",
	}, []string{"type", "stage"})

	PostsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aura_posts_submitted_total",
		Help: "The total number of posts submitted to the post-processor",
	}, []string{"status"})

	PostsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aura_posts_processed_total",
		Help: "The total number of post-processor runs",
	}, []string{"status"})

	TagsExtracted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aura_caption_tokens_total",
		Help: "The total number of caption tokens materialized",
	}, []string{"kind", "result"})
)
