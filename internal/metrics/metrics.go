// Package metrics holds the Prometheus collectors of the comment service.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Comment operation names used as the "op" label
const (
	OpCreate     = "create"
	OpEdit       = "edit"
	OpRemove     = "remove"
	OpLike       = "like"
	OpUnlike     = "unlike"
	OpRecount    = "recount"
	OpThreadRead = "thread_read"
)

var (
	CommentOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reportam",
		Name:      "comment_operations_total",
		Help:      "Comment operations that completed successfully, by operation.",
	}, []string{"op"})

	// CountSyncFailures counts report comment-count updates that failed after
	// the comment mutation had already been committed.
	CountSyncFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reportam",
		Name:      "comment_count_sync_failures_total",
		Help:      "Failed report commentsCount updates, by sync kind (increment or recount).",
	}, []string{"kind"})

	ThreadCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reportam",
		Name:      "thread_cache_lookups_total",
		Help:      "Thread cache lookups, by result (hit, miss, error).",
	}, []string{"result"})
)

// Handler exposes the default registry for gin
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
