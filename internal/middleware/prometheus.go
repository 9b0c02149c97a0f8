package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/livebingo/backend/internal/common"
	"github.com/livebingo/backend/pkg/router"
	"github.com/livebingo/backend/pkg/xcontext"
)

func Prometheus() router.CloserFunc {
	return func(ctx context.Context) {
		path := xcontext.HTTPRequest(ctx).URL.Path
		code := fmt.Sprint(router.StatusCode(ctx))

		common.PromCounters[common.HTTPRequestTotal].WithLabelValues(path, code).Inc()
		common.PromHistograms[common.HTTPRequestDurationSeconds].
			WithLabelValues(path, code).
			Observe(time.Since(xcontext.StartTime(ctx)).Seconds())
	}
}
