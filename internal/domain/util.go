package domain

import (
	"context"
	"math"

	"github.com/livebingo/backend/pkg/errorx"
	"github.com/livebingo/backend/pkg/xcontext"
)

const (
	priceScale = 10000
	maxOffset  = math.MaxInt32
)

type pagination struct {
	page   int
	limit  int
	offset int
}

func paginate(ctx context.Context, page, limit int) (pagination, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if page <= 0 {
		page = 1
	}

	if limit == 0 {
		limit = apiCfg.DefaultLimit
	}

	if limit > apiCfg.MaxLimit {
		return pagination{}, errorx.New(errorx.BadRequest, "Exceed the maximum of limit")
	}

	if limit <= 0 {
		return pagination{}, errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	if page-1 > maxOffset/limit {
		return pagination{}, errorx.New(errorx.BadRequest, "Page is too large")
	}

	return pagination{page: page, limit: limit, offset: (page - 1) * limit}, nil
}

func checkPrice(price float64) error {
	if price <= 0 {
		return errorx.New(errorx.BadRequest, "Price must be a positive number")
	}

	scaled := price * priceScale
	if math.Abs(scaled-math.Round(scaled)) > 1e-6 {
		return errorx.New(errorx.BadRequest, "Price must have at most 4 decimal places")
	}

	return nil
}
