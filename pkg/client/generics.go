package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/tenant-store/pkg/document"
	"github.com/diwise/tenant-store/pkg/problems"
)

// FindAll pages through every document of a tenant's collection that
// matches filter and hands each of them to callback, decoded as a T.
func FindAll[T any](ctx context.Context, storeURL, tenant, collection string, filter document.Filter, callback func(t T)) (count int, err error) {

	logger := logging.GetFromContext(ctx)

	c := newClient(storeURL, Tenant(tenant))

	var limit int64 = 50
	var offset int64 = 0

	result := make([]T, 0, limit)

	for {
		logger.Debug("fetching documents", slog.String("collection", collection), slog.Int64("offset", offset))

		var body []byte
		body, err = c.query(ctx, collection, Filter(filter), Limit(limit), Offset(offset))
		if err != nil {
			return
		}
		offset += limit

		err = json.Unmarshal(body, &result)
		if err != nil {
			err = fmt.Errorf("failed to unmarshal response: %s (%w)", err.Error(), problems.ErrBadResponse)
			return
		}

		for _, e := range result {
			callback(e)
		}

		batchSize := len(result)
		count += batchSize

		if int64(batchSize) < limit {
			break
		}

		// Reset result size before continuing
		result = result[:0]
	}

	return
}
