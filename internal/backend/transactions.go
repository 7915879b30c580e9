package backend

import (
	"context"
	"net/http"

	"github.com/javajoker/vehicle-gateway/internal/models"
)

func (c *Client) TransactionHistory(ctx context.Context, token string, page, limit int) ([]models.TransactionRecord, *Pagination, error) {
	var records []models.TransactionRecord
	pagination, err := c.doJSON(ctx, token, http.MethodGet, "/transactions/history", pageQuery(page, limit), nil, &records)
	if err != nil {
		return nil, nil, err
	}
	return records, pagination, nil
}
