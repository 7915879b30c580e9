package backend

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/javajoker/vehicle-gateway/internal/models"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Photo is one file part of an evidence upload.
type Photo struct {
	Name        string
	ContentType string
	Data        []byte
}

func (c *Client) ListContracts(ctx context.Context, token string, filter models.ContractFilter) ([]models.Contract, *Pagination, error) {
	query := pageQuery(filter.Page, filter.Limit)
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}

	var contracts []models.Contract
	page, err := c.doJSON(ctx, token, http.MethodGet, "/contracts/staff", query, nil, &contracts)
	if err != nil {
		return nil, nil, err
	}
	return contracts, page, nil
}

func (c *Client) GetContract(ctx context.Context, token, appointmentID string) (*models.Contract, error) {
	var contract models.Contract
	if _, err := c.doJSON(ctx, token, http.MethodGet, "/contracts/staff/"+url.PathEscape(appointmentID), nil, nil, &contract); err != nil {
		return nil, err
	}
	return &contract, nil
}

// UploadContractPhotos sends every photo in one multipart request. The
// caller orders them seller first, buyer second.
func (c *Client) UploadContractPhotos(ctx context.Context, token, appointmentID string, photos []Photo) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("appointmentId", appointmentID); err != nil {
		return fmt.Errorf("failed to write appointment id: %w", err)
	}
	for _, photo := range photos {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photos"; filename="%s"`, quoteEscaper.Replace(photo.Name)))
		contentType := photo.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)

		part, err := writer.CreatePart(header)
		if err != nil {
			return fmt.Errorf("failed to create photo part: %w", err)
		}
		if _, err := part.Write(photo.Data); err != nil {
			return fmt.Errorf("failed to write photo %s: %w", photo.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close multipart body: %w", err)
	}

	path := "/contracts/staff/" + url.PathEscape(appointmentID) + "/upload-photos"
	_, err := c.do(ctx, token, http.MethodPost, path, nil, &buf, writer.FormDataContentType(), nil)
	return err
}

func (c *Client) CompleteContract(ctx context.Context, token, appointmentID string) error {
	_, err := c.doJSON(ctx, token, http.MethodPut, "/contracts/staff/"+url.PathEscape(appointmentID)+"/complete", nil, struct{}{}, nil)
	return err
}

func (c *Client) CancelContract(ctx context.Context, token, appointmentID, reason string) error {
	_, err := c.doJSON(ctx, token, http.MethodPut, "/contracts/staff/"+url.PathEscape(appointmentID)+"/cancel", nil, reasonPayload{Reason: reason}, nil)
	return err
}
