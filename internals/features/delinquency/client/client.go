// Package client talks to the upload and metrics endpoints the way the dashboard does.
package client

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"condoku_backend/internals/features/delinquency/dto"
	"condoku_backend/internals/features/delinquency/spreadsheet"
	helper "condoku_backend/internals/helpers"
)

type Client struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		Timeout: 60 * time.Second,
	}
}

// PartError reports the part that stopped an upload. Earlier parts stay committed.
type PartError struct {
	Part    int
	Total   int
	Status  int
	Message string
}

func (e *PartError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("parte %d de %d: %s (HTTP %d)", e.Part, e.Total, e.Message, e.Status)
	}
	return fmt.Sprintf("parte %d de %d: %s", e.Part, e.Total, e.Message)
}

type UploadOptions struct {
	ChunkSize int
	Reset     bool
	BatchID   string
}

type UploadSummary struct {
	BatchID string
	Parts   int
	Stats   dto.ImportStats
}

// ProgressFunc is called after each accepted part.
type ProgressFunc func(part, total int, res dto.UploadResponse)

func (c *Client) agent(a *fiber.Agent) *fiber.Agent {
	return a.
		Set(fiber.HeaderAuthorization, "Bearer "+c.Token).
		Timeout(c.Timeout).
		JSONEncoder(sonic.Marshal).
		JSONDecoder(sonic.Unmarshal)
}

// Upload sends rows in sequential parts of one batch, waiting for each response.
func (c *Client) Upload(ctx context.Context, rows []dto.SlipRow, opts UploadOptions, progress ProgressFunc) (UploadSummary, error) {
	if len(rows) == 0 {
		return UploadSummary{}, errors.New("nenhum boleto para enviar")
	}
	size := opts.ChunkSize
	if size <= 0 {
		size = spreadsheet.DefaultChunkSize
	}
	batchID := opts.BatchID
	if batchID == "" {
		batchID = uuid.NewString()
	}

	parts := spreadsheet.Chunk(rows, size)
	sum := UploadSummary{BatchID: batchID, Parts: len(parts)}
	for i, part := range parts {
		if err := ctx.Err(); err != nil {
			return sum, &PartError{Part: i + 1, Total: len(parts), Message: err.Error()}
		}
		req := dto.UploadRequest{
			Data:       part,
			BatchID:    batchID,
			TotalParts: len(parts),
			Part:       i + 1,
			Reset:      opts.Reset,
		}
		res, err := c.sendPart(req)
		if err != nil {
			return sum, err
		}
		sum.Stats = sum.Stats.Add(res.Stats)
		if progress != nil {
			progress(i+1, len(parts), res)
		}
	}
	return sum, nil
}

func (c *Client) sendPart(req dto.UploadRequest) (dto.UploadResponse, error) {
	a := c.agent(fiber.Post(c.BaseURL + "/api/upload")).JSON(req)
	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return dto.UploadResponse{}, &PartError{Part: req.Part, Total: req.TotalParts, Message: errors.Join(errs...).Error()}
	}
	if code < 200 || code >= 300 {
		return dto.UploadResponse{}, &PartError{Part: req.Part, Total: req.TotalParts, Status: code, Message: errorMessage(body, code)}
	}
	var res dto.UploadResponse
	if err := sonic.Unmarshal(body, &res); err != nil {
		return dto.UploadResponse{}, &PartError{Part: req.Part, Total: req.TotalParts, Status: code, Message: "resposta inválida: " + err.Error()}
	}
	return res, nil
}

// GetMetrics fetches the dashboard metrics, optionally filtered by reference.
func (c *Client) GetMetrics(ctx context.Context, refs []int) (dto.MetricsResponse, error) {
	if err := ctx.Err(); err != nil {
		return dto.MetricsResponse{}, err
	}
	url := c.BaseURL + "/api/metrics"
	if len(refs) > 0 {
		ss := make([]string, len(refs))
		for i, r := range refs {
			ss[i] = strconv.Itoa(r)
		}
		url += "?refs=" + strings.Join(ss, ",")
	}

	code, body, errs := c.agent(fiber.Get(url)).Bytes()
	if len(errs) > 0 {
		return dto.MetricsResponse{}, errors.Join(errs...)
	}
	if code != fiber.StatusOK {
		return dto.MetricsResponse{}, fmt.Errorf("metrics: %s (HTTP %d)", errorMessage(body, code), code)
	}
	var res dto.MetricsResponse
	if err := sonic.Unmarshal(body, &res); err != nil {
		return dto.MetricsResponse{}, fmt.Errorf("metrics: %w", err)
	}
	return res, nil
}

func errorMessage(body []byte, code int) string {
	var er helper.ErrorResponse
	if err := sonic.Unmarshal(body, &er); err == nil {
		if er.Error != "" {
			return er.Error
		}
		if er.Message != "" {
			return er.Message
		}
	}
	return fiber.NewError(code).Message
}
