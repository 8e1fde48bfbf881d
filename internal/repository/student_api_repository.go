package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-rating-sync/internal/models"
	"github.com/noah-isme/sma-rating-sync/pkg/auth"
	"github.com/noah-isme/sma-rating-sync/pkg/config"
	appErrors "github.com/noah-isme/sma-rating-sync/pkg/errors"
	"github.com/noah-isme/sma-rating-sync/pkg/middleware/requestid"
)

const studentResource = "/student"

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 4 << 20

type remoteObserver interface {
	ObserveRemoteCall(operation string, status int, duration time.Duration)
}

// StudentAPIRepository talks to the remote student REST resource.
type StudentAPIRepository struct {
	base     string
	client   *http.Client
	signer   *auth.Signer
	decode   listDecoder
	maxBody  int64
	observer remoteObserver
	logger   *zap.Logger
}

// NewStudentAPIRepository constructs the repository. A nil client gets one
// with the configured timeout.
func NewStudentAPIRepository(cfg config.APIConfig, client *http.Client, signer *auth.Signer, observer remoteObserver, logger *zap.Logger) *StudentAPIRepository {
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentAPIRepository{
		base:     cfg.Base,
		client:   client,
		signer:   signer,
		decode:   decoderFor(cfg.ListShape),
		maxBody:  maxBodyBytes,
		observer: observer,
		logger:   logger,
	}
}

// List fetches the full collection.
func (r *StudentAPIRepository) List(ctx context.Context) ([]models.Student, error) {
	body, err := r.do(ctx, string(models.OperationReload), http.MethodGet, studentResource, nil)
	if err != nil {
		return nil, err
	}
	return r.decode(body)
}

// Create posts a new student.
func (r *StudentAPIRepository) Create(ctx context.Context, payload models.StudentPayload) error {
	_, err := r.do(ctx, string(models.OperationAdd), http.MethodPost, studentResource, &payload)
	return err
}

// Update replaces the mutable fields of student id.
func (r *StudentAPIRepository) Update(ctx context.Context, id int64, payload models.StudentPayload) error {
	_, err := r.do(ctx, string(models.OperationRate), http.MethodPut, studentPath(id), &payload)
	return err
}

// Delete removes student id.
func (r *StudentAPIRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.do(ctx, string(models.OperationRemove), http.MethodDelete, studentPath(id), nil)
	return err
}

func studentPath(id int64) string {
	return studentResource + "/" + strconv.FormatInt(id, 10)
}

func (r *StudentAPIRepository) do(ctx context.Context, operation, method, path string, payload *models.StudentPayload) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal student payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.base+path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if reqID := requestid.FromContext(ctx); reqID != "" {
		req.Header.Set(requestid.Header, reqID)
	}
	token, err := r.signer.Token()
	if err != nil {
		return nil, fmt.Errorf("sign request token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		r.observe(operation, 0, time.Since(start))
		return nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, method+" "+path)
	}
	defer resp.Body.Close()

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, r.maxBody+1))
	r.observe(operation, resp.StatusCode, time.Since(start))
	if int64(len(raw)) > r.maxBody {
		r.logger.Warn("student api response exceeds limit",
			zap.String("operation", operation),
			zap.Int64("limit_bytes", r.maxBody),
		)
		cause := fmt.Errorf("body exceeds %d bytes", r.maxBody)
		return nil, appErrors.Wrap(cause, appErrors.ErrTooLarge.Code, appErrors.ErrTooLarge.Status, method+" "+path)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		cause := fmt.Errorf("status %d", resp.StatusCode)
		if detail := remoteErrorDetail(raw); detail != "" {
			cause = fmt.Errorf("status %d (%s)", resp.StatusCode, detail)
		}
		return nil, appErrors.Wrap(cause, appErrors.ErrRemoteRejected.Code, appErrors.ErrRemoteRejected.Status, method+" "+path)
	}
	if readErr != nil {
		return nil, appErrors.Wrap(readErr, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "read "+method+" "+path)
	}

	r.logger.Debug("student api call",
		zap.String("operation", operation),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)
	return raw, nil
}

func (r *StudentAPIRepository) observe(operation string, status int, d time.Duration) {
	if r.observer != nil {
		r.observer.ObserveRemoteCall(operation, status, d)
	}
}
