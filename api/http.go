package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ViniZap4/gestor360/auth"
	"github.com/ViniZap4/gestor360/domain"
)

const defaultTimeout = 15 * time.Second

// HTTP is the networked variant. Every call is one request against the
// server's /api routes, except UpdateDocument which first resolves the
// document id from a full listing.
type HTTP struct {
	baseURL string
	token   string
	client  *fiber.Client
}

var _ DocumentAPI = (*HTTP)(nil)

func NewHTTP(baseURL, token string) *HTTP {
	return &HTTP{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &fiber.Client{JSONEncoder: json.Marshal, JSONDecoder: json.Unmarshal},
	}
}

func (h *HTTP) GetFolders(ctx context.Context) ([]domain.Folder, error) {
	var folders []domain.Folder
	err := h.do(ctx, fiber.MethodGet, "/api/folders", nil, &folders)
	return folders, err
}

func (h *HTTP) GetDocuments(ctx context.Context) ([]domain.Document, error) {
	var docs []domain.Document
	err := h.do(ctx, fiber.MethodGet, "/api/documents", nil, &docs)
	return docs, err
}

func (h *HTTP) CreateDocument(ctx context.Context, in domain.InsertDocument) (domain.Document, error) {
	var doc domain.Document
	err := h.do(ctx, fiber.MethodPost, "/api/documents", in, &doc)
	return doc, err
}

func (h *HTTP) UpdateDocument(ctx context.Context, filename, folder, content string) (domain.Document, error) {
	docs, err := h.GetDocuments(ctx)
	if err != nil {
		return domain.Document{}, err
	}

	id := int64(-1)
	for _, d := range docs {
		if d.Filename == filename && d.Folder == folder {
			id = d.ID
			break
		}
	}
	if id < 0 {
		return domain.Document{}, fmt.Errorf("document %s/%s: %w", folder, filename, domain.ErrNotFound)
	}

	var doc domain.Document
	patch := domain.DocumentPatch{Content: &content}
	err = h.do(ctx, fiber.MethodPatch, "/api/documents/"+strconv.FormatInt(id, 10), patch, &doc)
	return doc, err
}

func (h *HTTP) SearchDocuments(ctx context.Context, query string) ([]domain.Document, error) {
	var docs []domain.Document
	err := h.do(ctx, fiber.MethodGet, "/api/search?q="+url.QueryEscape(query), nil, &docs)
	return docs, err
}

func (h *HTTP) GitSync(ctx context.Context) (domain.SyncResult, error) {
	var res domain.SyncResult
	err := h.do(ctx, fiber.MethodPost, "/api/git/sync", nil, &res)
	return res, err
}

func (h *HTTP) do(ctx context.Context, method, path string, body, out any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s %s: %w: %w", method, path, domain.ErrTransport, err)
	}

	target := h.baseURL + path
	var a *fiber.Agent
	switch method {
	case fiber.MethodPost:
		a = h.client.Post(target)
	case fiber.MethodPatch:
		a = h.client.Patch(target)
	case fiber.MethodDelete:
		a = h.client.Delete(target)
	default:
		a = h.client.Get(target)
	}

	if h.token != "" {
		a.Set(auth.HeaderToken, h.token)
	}
	if body != nil {
		a.JSON(body)
	}
	a.Timeout(timeoutFor(ctx))

	code, data, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%s %s: %w: %w", method, path, domain.ErrTransport, errors.Join(errs...))
	}
	if code >= fiber.StatusBadRequest {
		return statusError(code, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: %w: decode response: %w", method, path, domain.ErrTransport, err)
	}
	return nil
}

// errorBody is the shape of every error response the server writes.
type errorBody struct {
	Message string              `json:"message"`
	Errors  []domain.FieldError `json:"errors"`
}

func statusError(code int, data []byte) error {
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil || body.Message == "" {
		body.Message = "status " + strconv.Itoa(code)
	}

	switch code {
	case fiber.StatusBadRequest:
		if len(body.Errors) > 0 {
			return &domain.ValidationError{Fields: body.Errors}
		}
		return fmt.Errorf("%w: %s", domain.ErrValidation, body.Message)
	case fiber.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, body.Message)
	case fiber.StatusConflict:
		return fmt.Errorf("%w: %s", domain.ErrConflict, body.Message)
	default:
		return fmt.Errorf("%w: status %d: %s", domain.ErrTransport, code, body.Message)
	}
}

func timeoutFor(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return defaultTimeout
	}
	if d := time.Until(deadline); d > 0 {
		return d
	}
	return time.Millisecond
}
