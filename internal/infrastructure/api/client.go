// Package api es el cliente REST del backend de FacturaPro.
//
// Cada llamada lee el bearer token recién salido del TokenSource (no se cachea),
// traduce cualquier status no 2xx a *apierror.Error y las fallas de transporte
// a domain.ErrNetwork. No hay reintentos, colas ni deduplicación.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturapro/internal/domain"
	"github.com/jhoicas/facturapro/internal/domain/apierror"
	"github.com/jhoicas/facturapro/internal/infrastructure/metrics"
	"github.com/jhoicas/facturapro/pkg/logger"
)

func init() {
	// El backend valida montos como números JSON.
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	maxJSONBody     = 10 << 20
	maxDownloadBody = 50 << 20
)

// TokenSource origen del bearer token (el mismo TokenStore que escribe la sesión).
type TokenSource interface {
	Load(ctx context.Context) (string, error)
}

// Config dependencias del cliente.
type Config struct {
	BaseURL    string
	Timeout    time.Duration // 0 = solo cancelación por contexto
	Tokens     TokenSource
	Metrics    *metrics.Metrics
	Logger     *logger.Logger
	HTTPClient *http.Client
}

// Client cliente HTTP genérico; los clientes por recurso se construyen sobre él.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	metrics *metrics.Metrics
	log     *logger.Logger

	mu             sync.RWMutex
	onUnauthorized func(ctx context.Context)
}

// New construye el cliente.
func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    hc,
		tokens:  cfg.Tokens,
		metrics: cfg.Metrics,
		log:     log.Named("api"),
	}
}

// OnUnauthorized registra el hook invocado ante un 401 de una llamada autenticada
// (normalmente auth.Store.Expire).
func (c *Client) OnUnauthorized(fn func(ctx context.Context)) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

// BaseURL URL base sin barra final.
func (c *Client) BaseURL() string { return c.baseURL }

// authMode modo de autenticación de una petición.
type authMode int

const (
	// bearer adjunta el token persistido y dispara OnUnauthorized ante un 401.
	bearer authMode = iota
	// anonymous no envía token; un 401 es un rechazo de credenciales, no una sesión vencida.
	anonymous
)

// Get GET path y decodifica la respuesta JSON en out (si no es nil).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, bearer, http.MethodGet, path, nil, out)
}

// Post POST con cuerpo JSON.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, bearer, http.MethodPost, path, in, out)
}

// PostAnonymous POST con cuerpo JSON sin bearer token (p.ej. /register).
func (c *Client) PostAnonymous(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, anonymous, http.MethodPost, path, in, out)
}

// Put PUT con cuerpo JSON.
func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, bearer, http.MethodPut, path, in, out)
}

// Delete DELETE path.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.doJSON(ctx, bearer, http.MethodDelete, path, nil, nil)
}

// PostForm POST application/x-www-form-urlencoded sin bearer token. Solo lo usa
// el intercambio de credenciales: un 401 aquí no cierra la sesión vigente.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, out any) error {
	body, _, err := c.do(ctx, anonymous, http.MethodPost, path, strings.NewReader(form.Encode()),
		"application/x-www-form-urlencoded", maxJSONBody)
	if err != nil {
		return err
	}
	return decode(path, body, out)
}

// PostMultipart sube un archivo en el campo field. Usa el content type multipart
// (con boundary) en lugar de application/json.
func (c *Client) PostMultipart(ctx context.Context, path, field, filename string, content []byte, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filepath.Base(filename)))
	h.Set("Content-Type", contentTypeByExt(filename))
	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("api: armar multipart: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("api: armar multipart: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("api: armar multipart: %w", err)
	}
	body, _, err := c.do(ctx, bearer, http.MethodPost, path, &buf, mw.FormDataContentType(), maxJSONBody)
	if err != nil {
		return err
	}
	return decode(path, body, out)
}

// Binary respuesta binaria cruda.
type Binary struct {
	ContentType string
	Filename    string // de Content-Disposition, si el backend lo envía
	Data        []byte
}

// Download pide un recurso binario (PDF/XML/ZIP). in se envía como JSON si no es nil.
func (c *Client) Download(ctx context.Context, method, path string, in any) (*Binary, error) {
	var (
		r  io.Reader
		ct string
	)
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("api: serializar request: %w", err)
		}
		r, ct = bytes.NewReader(raw), "application/json"
	}
	body, header, err := c.do(ctx, bearer, method, path, r, ct, maxDownloadBody)
	if err != nil {
		return nil, err
	}
	b := &Binary{ContentType: header.Get("Content-Type"), Data: body}
	if _, params, err := mime.ParseMediaType(header.Get("Content-Disposition")); err == nil {
		b.Filename = params["filename"]
	}
	return b, nil
}

func (c *Client) doJSON(ctx context.Context, mode authMode, method, path string, in, out any) error {
	var (
		r  io.Reader
		ct string
	)
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: serializar request: %w", err)
		}
		r, ct = bytes.NewReader(raw), "application/json"
	}
	body, _, err := c.do(ctx, mode, method, path, r, ct, maxJSONBody)
	if err != nil {
		return err
	}
	return decode(path, body, out)
}

// do ejecuta la petición. Devuelve el cuerpo solo para respuestas 2xx.
func (c *Client) do(ctx context.Context, mode authMode, method, path string, body io.Reader, contentType string, limit int64) ([]byte, http.Header, error) {
	resource := resourceOf(path)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, nil, fmt.Errorf("api: crear request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	var token string
	if mode == bearer {
		if token, err = c.token(ctx); err != nil {
			return nil, nil, err
		}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveAPI(resource, method, 0, time.Since(start))
		if ctx.Err() != nil {
			return nil, nil, fmt.Errorf("api: %s %s: %w", method, path, ctx.Err())
		}
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("backend inalcanzable")
		return nil, nil, fmt.Errorf("%w: %s %s: %v", domain.ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	elapsed := time.Since(start)
	c.metrics.ObserveAPI(resource, method, resp.StatusCode, elapsed)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: leer respuesta de %s %s: %v", domain.ErrNetwork, method, path, err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", elapsed).
		Msg("backend")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := apierror.New(resp.StatusCode, raw)
		c.log.Warn().Str("method", method).Str("path", path).Int("status", resp.StatusCode).
			Str("detail", apiErr.Error()).Msg("backend respondió error")
		if resp.StatusCode == http.StatusUnauthorized && token != "" {
			c.unauthorized(ctx)
		}
		return nil, nil, apiErr
	}
	return raw, resp.Header, nil
}

func (c *Client) token(ctx context.Context) (string, error) {
	if c.tokens == nil {
		return "", nil
	}
	token, err := c.tokens.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("api: leer token: %w", err)
	}
	return token, nil
}

func (c *Client) unauthorized(ctx context.Context) {
	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()
	if fn != nil {
		fn(context.WithoutCancel(ctx))
	}
}

func decode(path string, body []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("api: decodificar respuesta de %s: %w", path, err)
	}
	return nil
}

// resourceOf primer segmento del path: "/clientes/3" → "clientes".
func resourceOf(path string) string {
	p := strings.TrimPrefix(path, "/")
	if i := strings.IndexAny(p, "/?"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "root"
	}
	return p
}

func contentTypeByExt(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
