package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/foxxcyber/voicelist/internal/logging"
	"github.com/foxxcyber/voicelist/internal/models"
)

const (
	defaultNLUTimeout = 8 * time.Second
	maxNLUBodyBytes   = 64 << 10
)

// ResolveErrorKind says why a phrase could not be resolved remotely
type ResolveErrorKind string

const (
	ResolveTransport ResolveErrorKind = "transport"
	ResolveStatus    ResolveErrorKind = "status"
	ResolveMalformed ResolveErrorKind = "malformed"
	ResolveTimeout   ResolveErrorKind = "timeout"
	ResolveDisabled  ResolveErrorKind = "disabled"
)

var ErrResolverDisabled = errors.New("nlu resolver is not configured")

// ResolveError is returned by IntentResolver implementations. Every kind means the
// caller should interpret the phrase locally.
type ResolveError struct {
	Kind       ResolveErrorKind
	StatusCode int
	Err        error
}

func (e *ResolveError) Error() string {
	if e.Kind == ResolveStatus {
		return fmt.Sprintf("nlu %s error: status %d", e.Kind, e.StatusCode)
	}
	if e.Err == nil {
		return fmt.Sprintf("nlu %s error", e.Kind)
	}
	return fmt.Sprintf("nlu %s error: %v", e.Kind, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// ResolveErrorKindOf returns the kind of a ResolveError anywhere in err's chain
func ResolveErrorKindOf(err error) (ResolveErrorKind, bool) {
	var re *ResolveError
	if errors.As(err, &re) {
		return re.Kind, true
	}
	return "", false
}

// IntentResolver turns a phrase into a structured intent
type IntentResolver interface {
	Resolve(ctx context.Context, phrase, lang string) (*models.Intent, error)
}

// NLUClient posts phrases to a remote NLU endpoint
type NLUClient struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewNLUClient creates a client for endpoint. An empty endpoint yields a client
// whose every call fails with ResolveDisabled.
func NewNLUClient(endpoint string, timeout time.Duration, logger *zap.Logger) *NLUClient {
	if timeout <= 0 {
		timeout = defaultNLUTimeout
	}
	return &NLUClient{
		endpoint: strings.TrimSpace(endpoint),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logging.OrNop(logger),
	}
}

// Enabled reports whether an endpoint is configured
func (c *NLUClient) Enabled() bool {
	return c.endpoint != ""
}

// Resolve sends {phrase, lang} and decodes the intent in the response
func (c *NLUClient) Resolve(ctx context.Context, phrase, lang string) (*models.Intent, error) {
	if !c.Enabled() {
		return nil, &ResolveError{Kind: ResolveDisabled, Err: ErrResolverDisabled}
	}

	body, err := json.Marshal(models.NLURequest{Phrase: phrase, Lang: lang})
	if err != nil {
		return nil, &ResolveError{Kind: ResolveTransport, Err: fmt.Errorf("encoding request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &ResolveError{Kind: ResolveTransport, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		kind := ResolveTransport
		if isTimeout(ctx, err) {
			kind = ResolveTimeout
		}
		return nil, &ResolveError{Kind: kind, Err: fmt.Errorf("executing request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxNLUBodyBytes))
		return nil, &ResolveError{Kind: ResolveStatus, StatusCode: resp.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxNLUBodyBytes))
	if err != nil {
		kind := ResolveTransport
		if isTimeout(ctx, err) {
			kind = ResolveTimeout
		}
		return nil, &ResolveError{Kind: kind, Err: fmt.Errorf("reading response: %w", err)}
	}

	var intent models.Intent
	if err := json.Unmarshal(raw, &intent); err != nil {
		return nil, &ResolveError{Kind: ResolveMalformed, Err: err}
	}

	c.logger.Debug("nlu resolved phrase",
		zap.String("intent", string(intent.Kind)),
		zap.String("item", intent.Item),
		zap.Duration("took", time.Since(start)),
	)
	return &intent, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
