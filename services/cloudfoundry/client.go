package cloudfoundry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/cloud-gov/audit-exporter/models"
	"github.com/cloud-gov/audit-exporter/services"
)

// Credentials are the opaque strings used to establish a session.
type Credentials struct {
	Username string
	Password string
}

// Config holds configuration for the Client
type Config struct {
	APIEndpoint    string
	PageSize       int
	MaxPages       int
	CommandTimeout time.Duration
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		APIEndpoint:    "https://api.fr.cloud.gov",
		PageSize:       500,
		MaxPages:       100,
		CommandTimeout: 5 * time.Minute,
	}
}

// Client drives the cf CLI to authenticate and fetch audit events.
// The session it establishes lives in the CLI's own config dir; the
// client only tracks whether Login has succeeded.
type Client struct {
	runner        Runner
	config        Config
	logger        *zap.Logger
	authenticated bool
}

// NewClient creates a new Client instance
func NewClient(runner Runner, config Config, logger *zap.Logger) *Client {
	return &Client{
		runner: runner,
		config: config,
		logger: logger,
	}
}

// Login targets the configured API endpoint and authenticates with the
// supplied credentials. The credentials are handed to `cf auth`
// through the child process environment, never through argv, so they
// do not show up in process listings.
func (c *Client) Login(ctx context.Context, creds Credentials) error {
	if creds.Username == "" || creds.Password == "" {
		return services.ErrMissingCredentials
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.CommandTimeout)
	defer cancel()

	if _, err := c.runner.Run(ctx, nil, "api", c.config.APIEndpoint); err != nil {
		return services.WrapAuth("failed to target api endpoint", err)
	}

	env := []string{
		"CF_USERNAME=" + creds.Username,
		"CF_PASSWORD=" + creds.Password,
	}
	if _, err := c.runner.Run(ctx, env, "auth"); err != nil {
		return services.WrapAuth("cf auth failed", err)
	}

	c.authenticated = true
	c.logger.Info("authenticated against platform",
		zap.String("endpoint", c.config.APIEndpoint),
		zap.String("username", creds.Username))
	return nil
}

// eventsPage mirrors the v3 audit_events response shape.
type eventsPage struct {
	Pagination struct {
		TotalResults int `json:"total_results"`
		TotalPages   int `json:"total_pages"`
	} `json:"pagination"`
	Resources []eventResource `json:"resources"`
}

type eventResource struct {
	GUID      string `json:"guid"`
	CreatedAt string `json:"created_at"`
	Type      string `json:"type"`
	Actor     struct {
		GUID string `json:"guid"`
		Name string `json:"name"`
	} `json:"actor"`
	Target struct {
		GUID string `json:"guid"`
		Name string `json:"name"`
	} `json:"target"`
	Data json.RawMessage `json:"data"`
}

// FetchEvents retrieves every audit event whose timestamp falls within
// the window, following `cf curl /v3/audit_events` pagination until
// the last page. An empty result is valid, not an error.
func (c *Client) FetchEvents(ctx context.Context, window models.Window) (models.ExportBatch, error) {
	if !c.authenticated {
		return nil, services.ErrNotAuthenticated
	}

	var batch models.ExportBatch
	totalPages := 1

	for page := 1; page <= totalPages; page++ {
		if page > c.config.MaxPages {
			return nil, services.WrapFetch(
				fmt.Sprintf("provider reports %d pages, limit is %d", totalPages, c.config.MaxPages),
				services.ErrTooManyPages)
		}

		p, err := c.fetchPage(ctx, window, page)
		if err != nil {
			return nil, err
		}
		if page == 1 {
			totalPages = p.Pagination.TotalPages
		}

		for _, res := range p.Resources {
			event, err := mapEvent(res)
			if err != nil {
				return nil, services.WrapFetch("failed to decode event", err)
			}
			if !window.Contains(event.Timestamp) {
				continue
			}
			batch = append(batch, event)
		}

		c.logger.Debug("fetched audit event page",
			zap.Int("page", page),
			zap.Int("total_pages", totalPages),
			zap.Int("events", len(p.Resources)))
	}

	c.logger.Info("fetched audit events",
		zap.Int("events", batch.Len()),
		zap.Time("window_from", window.From),
		zap.Time("window_to", window.To))
	return batch, nil
}

// fetchPage runs one `cf curl` invocation and decodes the page.
func (c *Client) fetchPage(ctx context.Context, window models.Window, page int) (*eventsPage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.CommandTimeout)
	defer cancel()

	out, err := c.runner.Run(ctx, nil, "curl", eventsPath(window, c.config.PageSize, page))
	if err != nil {
		return nil, services.WrapFetch("cf curl failed", err)
	}

	var p eventsPage
	if err := json.Unmarshal(out, &p); err != nil {
		return nil, services.WrapFetch("malformed audit_events response", err)
	}
	return &p, nil
}

// eventsPath builds the v3 audit_events request path for one page.
func eventsPath(window models.Window, pageSize, page int) string {
	q := url.Values{}
	q.Set("created_ats[gte]", window.From.UTC().Format(time.RFC3339))
	q.Set("created_ats[lte]", window.To.UTC().Format(time.RFC3339))
	q.Set("order_by", "created_at")
	q.Set("per_page", fmt.Sprint(pageSize))
	q.Set("page", fmt.Sprint(page))
	return "/v3/audit_events?" + q.Encode()
}

// mapEvent converts a v3 resource into the domain event. The actor and
// target prefer human-readable names, falling back to GUIDs.
func mapEvent(res eventResource) (models.AuditEvent, error) {
	ts, err := time.Parse(time.RFC3339, res.CreatedAt)
	if err != nil {
		return models.AuditEvent{}, fmt.Errorf("event %s: bad created_at %q: %w", res.GUID, res.CreatedAt, err)
	}

	actor := res.Actor.Name
	if actor == "" {
		actor = res.Actor.GUID
	}
	target := res.Target.Name
	if target == "" {
		target = res.Target.GUID
	}

	detail := ""
	if len(res.Data) > 0 && string(res.Data) != "null" {
		detail = string(res.Data)
	}

	return models.AuditEvent{
		GUID:      res.GUID,
		Timestamp: ts.UTC(),
		Actor:     actor,
		Action:    res.Type,
		Target:    target,
		Detail:    detail,
	}, nil
}
