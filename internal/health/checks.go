package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hellofresh/health-go/v5"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
	"github.com/pageturn/storefront/internal/config"
)

func NewHealthHandler(cfg *config.Config) (*health.Health, error) {

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    "bookstore-storefront",
			Version: "1.0.0",
		}),
		health.WithSystemInfo(),
		health.WithChecks(
			health.Config{
				Name:      "redis",
				Timeout:   2 * time.Second,
				SkipOnErr: true,
				Check: healthRedis.New(
					healthRedis.Config{
						DSN: cfg.RedisConnect.GetDSN(),
					},
				),
			},
			health.Config{
				Name:      "bookstore-api",
				Timeout:   5 * time.Second,
				SkipOnErr: false,
				Check:     upstreamCheck(cfg.Upstream.BaseURL),
			},
		),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}

// upstreamCheck probes the public search route; any HTTP response counts
// as reachable, a transport failure does not.
func upstreamCheck(baseURL string) func(ctx context.Context) error {
	return func(ctx context.Context) error {

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/books/search", nil)
		if err != nil {
			return fmt.Errorf("failed to build upstream probe: %w", err)
		}

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to reach bookstore API: %w", err)
		}

		defer resp.Body.Close()

		return nil
	}
}
