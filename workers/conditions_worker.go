package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"civic-engagement-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConditionsClient polls the upstream marine/weather service and mirrors
// the latest readings into condition_snapshots.
type ConditionsClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	DB         *gorm.DB
}

func NewConditionsClient(db *gorm.DB) *ConditionsClient {
	baseURL := os.Getenv("CONDITIONS_API_URL")
	if baseURL == "" {
		log.Fatal("CONDITIONS_API_URL environment variable is required")
	}

	return &ConditionsClient{
		BaseURL: baseURL,
		Token:   os.Getenv("CONDITIONS_API_TOKEN"),
		DB:      db,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type upstreamConditions struct {
	TemperatureC float64 `json:"temperature_c"`
	SeaState     string  `json:"sea_state"`
	WindKph      float64 `json:"wind_kph"`
	Humidity     int     `json:"humidity"`
	Flag         string  `json:"flag"`
	ObservedAt   string  `json:"observed_at"`
}

// FetchCurrent retrieves the latest readings for one source ("beach" or
// "weather").
func (c *ConditionsClient) FetchCurrent(ctx context.Context, source string) (*upstreamConditions, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v1/conditions", c.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	q := u.Query()
	q.Set("source", source)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.Token != "" {
		req.Header.Set("X-Service-Token", c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call conditions service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("conditions service returned status %d: %s", resp.StatusCode, string(body))
	}

	var conditions upstreamConditions
	if err := json.NewDecoder(resp.Body).Decode(&conditions); err != nil {
		return nil, fmt.Errorf("failed to decode conditions response: %w", err)
	}
	return &conditions, nil
}

// SyncSource fetches one source and stores a new snapshot row. On failure
// the last stored snapshot stays valid — widgets keep showing it.
func (c *ConditionsClient) SyncSource(ctx context.Context, source string) error {
	conditions, err := c.FetchCurrent(ctx, source)
	if err != nil {
		return err
	}

	fetchedAt := time.Now()
	if conditions.ObservedAt != "" {
		if ts, err := time.Parse(time.RFC3339, conditions.ObservedAt); err == nil {
			fetchedAt = ts
		}
	}

	snapshot := models.ConditionSnapshot{
		ID:           uuid.NewString(),
		Source:       source,
		TemperatureC: conditions.TemperatureC,
		SeaState:     conditions.SeaState,
		WindKph:      conditions.WindKph,
		Humidity:     conditions.Humidity,
		Flag:         conditions.Flag,
		FetchedAt:    fetchedAt,
	}
	if err := c.DB.Create(&snapshot).Error; err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}

	log.Printf("🌊 Conditions synced: %s → %.1f°C, %s, flag=%s",
		source, snapshot.TemperatureC, snapshot.SeaState, snapshot.Flag)
	return nil
}

// PollConditions runs the sync loop until ctx is cancelled.
func PollConditions(ctx context.Context, client *ConditionsClient, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sync := func() {
		for _, source := range []string{"beach", "weather"} {
			if err := client.SyncSource(ctx, source); err != nil {
				log.Printf("⚠️  [CONDITIONS] Sync failed for %s: %v", source, err)
			}
		}
	}

	sync()
	for {
		select {
		case <-ctx.Done():
			log.Println("Conditions polling stopped")
			return
		case <-ticker.C:
			sync()
		}
	}
}
