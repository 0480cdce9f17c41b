// Package weather fetches current conditions and air quality from OpenWeatherMap.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/otion-app/otion/internal/model"
	"github.com/otion-app/otion/internal/observability"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	ErrNotConfigured = errors.New("weather api key is not configured")
	ErrNoData        = errors.New("weather api returned no data")
)

type Config struct {
	APIKey  string
	BaseURL string
	Lang    string // OpenWeatherMap language code, e.g. "kr"
	Timeout time.Duration
}

type Client struct {
	config     Config
	httpClient *http.Client
	lang       language.Tag
}

func NewClient(config Config) *Client {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		lang: languageTag(config.Lang),
	}
}

// Current returns the temperature, condition and PM10 level at the coordinates.
func (c *Client) Current(ctx context.Context, lat, lon float64) (*model.Conditions, error) {
	if c.config.APIKey == "" {
		return nil, ErrNotConfigured
	}

	coords := url.Values{}
	coords.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	coords.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	params := cloneValues(coords)
	params.Set("units", "metric")
	if c.config.Lang != "" {
		params.Set("lang", c.config.Lang)
	}

	var current currentResponse
	err := c.get(ctx, "/data/2.5/weather", params, &current)
	if err != nil {
		return nil, err
	}
	if len(current.Weather) == 0 {
		return nil, ErrNoData
	}

	var air airPollutionResponse
	err = c.get(ctx, "/data/2.5/air_pollution", coords, &air)
	if err != nil {
		return nil, err
	}
	if len(air.List) == 0 {
		return nil, ErrNoData
	}

	return &model.Conditions{
		Temp:   int(math.Round(current.Main.Temp)),
		Status: cases.Title(c.lang).String(current.Weather[0].Description), // Casers are not safe for concurrent use
		Icon:   current.Weather[0].Icon,
		City:   current.Name,
		Dust:   int(math.Round(air.List[0].Components.PM10)),
	}, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) (err error) {
	start := time.Now()
	defer func() { observability.ObserveUpstream("weather", start, err) }()

	params = cloneValues(params)
	params.Set("appid", c.config.APIKey)
	fullURL := fmt.Sprintf("%s%s?%s", c.config.BaseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http get %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		slog.Warn("weather api error", "endpoint", endpoint, "status", resp.StatusCode)
		return fmt.Errorf("weather api error: %s status %d", endpoint, resp.StatusCode)
	}

	err = json.Unmarshal(body, out)
	if err != nil {
		return fmt.Errorf("unmarshal %s: %w", endpoint, err)
	}

	return nil
}

func cloneValues(v url.Values) url.Values {
	out := url.Values{}
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}

// languageTag maps OpenWeatherMap language codes to BCP 47 tags for casing.
func languageTag(lang string) language.Tag {
	switch lang {
	case "", "en":
		return language.English
	case "kr":
		return language.Korean
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return language.Und
	}
	return tag
}
