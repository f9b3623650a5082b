package weatherapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sunpeak/solar-advisor/internal/domain/forecast"
)

const defaultBaseURL = "https://api.weatherapi.com/v1"

// Client fetches multi-day forecasts from WeatherAPI.com.
type Client struct {
	apiKey     string
	baseURL    string
	days       int
	httpClient *http.Client
}

// NewClient builds an API client. days is the forecast horizon including the
// current day.
func NewClient(apiKey, baseURL string, days int) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("weather api key cannot be empty")
	}
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(base, "/"),
		days:    days,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// FetchForecast retrieves and normalizes the forecast for a coordinate pair.
func (c *Client) FetchForecast(ctx context.Context, lat, lon float64) (forecast.Bundle, error) {
	values := url.Values{}
	values.Set("q", fmt.Sprintf("%f,%f", lat, lon))
	values.Set("days", fmt.Sprintf("%d", c.days))
	values.Set("alerts", "no")
	values.Set("aqi", "no")
	values.Set("tp", "24")
	values.Set("key", c.apiKey)
	endpoint := fmt.Sprintf("%s/forecast.json?%s", c.baseURL, values.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return forecast.Bundle{}, fmt.Errorf("build forecast request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return forecast.Bundle{}, fmt.Errorf("forecast request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return forecast.Bundle{}, fmt.Errorf("forecast request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	var raw apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return forecast.Bundle{}, fmt.Errorf("decode forecast response: %w", err)
	}

	return normalize(raw)
}

type apiResponse struct {
	Location struct {
		Region  string `json:"region"`
		Country string `json:"country"`
	} `json:"location"`
	Current struct {
		TempC      float64 `json:"temp_c"`
		WindKph    float64 `json:"wind_kph"`
		Humidity   float64 `json:"humidity"`
		FeelslikeC float64 `json:"feelslike_c"`
		Condition  struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
	Forecast struct {
		Forecastday []forecastDay `json:"forecastday"`
	} `json:"forecast"`
}

type forecastDay struct {
	Date string `json:"date"`
	Day  struct {
		AvgtempC    float64 `json:"avgtemp_c"`
		MintempC    float64 `json:"mintemp_c"`
		MaxtempC    float64 `json:"maxtemp_c"`
		MaxwindKph  float64 `json:"maxwind_kph"`
		Avghumidity float64 `json:"avghumidity"`
		Condition   struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"day"`
}

func normalize(raw apiResponse) (forecast.Bundle, error) {
	if len(raw.Forecast.Forecastday) == 0 {
		return forecast.Bundle{}, errors.New("forecast response contains no days")
	}

	days := make([]forecast.Day, 0, len(raw.Forecast.Forecastday))
	for _, fd := range raw.Forecast.Forecastday {
		days = append(days, forecast.Day{
			Date:      fd.Date,
			AvgTemp:   fd.Day.AvgtempC,
			Condition: fd.Day.Condition.Text,
			WindSpeed: fd.Day.MaxwindKph,
			Humidity:  fd.Day.Avghumidity,
			MinTemp:   fd.Day.MintempC,
			MaxTemp:   fd.Day.MaxtempC,
		})
	}

	today := raw.Forecast.Forecastday[0]
	return forecast.Bundle{
		Location: forecast.Location{
			Region:  raw.Location.Region,
			Country: raw.Location.Country,
		},
		Current: forecast.Current{
			Date:      today.Date,
			Temp:      raw.Current.TempC,
			Condition: raw.Current.Condition.Text,
			WindSpeed: raw.Current.WindKph,
			Humidity:  raw.Current.Humidity,
			FeelsLike: raw.Current.FeelslikeC,
			MinTemp:   today.Day.MintempC,
			MaxTemp:   today.Day.MaxtempC,
		},
		Days: days,
	}, nil
}
