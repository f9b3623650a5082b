package weatherapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const fixture = `{
  "location": {"region": "Attica", "country": "Greece"},
  "current": {
    "temp_c": 31.5,
    "wind_kph": 14.0,
    "humidity": 40,
    "feelslike_c": 33.0,
    "condition": {"text": "Sunny"}
  },
  "forecast": {
    "forecastday": [
      {
        "date": "2026-08-30",
        "day": {
          "avgtemp_c": 30.0,
          "mintemp_c": 24.0,
          "maxtemp_c": 36.0,
          "maxwind_kph": 18.5,
          "avghumidity": 38,
          "condition": {"text": "Sunny"}
        }
      },
      {
        "date": "2026-08-31",
        "day": {
          "avgtemp_c": 24.0,
          "mintemp_c": 20.0,
          "maxtemp_c": 28.0,
          "maxwind_kph": 12.0,
          "avghumidity": 45,
          "condition": {"text": "Partly cloudy"}
        }
      }
    ]
  }
}`

func TestClientFetchForecast(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/forecast.json", r.URL.Path)
		gotQuery = map[string]string{}
		for key, values := range r.URL.Query() {
			gotQuery[key] = values[0]
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fixture))
	}))
	defer server.Close()

	client, err := NewClient("test-key", server.URL, 11)
	require.NoError(t, err)

	bundle, err := client.FetchForecast(context.Background(), 37.98, 23.72)
	require.NoError(t, err)

	require.Equal(t, "test-key", gotQuery["key"])
	require.Equal(t, "37.980000,23.720000", gotQuery["q"])
	require.Equal(t, "11", gotQuery["days"])
	require.Equal(t, "no", gotQuery["alerts"])
	require.Equal(t, "no", gotQuery["aqi"])
	require.Equal(t, "24", gotQuery["tp"])

	require.Equal(t, "Attica", bundle.Location.Region)
	require.Equal(t, "Greece", bundle.Location.Country)

	require.Equal(t, "2026-08-30", bundle.Current.Date)
	require.Equal(t, 31.5, bundle.Current.Temp)
	require.Equal(t, "Sunny", bundle.Current.Condition)
	require.Equal(t, 24.0, bundle.Current.MinTemp)
	require.Equal(t, 36.0, bundle.Current.MaxTemp)

	require.Len(t, bundle.Days, 2)
	require.Equal(t, 30.0, bundle.Days[0].AvgTemp)
	require.Equal(t, 18.5, bundle.Days[0].WindSpeed)
	require.Equal(t, "Partly cloudy", bundle.Days[1].Condition)
}

func TestClientFetchForecastUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"API key is invalid"}}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client, err := NewClient("bad-key", server.URL, 11)
	require.NoError(t, err)

	_, err = client.FetchForecast(context.Background(), 0, 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=401")
}

func TestClientFetchForecastEmptyDays(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"location":{},"current":{},"forecast":{"forecastday":[]}}`))
	}))
	defer server.Close()

	client, err := NewClient("test-key", server.URL, 11)
	require.NoError(t, err)

	_, err = client.FetchForecast(context.Background(), 1, 1)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no days")
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient("  ", "", 11)
	require.Error(t, err)
}
