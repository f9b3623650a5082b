package forecast

// Request captures the payload accepted by the prediction endpoint. Lat and
// lon are pointers so a literal 0 (equator, prime meridian) survives the
// presence check.
type Request struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// Location identifies the resolved place for a forecast.
type Location struct {
	Region  string `json:"region"`
	Country string `json:"country"`
}

// Current describes present conditions plus today's temperature range.
type Current struct {
	Date      string  `json:"date"`
	Temp      float64 `json:"temp"`
	Condition string  `json:"condition"`
	WindSpeed float64 `json:"windSpeed"`
	Humidity  float64 `json:"humidity"`
	FeelsLike float64 `json:"feelsLike"`
	MinTemp   float64 `json:"minTemp"`
	MaxTemp   float64 `json:"maxTemp"`
}

// Day is one normalized forecast day, decoupled from upstream field names.
type Day struct {
	Date      string  `json:"date"`
	AvgTemp   float64 `json:"temp"`
	Condition string  `json:"condition"`
	WindSpeed float64 `json:"windSpeed"`
	Humidity  float64 `json:"humidity"`
	MinTemp   float64 `json:"minTemp"`
	MaxTemp   float64 `json:"maxTemp"`
}

// Bundle is the normalized multi-day forecast produced by the upstream client.
type Bundle struct {
	Location Location
	Current  Current
	Days     []Day
}

// Response is serialized back to API consumers. Output carries the remaining
// solar output percentage per forecast day.
type Response struct {
	Location Location  `json:"location"`
	Current  Current   `json:"current"`
	Forecast []Day     `json:"forecast"`
	Output   []float64 `json:"output"`
}
