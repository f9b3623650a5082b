package forecast

import (
	"context"
	"log/slog"

	apperrors "github.com/sunpeak/solar-advisor/pkg/errors"
)

// Service exposes forecast retrieval with the solar output derivation.
type Service interface {
	Predict(ctx context.Context, req Request) (Response, error)
}

// Client abstracts the upstream forecast provider.
type Client interface {
	FetchForecast(ctx context.Context, lat, lon float64) (Bundle, error)
}

type service struct {
	client Client
	logger *slog.Logger
}

// NewService wires up the forecast domain.
func NewService(client Client, logger *slog.Logger) Service {
	return &service{
		client: client,
		logger: logger.With("component", "forecast.service"),
	}
}

func (s *service) Predict(ctx context.Context, req Request) (Response, error) {
	if req.Lat == nil || req.Lon == nil {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "latitude and longitude are required", nil)
	}

	bundle, err := s.client.FetchForecast(ctx, *req.Lat, *req.Lon)
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeUpstreamError, "failed to fetch forecast", err)
	}
	s.logger.Info("forecast fetched", "days", len(bundle.Days), "region", bundle.Location.Region)

	output := make([]float64, 0, len(bundle.Days))
	for _, day := range bundle.Days {
		output = append(output, RemainingOutput(day.AvgTemp))
	}

	return Response{
		Location: bundle.Location,
		Current:  bundle.Current,
		Forecast: bundle.Days,
		Output:   output,
	}, nil
}
