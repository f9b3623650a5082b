package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sunpeak/solar-advisor/internal/domain/advisor"
	"github.com/sunpeak/solar-advisor/internal/domain/chat"
	"github.com/sunpeak/solar-advisor/internal/domain/forecast"
	"github.com/sunpeak/solar-advisor/internal/infra/config"
	apperrors "github.com/sunpeak/solar-advisor/pkg/errors"
)

func TestRouter_CreateSession(t *testing.T) {
	chatSvc := &stubChat{sessionID: "abc-123"}
	server := newServerUnderTest(t, chatSvc, &stubForecast{}, &stubAdvisor{})

	rec := performRequest(http.MethodGet, "/create_session", "", server)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "abc-123", body["sessionId"])
}

func TestRouter_ChatSuccess(t *testing.T) {
	chatSvc := &stubChat{
		submitFn: func(ctx context.Context, req chat.Request) (chat.Response, error) {
			require.Equal(t, "sess-1", req.SessionID)
			require.Equal(t, "hello", req.Message)
			return chat.Response{SessionID: "sess-1", Response: "hi!"}, nil
		},
	}
	server := newServerUnderTest(t, chatSvc, &stubForecast{}, &stubAdvisor{})

	rec := performRequest(http.MethodPost, "/chat", `{"sessionId":"sess-1","message":"hello"}`, server)
	require.Equal(t, http.StatusOK, rec.Code)

	var body chat.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "sess-1", body.SessionID)
	require.Equal(t, "hi!", body.Response)
}

func TestRouter_ChatEmptyMessage(t *testing.T) {
	chatSvc := &stubChat{
		submitFn: func(ctx context.Context, req chat.Request) (chat.Response, error) {
			return chat.Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "message cannot be empty", nil)
		},
	}
	server := newServerUnderTest(t, chatSvc, &stubForecast{}, &stubAdvisor{})

	rec := performRequest(http.MethodPost, "/chat", `{"message":""}`, server)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, decodeError(t, rec.Body.Bytes()), "message cannot be empty")
}

func TestRouter_ChatUpstreamFailure(t *testing.T) {
	chatSvc := &stubChat{
		submitFn: func(ctx context.Context, req chat.Request) (chat.Response, error) {
			return chat.Response{}, apperrors.Wrap(apperrors.CodeUpstreamError, "language model request failed", nil)
		},
	}
	server := newServerUnderTest(t, chatSvc, &stubForecast{}, &stubAdvisor{})

	rec := performRequest(http.MethodPost, "/chat", `{"message":"hello"}`, server)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, decodeError(t, rec.Body.Bytes()), "language model request failed")
}

func TestRouter_PredictSuccess(t *testing.T) {
	forecastSvc := &stubForecast{
		predictFn: func(ctx context.Context, req forecast.Request) (forecast.Response, error) {
			require.NotNil(t, req.Lat)
			require.NotNil(t, req.Lon)
			require.Equal(t, 0.0, *req.Lat)
			require.Equal(t, 0.0, *req.Lon)
			return forecast.Response{Output: []float64{100}}, nil
		},
	}
	server := newServerUnderTest(t, &stubChat{}, forecastSvc, &stubAdvisor{})

	// Zero coordinates are legitimate and must not be rejected as missing.
	rec := performRequest(http.MethodPost, "/predicted", `{"lat":0,"lon":0}`, server)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_PredictMissingCoordinate(t *testing.T) {
	forecastSvc := &stubForecast{
		predictFn: func(ctx context.Context, req forecast.Request) (forecast.Response, error) {
			require.Nil(t, req.Lon)
			return forecast.Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "latitude and longitude are required", nil)
		},
	}
	server := newServerUnderTest(t, &stubChat{}, forecastSvc, &stubAdvisor{})

	rec := performRequest(http.MethodPost, "/predicted", `{"lat":48.1}`, server)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, decodeError(t, rec.Body.Bytes()), "required")
}

func TestRouter_GenerateInstructions(t *testing.T) {
	payload := `{"forecast":[{"temp":31}]}`
	advisorSvc := &stubAdvisor{
		generateFn: func(ctx context.Context, weatherPayload []byte) (advisor.Advisory, error) {
			require.JSONEq(t, payload, string(weatherPayload))
			return advisor.Advisory{
				Alert:        advisor.Alert{IsActive: true, Description: "hot"},
				Instructions: []string{"rinse panels"},
			}, nil
		},
	}
	server := newServerUnderTest(t, &stubChat{}, &stubForecast{}, advisorSvc)

	rec := performRequest(http.MethodPost, "/generate_instructions", payload, server)
	require.Equal(t, http.StatusOK, rec.Code)

	var body advisor.Advisory
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Alert.IsActive)
	require.Equal(t, []string{"rinse panels"}, body.Instructions)
}

func TestRouter_GenerateInstructionsMalformedModelReply(t *testing.T) {
	advisorSvc := &stubAdvisor{
		generateFn: func(ctx context.Context, weatherPayload []byte) (advisor.Advisory, error) {
			return advisor.Advisory{}, apperrors.Wrap(apperrors.CodeMalformedResponse, "advisory response malformed", nil)
		},
	}
	server := newServerUnderTest(t, &stubChat{}, &stubForecast{}, advisorSvc)

	rec := performRequest(http.MethodPost, "/generate_instructions", `{"temp":30}`, server)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, decodeError(t, rec.Body.Bytes()), "malformed")
}

func performRequest(method, path, body string, server *http.Server) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newServerUnderTest(t *testing.T, chatSvc chat.Service, forecastSvc forecast.Service, advisorSvc advisor.Service) *http.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(chatSvc, forecastSvc, advisorSvc, logger)
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	return NewRouter(cfg, handler, logger)
}

func decodeError(t *testing.T, raw []byte) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	require.NotEmpty(t, body["error"])
	return body["error"]
}

type stubChat struct {
	sessionID string
	submitFn  func(ctx context.Context, req chat.Request) (chat.Response, error)
}

func (s *stubChat) CreateSession(context.Context) string {
	return s.sessionID
}

func (s *stubChat) SubmitTurn(ctx context.Context, req chat.Request) (chat.Response, error) {
	if s.submitFn != nil {
		return s.submitFn(ctx, req)
	}
	return chat.Response{}, nil
}

type stubForecast struct {
	predictFn func(ctx context.Context, req forecast.Request) (forecast.Response, error)
}

func (s *stubForecast) Predict(ctx context.Context, req forecast.Request) (forecast.Response, error) {
	if s.predictFn != nil {
		return s.predictFn(ctx, req)
	}
	return forecast.Response{}, nil
}

type stubAdvisor struct {
	generateFn func(ctx context.Context, weatherPayload []byte) (advisor.Advisory, error)
}

func (s *stubAdvisor) Generate(ctx context.Context, weatherPayload []byte) (advisor.Advisory, error) {
	if s.generateFn != nil {
		return s.generateFn(ctx, weatherPayload)
	}
	return advisor.Advisory{}, nil
}
