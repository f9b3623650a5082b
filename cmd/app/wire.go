//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/sunpeak/solar-advisor/internal/bootstrap"
	"github.com/sunpeak/solar-advisor/internal/domain/advisor"
	"github.com/sunpeak/solar-advisor/internal/domain/chat"
	"github.com/sunpeak/solar-advisor/internal/domain/forecast"
	"github.com/sunpeak/solar-advisor/internal/infra/config"
	"github.com/sunpeak/solar-advisor/internal/infra/weatherapi"
	httpiface "github.com/sunpeak/solar-advisor/internal/interface/http"
	"github.com/sunpeak/solar-advisor/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideChatStore,
		provideConversationalist,
		provideAdvisorChatClient,
		provideAdvisorConfig,
		provideWeatherClient,
		chat.NewService,
		forecast.NewService,
		advisor.NewService,
		wire.Bind(new(forecast.Client), new(*weatherapi.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
