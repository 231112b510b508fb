package fx

import (
	"ranked-clicker/internal/config"
	"ranked-clicker/internal/database"
	"ranked-clicker/internal/logger"
	"ranked-clicker/internal/repository"
	"ranked-clicker/internal/server"
	"ranked-clicker/internal/service"

	"go.uber.org/fx"
)

func provideProfileStore(r *repository.ProfileRepository) service.ProfileStore {
	return r
}

func provideHistoryStore(r *repository.MatchHistoryRepository) service.HistoryStore {
	return r
}

func provideLeaderboardStore(r *repository.LeaderboardRepository) service.LeaderboardStore {
	return r
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewProfileRepository),
	fx.Provide(repository.NewMatchHistoryRepository),
	fx.Provide(repository.NewLeaderboardRepository),
	fx.Provide(provideProfileStore),
	fx.Provide(provideHistoryStore),
	fx.Provide(provideLeaderboardStore),
	// svc
	fx.Provide(service.NewProfileService),
	fx.Provide(service.NewGameService),
	fx.Provide(service.NewLeaderboardService),
	fx.Provide(service.NewRCCSService),
	// server
	fx.Provide(server.NewGameServer),
)
