package fx

import (
	"wh40k-club-tracker/internal/config"
	"wh40k-club-tracker/internal/database"
	"wh40k-club-tracker/internal/logger"
	"wh40k-club-tracker/internal/repository"
	"wh40k-club-tracker/internal/server"
	"wh40k-club-tracker/internal/service"
	"wh40k-club-tracker/internal/sharedstore"

	"go.uber.org/fx"
)

func providePlayerStore(repo *repository.PlayerRepository) service.PlayerStore {
	return repo
}

func provideBattleStore(repo *repository.BattleRepository) service.BattleStore {
	return repo
}

func provideSeasonStore(repo *repository.SeasonRepository) service.SeasonStore {
	return repo
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewPlayerRepository),
	fx.Provide(repository.NewBattleRepository),
	fx.Provide(repository.NewSeasonRepository),
	fx.Provide(providePlayerStore),
	fx.Provide(provideBattleStore),
	fx.Provide(provideSeasonStore),
	// shared store client
	fx.Provide(sharedstore.NewClient),
	// svc
	fx.Provide(service.NewStatsService),
	fx.Provide(service.NewPlayerService),
	fx.Provide(service.NewBattleService),
	fx.Provide(service.NewSeasonService),
	fx.Provide(service.NewSyncService),
	// server
	fx.Provide(server.NewClubServer),
)
