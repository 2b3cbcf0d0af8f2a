package service

import (
	"github.com/aminovt/solvault/internal/config"
	"github.com/aminovt/solvault/internal/logger"
	"github.com/aminovt/solvault/internal/store"
	"github.com/aminovt/solvault/models"
)

type Services struct {
	SessionService SessionService
	VaultService   VaultService
	AppInfoService AppInfoService
}

func NewServices(storages *store.Storages, cfg config.StructuredConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) *Services {
	return &Services{
		SessionService: NewSessionService(cfg.App, logger),
		VaultService:   NewVaultService(storages, cfg.App, logger),
		AppInfoService: NewAppInfoService(buildInfo, logger),
	}
}
