package workers

import (
	"github.com/aminovt/solvault/internal/config"
	"github.com/aminovt/solvault/internal/logger"
	"github.com/aminovt/solvault/internal/store"
)

type Workers struct {
	workers []Worker
}

// NewWorkers assembles the background worker set from configuration.
// A zero audit interval disables the auditor.
func NewWorkers(storages *store.Storages, cfg config.Workers, logger *logger.Logger) *Workers {
	workers := &Workers{}

	if cfg.AuditInterval > 0 {
		workers.workers = append(workers.workers, NewAuditor(storages.States, storages.Book, cfg, logger))
	}

	return workers
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}
