// Package wire provides dependency injection for the pdfpress
// application. It creates singleton services with lazy initialization.
package wire

import (
	"log"
	"sync"

	"github.com/example/pdfpress/internal/adapters/filesystem"
	"github.com/example/pdfpress/internal/adapters/ghostscript"
	"github.com/example/pdfpress/internal/adapters/pdfinfo"
	"github.com/example/pdfpress/internal/adapters/sqlite"
	"github.com/example/pdfpress/internal/adapters/term"
	"github.com/example/pdfpress/internal/adapters/tesseract"
	"github.com/example/pdfpress/internal/app"
	"github.com/example/pdfpress/internal/db"
	"github.com/example/pdfpress/internal/ports/primary"
	"github.com/example/pdfpress/internal/ports/secondary"
)

var (
	profileService primary.ProfileService
	batchService   primary.BatchService
	statsService   primary.StatsService
	catalogRepo    secondary.CatalogRepository
	outcomeRepo    secondary.OutcomeRepository
	once           sync.Once
)

// ProfileService returns the singleton ProfileService instance.
func ProfileService() primary.ProfileService {
	once.Do(initServices)
	return profileService
}

// BatchService returns the singleton BatchService instance.
func BatchService() primary.BatchService {
	once.Do(initServices)
	return batchService
}

// StatsService returns the singleton StatsService instance.
func StatsService() primary.StatsService {
	once.Do(initServices)
	return statsService
}

// CatalogRepo returns the singleton catalog repository.
func CatalogRepo() secondary.CatalogRepository {
	once.Do(initServices)
	return catalogRepo
}

// OutcomeRepo returns the singleton outcome repository.
func OutcomeRepo() secondary.OutcomeRepository {
	once.Do(initServices)
	return outcomeRepo
}

// Backends builds the backend catalog mapped to transformer
// implementations, keyed by the seeded backend IDs.
func Backends(files *filesystem.Manager) map[int64]secondary.Transformer {
	gs := ghostscript.New(ghostscript.VariantFull)
	ocr := tesseract.NewOCR()

	return map[int64]secondary.Transformer{
		1: gs,
		2: ghostscript.New(ghostscript.VariantStandard),
		3: ghostscript.New(ghostscript.VariantImageOnly),
		4: ocr,
		5: tesseract.NewCombined(ocr, gs, files.ScratchPath, files.Remove),
	}
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Repository adapters (secondary ports) with injected DB
	outcomeRepo = sqlite.NewOutcomeRepo(database)
	profileRepo := sqlite.NewProfileRepo(database)
	catalogRepo = sqlite.NewCatalogRepo(database)

	files := filesystem.NewManager("")
	reporter := term.NewReporter()
	backends := Backends(files)

	pipeline := app.NewPipelineService(
		outcomeRepo, catalogRepo, pdfinfo.NewCounter(), files, backends, reporter)

	// Services (primary ports implementation)
	profileService = app.NewProfileService(profileRepo, outcomeRepo, catalogRepo)
	batchService = app.NewBatchService(pipeline, profileService, backends, reporter)
	statsService = app.NewStatsService(outcomeRepo)
}
