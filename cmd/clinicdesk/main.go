// Command clinicdesk is the front-desk client for browsing clinic
// services, quoting carts and looking up patients.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/juju/clock"

	"github.com/clinicdesk/clinicdesk/internal/adapters/driven/catalog/rest"
	"github.com/clinicdesk/clinicdesk/internal/adapters/driven/config/file"
	"github.com/clinicdesk/clinicdesk/internal/adapters/driven/storage/memory"
	"github.com/clinicdesk/clinicdesk/internal/adapters/driven/storage/sqlite"
	"github.com/clinicdesk/clinicdesk/internal/adapters/driven/watch"
	"github.com/clinicdesk/clinicdesk/internal/adapters/driving/cli"
	"github.com/clinicdesk/clinicdesk/internal/core/domain"
	"github.com/clinicdesk/clinicdesk/internal/core/ports/driven"
	"github.com/clinicdesk/clinicdesk/internal/core/services"
	"github.com/clinicdesk/clinicdesk/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("failed to open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}

	cli.SetVersion(version)

	// Config commands must keep working when the backend cannot be opened,
	// so a backend failure leaves the catalog services unset.
	wiring := cli.Services{Settings: settingsService}
	b, err := openBackend(*settings)
	if err != nil {
		logger.Error("Catalog backend unavailable: %v", err)
	} else {
		defer b.Close()

		catalog := services.NewCatalogStore(b.catalog)
		cart := services.NewCart()
		search := services.NewPatientSearch(b.patients, clock.WallClock, settings.Search.Debounce).
			WithContext(ctx)
		defer search.Close()

		var importer *services.CatalogImporter
		if b.writer != nil {
			importer = services.NewCatalogImporter(file.NewCatalogFileReader(), b.writer, catalog)
		} else {
			importer = services.NewCatalogImporter(nil, nil, catalog)
		}

		var changes cli.ChangeNotifier
		if b.watchPath != "" && settings.Catalog.Watch {
			changes = watchNotifier(b.watchPath)
		}

		wiring = cli.Services{
			Catalog:        catalog,
			Cart:           cart,
			Patients:       search,
			Importer:       importer,
			Settings:       settingsService,
			CatalogChanges: changes,
		}
		cli.SetTUIConfig(&cli.TUIConfig{
			CatalogService: catalog,
			CartService:    cart,
			PatientSearch:  search,
			CatalogChanges: changes,
		})
	}
	cli.SetServices(wiring)

	return cli.ExecuteContext(ctx)
}

// backend is the data source selected by catalog.backend.
type backend struct {
	catalog  driven.CatalogSource
	patients driven.PatientDirectory

	// writer is set only for backends that accept imports.
	writer driven.CatalogWriter

	// watchPath is the file to watch for changes, if any.
	watchPath string

	close func() error
}

// Close releases the backend.
func (b *backend) Close() {
	if b.close == nil {
		return
	}
	if err := b.close(); err != nil {
		logger.Warn("Closing backend: %v", err)
	}
}

func openBackend(settings domain.AppSettings) (*backend, error) {
	switch settings.Catalog.Backend {
	case domain.BackendSQLite:
		store, err := sqlite.NewStore(settings.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		return &backend{
			catalog:   store.CatalogSource(),
			patients:  store.PatientDirectory(),
			writer:    store,
			watchPath: store.Path(),
			close:     store.Close,
		}, nil

	case domain.BackendHTTP:
		client, err := rest.NewClient(rest.Config{
			BaseURL:   settings.API.BaseURL,
			Timeout:   settings.API.Timeout,
			RateLimit: float64(settings.API.RateLimit),
			Burst:     settings.API.Burst,
		})
		if err != nil {
			return nil, err
		}
		logger.Debug("Using clinic API at %s", client.BaseURL())
		return &backend{catalog: client, patients: client}, nil

	case domain.BackendMemory:
		demo := memory.NewDemoCatalog()
		return &backend{catalog: demo, patients: demo}, nil

	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedBackend, settings.Catalog.Backend)
	}
}

// watchNotifier adapts a database watcher to the CLI's change channel.
func watchNotifier(path string) cli.ChangeNotifier {
	return func(ctx context.Context) (<-chan struct{}, error) {
		changes, err := watch.New(path).Watch(ctx)
		if err != nil {
			return nil, err
		}

		out := make(chan struct{}, 1)
		go func() {
			defer close(out)
			for change := range changes {
				logger.Debug("Database changed (%s, %d events)", change.Op, change.Events)
				select {
				case out <- struct{}{}:
				default:
					// A reload is already pending.
				}
			}
		}()
		return out, nil
	}
}
