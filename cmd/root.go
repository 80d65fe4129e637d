package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/handreceipt/hr-cli/internal/adapters/api"
	"github.com/handreceipt/hr-cli/internal/adapters/repository"
	"github.com/handreceipt/hr-cli/internal/core/services"
	"github.com/handreceipt/hr-cli/pkg/config"
	"github.com/handreceipt/hr-cli/pkg/ui"
	"github.com/handreceipt/hr-cli/pkg/vault"
)

var (
	// Global vault instance
	appVault  *vault.Vault
	appConfig *config.Config
	appLogger *zap.Logger

	// Server base URL override (flag > HR_SERVER > config)
	serverFlag string

	// Adapters
	apiClient    *api.Client
	tokenStore   *repository.TokenStore
	queueStore   *repository.QueueStore
	cacheStore   *repository.CacheStore
	catalogStore *repository.CatalogStore

	// Services
	authService       *services.AuthService
	propertyService   *services.PropertyService
	transferService   *services.TransferService
	connectionService *services.ConnectionService
	documentService   *services.DocumentService
	importService     *services.ImportService
	nsnService        *services.NSNService
	syncService       *services.SyncService
	statsService      *services.StatsService
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hr",
	Short: "HR - HandReceipt property book client",
	Long: ui.StyleTitle.Render("HR") + " - HandReceipt CLI\n\n" +
		"A terminal client for the HandReceipt property book server.\n" +
		"Works offline: mutations queue locally and replay when the server is back.",
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", "", "server base URL (overrides HR_SERVER and config)")

	// Add subcommands
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(photoCmd)
	rootCmd.AddCommand(transferCmd)
	rootCmd.AddCommand(connectionsCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(nsnCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(exploreCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp initializes the application components
func initializeApp(cmd *cobra.Command, args []string) error {
	// Skip initialization for init command
	if cmd.Name() == "init" {
		return nil
	}

	// Create vault instance
	v, err := vault.New()
	if err != nil {
		return fmt.Errorf("failed to initialize vault: %w", err)
	}
	appVault = v

	// Check if vault exists
	if !appVault.Exists() {
		fmt.Println(ui.FormatError("Vault not initialized"))
		fmt.Println(ui.FormatInfo("Run 'hr init' to set up the vault"))
		os.Exit(1)
	}

	// Load config and apply the theme before any styled output
	cfg, err := config.Load(appVault.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	appConfig = cfg
	ui.SetTheme(cfg.ColorTheme)

	appLogger = newFileLogger(appVault.LogPath())

	// Initialize stores
	tokenStore = repository.NewTokenStore(appVault)
	queueStore = repository.NewQueueStore(appVault)
	cacheStore = repository.NewCacheStore(appVault)

	catalog, err := repository.OpenCatalog(appVault.CatalogPath())
	if err != nil {
		return fmt.Errorf("failed to open NSN catalog: %w", err)
	}
	catalogStore = catalog

	// API client and per-port adapters
	apiClient = api.New(config.ResolveServerURL(serverFlag, cfg), cfg.Timeout(), tokenStore)
	authClient := api.NewAuthClient(apiClient)
	propertyClient := api.NewPropertyClient(apiClient)
	transferClient := api.NewTransferClient(apiClient)
	connectionClient := api.NewConnectionClient(apiClient)
	documentClient := api.NewDocumentClient(apiClient)
	importClient := api.NewImportClient(apiClient)
	referenceClient := api.NewReferenceClient(apiClient)

	// A zero TTL makes every cached collection immediately stale, which
	// keeps the offline fallback working with caching "disabled"
	ttl := cfg.CacheTTL()
	if !cfg.EnableCache {
		ttl = 0
	}

	// Initialize services
	authService = services.NewAuthService(authClient, tokenStore, cacheStore)
	propertyService = services.NewPropertyService(propertyClient, cacheStore, queueStore, ttl)
	transferService = services.NewTransferService(transferClient, cacheStore, ttl)
	connectionService = services.NewConnectionService(connectionClient, cacheStore, ttl)
	documentService = services.NewDocumentService(documentClient, cacheStore, ttl)
	importService = services.NewImportService(importClient, propertyClient, cfg.DuplicateThreshold, cfg.MaxScanDimension)
	nsnService = services.NewNSNService(referenceClient, catalogStore)
	syncService = services.NewSyncService(queueStore, propertyClient, apiClient, cacheStore, appLogger)
	statsService = services.NewStatsService(propertyService, transferService)

	return nil
}

// newFileLogger builds a zap logger writing to the vault log file.
// Failures degrade to a no-op logger rather than blocking the command.
func newFileLogger(path string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// getContext returns a context for operations
func getContext() context.Context {
	return context.Background()
}
