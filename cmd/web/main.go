package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/user"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/de-tools/license-atlas/pkg/models/domain"
	"github.com/de-tools/license-atlas/pkg/server"
	"github.com/de-tools/license-atlas/pkg/services/audit"
	"github.com/de-tools/license-atlas/pkg/services/classifier"
	"github.com/de-tools/license-atlas/pkg/services/config"
	"github.com/de-tools/license-atlas/pkg/services/pipeline"
	"github.com/de-tools/license-atlas/pkg/services/registry"
	"github.com/de-tools/license-atlas/pkg/services/session"
	"github.com/de-tools/license-atlas/pkg/services/workspace"
	"github.com/de-tools/license-atlas/pkg/store/duckdb"
	duckdbreport "github.com/de-tools/license-atlas/pkg/store/duckdb/report"
	redisstore "github.com/de-tools/license-atlas/pkg/store/redis"
	sessionstore "github.com/de-tools/license-atlas/pkg/store/session"
)

var (
	cfgPath      string
	registryPath string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the License Atlas audit server",
		RunE:  runServer,
	}

	usr, _ := user.Current()
	defaultRegistry := fmt.Sprintf("%s/.licenseatlas", usr.HomeDir)

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the server configuration file")
	rootCmd.Flags().StringVarP(&registryPath, "registry", "r", defaultRegistry,
		"Path to the domain profile registry (default is $HOME/.licenseatlas)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.RegistryPath != "" {
		registryPath = cfg.RegistryPath
	}

	reg, err := registry.NewRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to open profile registry: %w", err)
	}

	logger.Info().Msgf("Profile registry found at `%s` successfully loaded.", registryPath)
	profiles, _ := reg.GetProfiles(ctx)
	for _, profile := range profiles {
		logger.Info().Msgf("Domain: `%s`, Admin: `%s`", profile.Name, profile.AdminSubject)
	}

	sessions, err := buildSessionManager(cfg)
	if err != nil {
		return err
	}

	db, err := duckdb.NewDB(duckdb.Settings{
		DbPath: cfg.DatabasePath,
	})
	if err != nil {
		return fmt.Errorf("failed to create DuckDB instance: %w", err)
	}

	reports, err := duckdbreport.NewStore(db, duckdbreport.Settings{Expiry: cfg.ReportExpiry()})
	if err != nil {
		return fmt.Errorf("failed to create report store: %w", err)
	}

	source := pipeline.NewSource(reg, func(ctx context.Context, profile domain.DomainProfile) (workspace.Explorer, error) {
		return workspace.NewGoogleExplorer(ctx, profile)
	})

	cls := classifier.NewHeuristic(classifier.Settings{
		InactiveDays: cfg.Classifier.InactiveDays,
		StaleDays:    cfg.Classifier.StaleDays,
	})

	auditSettings := audit.DefaultSettings()
	auditSettings.ConfidenceThreshold = cfg.Audit.ConfidenceThreshold
	auditSettings.MinRecommendationSavings = cfg.Audit.MinRecommendationSavings
	auditSettings.HighImpactSavings = cfg.Audit.HighImpactSavings
	auditSettings.MediumImpactSavings = cfg.Audit.MediumImpactSavings

	runner := pipeline.NewController(sessions, source, cls, reports, pipeline.Config{
		ReportURLBase:         cfg.ReportURLBase,
		MaxLicensesPerRequest: cfg.MaxLicensesPerRequest,
		AuditSettings:         auditSettings,
	})

	webAPI := server.NewWebAPI(logger, server.Config{
		Addr:        net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		CORSOrigins: cfg.Server.CORSOrigins,
		Dependencies: server.Dependencies{
			Sessions: sessions,
			Runner:   runner,
			Reports:  reports,
		},
	})

	return webAPI.Start()
}

func buildSessionManager(cfg *config.Config) (*session.Manager, error) {
	managerConfig := session.DefaultConfig()
	managerConfig.TTL = cfg.SessionTTL()
	managerConfig.TotalSteps = len(pipeline.Steps)
	managerConfig.InitialStep = pipeline.StepFetchingWorkspaceData

	if cfg.Session.RedisURL == "" {
		store := sessionstore.NewMemoryStore()
		go func() {
			ticker := time.NewTicker(10 * time.Minute)
			defer ticker.Stop()
			for now := range ticker.C {
				store.PurgeExpired(now)
			}
		}()
		return session.NewManager(store, managerConfig), nil
	}

	opts, err := redis.ParseURL(cfg.Session.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	return session.NewManager(redisstore.NewSessionStore(client), managerConfig), nil
}
