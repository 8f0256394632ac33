package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"telegram-admin-backend/internal/config"
	"telegram-admin-backend/internal/domain/ports/adapter"
	pg "telegram-admin-backend/internal/infra/db/postgres"
	"telegram-admin-backend/internal/infra/logging"
	"telegram-admin-backend/internal/infra/telegram"
	"telegram-admin-backend/internal/usecase"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var errPersistenceDisabled = errors.New("DATABASE_URL is not set")

// app carries what every subcommand needs; the factories are swapped in tests.
type app struct {
	cfgPath string
	cfg     *config.Config
	log     *zerolog.Logger
	out     io.Writer

	newGateway func(cfg *config.Config, logger *zerolog.Logger) adapter.MessagingGateway
}

func defaultGateway(cfg *config.Config, logger *zerolog.Logger) adapter.MessagingGateway {
	if !cfg.GatewayEnabled() {
		return telegram.NewNoopGateway(logger)
	}
	return telegram.NewGateway(&cfg.Telegram, logger)
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{out: os.Stdout, newGateway: defaultGateway})
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adminctl",
		Short: "Operate the Telegram admin backend",
		Long: `Operational commands for the Telegram admin backend.
Reads the same configuration (YAML, .env, environment) as the server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg != nil {
				return nil
			}
			a.cfg = config.Load(a.cfgPath)
			a.log = logging.New(a.cfg.Log, a.cfg.Dev())
			a.cfg.LogWarnings(a.log)
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&a.cfgPath, "config", "config.yaml", "path to optional YAML config file")
	cmd.SetOut(a.out)

	cmd.AddCommand(
		newInitDBCmd(a),
		newCreateAdminCmd(a),
		newBotInfoCmd(a),
		newSetWebhookCmd(a),
		newDeleteWebhookCmd(a),
	)
	return cmd
}

func (a *app) openDB() (*pg.DB, error) {
	if !a.cfg.PersistenceEnabled() {
		return nil, errPersistenceDisabled
	}
	return pg.NewDB(a.cfg.Database.URL, a.cfg.Database.MaxConns, a.log), nil
}

func newInitDBCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the database tables if they do not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()
			if err := db.InitializeTables(cmd.Context()); err != nil {
				return fmt.Errorf("initializing tables: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "tables ready")
			return nil
		},
	}
}

func newCreateAdminCmd(a *app) *cobra.Command {
	var email, password, name string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account, bypassing the registration policy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()
			if err := db.InitializeTables(cmd.Context()); err != nil {
				return fmt.Errorf("initializing tables: %w", err)
			}
			auth := usecase.NewAuthUseCase(pg.NewAdminUserRepo(db), pg.NewTxManager(db), true, a.log)
			u, err := auth.Register(cmd.Context(), email, password, name)
			if err != nil {
				return fmt.Errorf("creating admin: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", u.Email, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email (required)")
	cmd.Flags().StringVar(&password, "password", "", "admin password, at least 8 characters (required)")
	cmd.Flags().StringVar(&name, "name", "", "display name (defaults to the email local part)")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newBotInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bot-info",
		Short: "Show the identity of the configured bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := a.newGateway(a.cfg, a.log).GetBotIdentity(cmd.Context())
			if !ok {
				return errors.New("bot identity unavailable; check TELEGRAM_BOT_TOKEN")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "id: %d\nusername: @%s\nname: %s\n", id.ID, id.Username, id.FirstName)
			return nil
		},
	}
}

func newSetWebhookCmd(a *app) *cobra.Command {
	var url string
	cmd := &cobra.Command{
		Use:   "set-webhook",
		Short: "Register the webhook URL with Telegram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				url = a.cfg.WebhookURL()
			}
			if url == "" {
				return errors.New("no webhook url: pass --url or set PUBLIC_BASE_URL")
			}
			if !a.newGateway(a.cfg, a.log).RegisterWebhook(cmd.Context(), url) {
				return fmt.Errorf("registering webhook %s failed", url)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "webhook set to %s\n", url)
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "webhook url (defaults to PUBLIC_BASE_URL + "+config.WebhookPath+")")
	return cmd
}

func newDeleteWebhookCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-webhook",
		Short: "Remove the webhook registration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.newGateway(a.cfg, a.log).DeleteWebhook(cmd.Context()) {
				return errors.New("deleting webhook failed")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "webhook deleted")
			return nil
		},
	}
}
