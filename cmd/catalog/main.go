package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"catalog-go/internal/app"
	"catalog-go/internal/config"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	paths, err := app.DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("resolving paths: %w", err)
	}

	cfg, err := config.ReadFromFile(paths.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return cfg, nil
}

// newApp reads the config and creates a CatalogApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "AddLocation", "Scan").
func newApp(ctx context.Context, operation string) (*app.CatalogApp, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.NewCatalogApp(ctx, cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

// closeApp closes a and reports a failed snapshot upload unless the command
// already failed.
func closeApp(a *app.CatalogApp, err *error) {
	if cerr := a.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}

// readPassphrase prompts on the terminal. CATALOG_PASSPHRASE is used when
// stdin is not a terminal.
func readPassphrase(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		if p := os.Getenv("CATALOG_PASSPHRASE"); p != "" {
			return p, nil
		}
		return "", fmt.Errorf("stdin is not a terminal and CATALOG_PASSPHRASE is not set")
	}
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(b), nil
}

var rootCmd = &cobra.Command{
	Use:          "catalog",
	Short:        "Index and track files across storage locations",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := app.DefaultPaths()
		if err != nil {
			return fmt.Errorf("failed to resolve paths: %w", err)
		}

		clientID := uuid.New().String()
		cfg := config.NewConfig(clientID, paths.BaseDir)

		if err := config.Init(paths.ConfigFile, cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", paths.ConfigFile)
		fmt.Printf("Client ID: %s\n", clientID)
		fmt.Printf("Base Dir:  %s\n", paths.BaseDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		archive := cfg.Archive.Type
		if archive == "" {
			archive = "(none)"
		}
		fmt.Printf("Client ID:  %s\n", cfg.ClientID)
		fmt.Printf("Library:    %s\n", cfg.Library)
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Database:   %s %s\n", cfg.Database.Type, cfg.Database.DataDir)
		fmt.Printf("Archive:    %s\n", archive)
		fmt.Printf("Encryption: %s\n", cfg.Encryption.Type)
		fmt.Printf("Listen:     %s\n", cfg.Server.Listen)
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the catalog database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := app.Migrate(cfg)
		if err != nil {
			return fmt.Errorf("migrating: %w", err)
		}
		fmt.Printf("Catalog schema at version %d\n", st.Current)
		return nil
	},
}

// keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage snapshot encryption keys",
}

var keysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate the snapshot key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		passphrase, err := readPassphrase("Passphrase: ")
		if err != nil {
			return err
		}
		confirm, err := readPassphrase("Confirm passphrase: ")
		if err != nil {
			return err
		}
		if passphrase != confirm {
			return fmt.Errorf("passphrases do not match")
		}
		if err := app.SetupKeys(cfg, passphrase); err != nil {
			return fmt.Errorf("generating keys: %w", err)
		}
		fmt.Printf("Keys written to %s\n", cfg.Encryption.PublicKeyPath)
		return nil
	},
}

// archive command
var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Manage catalog snapshots",
}

var archiveCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the archive is reachable and writable",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := app.CheckArchive(cmd.Context(), cfg); err != nil {
			return err
		}
		fmt.Printf("Archive %s OK\n", cfg.Archive.Type)
		return nil
	},
}

var archiveRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Replace the local catalog with the newest snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		passphrase, err := readPassphrase("Passphrase: ")
		if err != nil {
			return err
		}
		version, err := app.Restore(cmd.Context(), cfg, passphrase, force)
		if err != nil {
			return fmt.Errorf("restoring: %w", err)
		}
		fmt.Printf("Restored catalog at version %d\n", version)
		return nil
	},
}

// serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API and progress events",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		listen, _ := cmd.Flags().GetString("listen")

		a, err := newApp(cmd.Context(), "Serve")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		return a.Serve(cmd.Context(), listen)
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	keysCmd.AddCommand(keysInitCmd)

	archiveCmd.AddCommand(archiveCheckCmd)
	archiveCmd.AddCommand(archiveRestoreCmd)
	archiveRestoreCmd.Flags().Bool("force", false, "Replace an existing local catalog")

	serveCmd.Flags().StringP("listen", "l", "", "Listen address (default from config)")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(serveCmd)
}
