package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pavelanni/gradebook/internal/auth"
	"github.com/pavelanni/gradebook/internal/handler"
	appI18n "github.com/pavelanni/gradebook/internal/i18n"
	"github.com/pavelanni/gradebook/internal/logging"
	"github.com/pavelanni/gradebook/internal/metrics"
	"github.com/pavelanni/gradebook/internal/model"
	"github.com/pavelanni/gradebook/internal/store"
)

const defaultSessionSecret = "change-me-gradebook-session-secret"

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gradebook",
		Short: "Single-admin gradebook for students, quizzes, and results",
	}

	serve := serveCmd()
	root.AddCommand(serve, exportCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func addCommonFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("db", "hw13.db", "SQLite database path")
	f.String("env-file", ".env", "Dotenv file loaded before reading the environment")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json, pretty)")
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the gradebook web server",
		RunE:  runServe,
	}
	addCommonFlags(cmd)
	f := cmd.Flags()
	f.StringP("addr", "a", ":5000", "HTTP listen address")
	f.String("admin-username", "admin", "Administrator username")
	f.String("admin-password", "password", "Administrator password (or set GRADEBOOK_ADMIN_PASSWORD)")
	f.String("session-secret", defaultSessionSecret, "HMAC key for session cookies (or set GRADEBOOK_SESSION_SECRET)")
	f.Bool("secure-cookies", false, "Set Secure flag on cookies")
	f.StringP("lang", "l", "en", "Default UI language (en, ru)")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export students, quizzes, and results as JSON",
		RunE:  runExport,
	}
	addCommonFlags(cmd)
	cmd.Flags().StringP("output", "o", "-", "Output file path (- for stdout)")
	return cmd
}

// loadEnvFile reads a dotenv file into the process environment. A missing
// file is not an error; variables already set win.
func loadEnvFile(cmd *cobra.Command) {
	path, _ := cmd.Flags().GetString("env-file")
	if path == "" {
		return
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("error reading env file", "path", path, "error", err)
	}
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("GRADEBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("gradebook")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/gradebook")
	v.AddConfigPath("/etc/gradebook")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func setup(cmd *cobra.Command) *viper.Viper {
	loadEnvFile(cmd)
	v := viperForCmd(cmd)
	logging.Setup(os.Stderr, v.GetString("log-format"), v.GetString("log-level"))
	return v
}

func runServe(cmd *cobra.Command, _ []string) error {
	v := setup(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}
	slog.Debug("loaded catalogs", "languages", appI18n.Languages())

	authenticator, err := auth.NewStatic(v.GetString("admin-username"), v.GetString("admin-password"))
	if err != nil {
		return fmt.Errorf("create authenticator: %w", err)
	}

	secret := v.GetString("session-secret")
	if secret == defaultSessionSecret {
		slog.Warn("using the built-in session secret; set --session-secret for real deployments")
	}

	h, err := handler.New(db, authenticator, model.Config{
		SecureCookies: v.GetBool("secure-cookies"),
		SessionSecret: secret,
	})
	if err != nil {
		return fmt.Errorf("create handler: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(appI18n.Middleware())
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"db", v.GetString("db"),
		"lang", lang,
		"secure_cookies", v.GetBool("secure-cookies"),
	)
	return http.ListenAndServe(addr, r)
}

func runExport(cmd *cobra.Command, _ []string) error {
	v := setup(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	gb, err := db.ExportGradebook()
	if err != nil {
		return fmt.Errorf("export gradebook: %w", err)
	}

	data, err := json.MarshalIndent(gb, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	_, _ = fmt.Fprintln(w)

	slog.Info("exported gradebook",
		"students", len(gb.Students),
		"quizzes", len(gb.Quizzes),
		"results", len(gb.Results),
	)
	return nil
}
