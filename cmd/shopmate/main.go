// Command shopmate is the interactive product-catalog assistant.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shopmate-ai/shopmate/internal/catalog"
	"github.com/shopmate-ai/shopmate/internal/classifier"
	"github.com/shopmate-ai/shopmate/internal/config"
	"github.com/shopmate-ai/shopmate/internal/dialog"
	"github.com/shopmate-ai/shopmate/internal/extractor"
	"github.com/shopmate-ai/shopmate/internal/logging"
	"github.com/shopmate-ai/shopmate/internal/render"
	"github.com/shopmate-ai/shopmate/internal/session"
)

var (
	promptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	bannerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		debug      bool
	)

	cmd := &cobra.Command{
		Use:   "shopmate",
		Short: "Conversational assistant for a Shopify product catalog",
		Long: "Shopmate answers free-form questions about a Shopify store's products:\n" +
			"prices, costs, margins, inventory, comparisons, and catalog filters.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), configPath, debug)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", defaultConfigPath(), "path to the TOML config file")
	cmd.Flags().BoolVar(&debug, "debug", false, "log debug output to the console")

	return cmd
}

func defaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".shopmate", "config.toml")
}

func runChat(ctx context.Context, configPath string, debug bool) error {
	// Secrets come from the environment; a .env next to the binary is a
	// convenience for local runs.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if debug {
		cfg.Logging.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(logging.Options{
		FilePath: cfg.Logging.FilePath,
		Debug:    cfg.Logging.Debug,
	})
	defer logger.Sync()

	engine := buildEngine(cfg, logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess := session.New()
	logger.Info("session started", zap.String("session", sess.ID))

	fmt.Println(bannerStyle.Render("Shopmate — ask about products, prices, margins, and inventory."))
	fmt.Println(bannerStyle.Render("Type 'exit' to quit."))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(promptStyle.Render("you> "))
		if !scanner.Scan() {
			break
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if isExit(text) {
			fmt.Println(assistantStyle.Render("Goodbye! Feel free to come back if you have more questions. 👋"))
			break
		}

		reply := engine.ProcessTurn(ctx, sess, text)
		fmt.Println(assistantStyle.Render(reply))

		if ctx.Err() != nil {
			break
		}
	}

	logger.Info("session ended",
		zap.String("session", sess.ID),
		zap.Int("turns", len(sess.Turns)))
	return scanner.Err()
}

func buildEngine(cfg *config.Config, logger *zap.Logger) *dialog.Engine {
	catalogClient := catalog.New(catalog.Config{
		StoreDomain:    cfg.Catalog.StoreDomain,
		APIVersion:     cfg.Catalog.APIVersion,
		Token:          cfg.CatalogToken(),
		Timeout:        cfg.CatalogTimeout(),
		DetailCacheTTL: cfg.DetailCacheTTL(),
		Logger:         logger.Named("catalog"),
	})

	llm := extractor.NewLLM(&extractor.Config{
		APIKey:     cfg.ExtractorAPIKey(),
		BaseURL:    cfg.Extractor.BaseURL,
		Model:      cfg.Extractor.Model,
		Timeout:    cfg.ExtractorTimeout(),
		MaxRetries: cfg.Extractor.MaxRetries,
		Logger:     logger.Named("extractor"),
	})

	cls := classifier.New(llm, logger.Named("classifier"))
	renderer := render.New(llm, logger.Named("render"))

	return dialog.New(catalogClient, llm, cls, renderer, logger.Named("dialog"))
}

func isExit(text string) bool {
	switch strings.ToLower(text) {
	case "exit", "quit", "bye", "goodbye":
		return true
	}
	return false
}
