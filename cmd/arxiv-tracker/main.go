// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the arxiv-tracker CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lyh1028/arxiv-tracker/internal/chat"
	"github.com/lyh1028/arxiv-tracker/internal/httputil"
	"github.com/lyh1028/arxiv-tracker/internal/query"
	"github.com/lyh1028/arxiv-tracker/internal/store"
	"github.com/lyh1028/arxiv-tracker/internal/translate"
	"github.com/lyh1028/arxiv-tracker/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the arxiv-tracker CLI.
var rootCmd = &cobra.Command{
	Use:   "arxiv-tracker",
	Short: "Track, store and render daily arXiv cs papers",
	Long: `arxiv-tracker crawls arXiv for newly announced cs papers, derives the
announcement date of every submission, and keeps the results in a local
SQLite store.

Subcommands crawl whole date windows (fetch), extend the store from the
newest announcement it already holds (update), query it (list), and render
per-day markdown or CSV digests (export). Keyword subscriptions are
per chat and live in a YAML file managed by the chats subcommand.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./arxiv-tracker.yaml or ~/.arxiv-tracker/arxiv-tracker.yaml)")
	rootCmd.PersistentFlags().String("db", "", "SQLite database file (overrides config)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: console or json")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("arxiv-tracker")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".arxiv-tracker"))
		}
	}

	viper.SetEnvPrefix("ARXIV_TRACKER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig layers the config file over the defaults, then the global
// flags over both.
func loadConfig() types.Config {
	cfg := types.DefaultConfig()

	if viper.IsSet("fetch.timeout") {
		cfg.Fetch.Timeout = viper.GetDuration("fetch.timeout")
	}
	if v := viper.GetString("fetch.user_agent"); v != "" {
		cfg.Fetch.UserAgent = v
	}
	if v := viper.GetString("fetch.proxy"); v != "" {
		cfg.Fetch.Proxy = v
	}
	if viper.IsSet("fetch.page_size") {
		cfg.Fetch.PageSize = viper.GetInt("fetch.page_size")
	}
	if viper.IsSet("fetch.max_retries") {
		cfg.Fetch.MaxRetries = viper.GetInt("fetch.max_retries")
	}
	if viper.IsSet("fetch.rate_per_second") {
		cfg.Fetch.RatePerSecond = viper.GetFloat64("fetch.rate_per_second")
	}
	if viper.IsSet("fetch.rate_burst") {
		cfg.Fetch.RateBurst = viper.GetInt("fetch.rate_burst")
	}
	if viper.IsSet("fetch.look_back_days") {
		cfg.Fetch.LookBackDays = viper.GetInt("fetch.look_back_days")
	}
	if v := viper.GetString("fetch.translate_to"); v != "" {
		cfg.Fetch.TranslateTo = v
	}
	if v := viper.GetString("store.path"); v != "" {
		cfg.Store.Path = v
	}
	if v := viper.GetString("logging.level"); v != "" {
		cfg.Logging.Level = v
	}
	if v := viper.GetString("logging.format"); v != "" {
		cfg.Logging.Format = v
	}
	if v := viper.GetString("export.dir"); v != "" {
		cfg.Export.Dir = v
	}
	if viper.IsSet("export.whitelist") {
		cfg.Export.Whitelist = viper.GetStringSlice("export.whitelist")
	}
	if viper.IsSet("export.blacklist") {
		cfg.Export.Blacklist = viper.GetStringSlice("export.blacklist")
	}
	if v := viper.GetString("chats_file"); v != "" {
		cfg.ChatsFile = v
	}

	if v, _ := rootCmd.PersistentFlags().GetString("db"); v != "" {
		cfg.Store.Path = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("log-level"); v != "" {
		cfg.Logging.Level = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("log-format"); v != "" {
		cfg.Logging.Format = v
	}
	return cfg
}

// --- shared helpers ---

// dateWindow reads the --from/--until flags. --until defaults to --from,
// making a single day the natural window.
func dateWindow(cmd *cobra.Command) (time.Time, time.Time, error) {
	fromStr, _ := cmd.Flags().GetString("from")
	if fromStr == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("--from is required (YYYY-MM-DD)")
	}
	from, err := time.Parse("2006-01-02", fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing --from: %w", err)
	}

	untilStr, _ := cmd.Flags().GetString("until")
	if untilStr == "" {
		return from, from, nil
	}
	until, err := time.Parse("2006-01-02", untilStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing --until: %w", err)
	}
	if until.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("--until %s is before --from %s", untilStr, fromStr)
	}
	return from, until, nil
}

// todayUTC returns today's date at midnight UTC.
func todayUTC() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// splitGroups turns repeated comma-separated --optional flags into
// OR-groups, dropping empty keywords and empty groups.
func splitGroups(raw []string) [][]string {
	var groups [][]string
	for _, group := range raw {
		var kws []string
		for _, kw := range strings.Split(group, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				kws = append(kws, kw)
			}
		}
		if len(kws) > 0 {
			groups = append(groups, kws)
		}
	}
	return groups
}

// chatExpression returns the search expression and translation flag of the
// chat named by --chat, falling back to the default subscription.
func chatExpression(cmd *cobra.Command, cfg types.Config) (query.Expression, bool, error) {
	chatID, _ := cmd.Flags().GetString("chat")
	if chatID == "" {
		chatID = "default"
	}

	reg, err := chat.Load(cfg.ChatsFile)
	if err != nil {
		return query.Expression{}, false, err
	}
	cc := reg.Get(chatID)
	expr := query.Expression{Required: cc.RequiredKeywords, Optional: cc.OptionalKeywords}
	return expr, cc.Translate, nil
}

// buildTranslator returns the configured translation backend, or nil when
// the chat or the config disables translation.
func buildTranslator(cfg types.Config, chatTranslate bool) (translate.Translator, error) {
	if !chatTranslate || cfg.Fetch.TranslateTo == "" {
		return nil, nil
	}
	client, err := httputil.NewClient(cfg.Fetch.HTTPConfig)
	if err != nil {
		return nil, fmt.Errorf("building HTTP client: %w", err)
	}
	return translate.NewGoogle(client, cfg.Fetch.MaxRetries), nil
}

// backfillTranslations fills translated fields on stored rows that still
// miss them, usually rows left behind by an earlier failed translation.
// Translation problems never fail a crawl, so errors only warn.
func backfillTranslations(ctx context.Context, st *store.Store, tr translate.Translator, cfg types.Config, log zerolog.Logger) {
	if tr == nil {
		return
	}
	n, err := st.TranslateMissing(ctx, tr, cfg.Fetch.TranslateTo)
	if err != nil {
		log.Warn().Err(err).Msg("translation backfill incomplete")
	}
	if n > 0 {
		log.Info().Int("papers", n).Msg("backfilled translations")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
