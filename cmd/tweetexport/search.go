package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tweetexport/pkg/auth"
	"tweetexport/pkg/config"
	"tweetexport/pkg/export"
	"tweetexport/pkg/logger"
	"tweetexport/pkg/models"
	"tweetexport/pkg/query"
	"tweetexport/pkg/storage"
	"tweetexport/pkg/twitter"
	"tweetexport/pkg/ui"
	"tweetexport/pkg/ui/tui"
)

const notAuthenticatedWarning = "You are not authenticated by Twitter. Check your key/tokens"

var (
	// Search command flags
	searchQuery     string
	outputFile      string
	number          int
	includeRetweets bool
	language        string
	strictAuth      bool
	useTUI          bool
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search tweets and append them to a CSV file",
	Long: `Search Twitter for posts matching a query and append one CSV row per post.

Each row holds, in order: creation time, tweet id, text, hashtags, favorited,
favorite count, retweeted, retweet count and source client. The output file
is opened in append mode for every row; existing rows are never modified and
no header is written.

Retweets are excluded unless --retweets is given. The older '-rt <bool>'
spelling is still accepted.`,
	Example: `  # Export 10 English tweets about golang to tweets.csv
  tweetexport search -q golang -n 10

  # Same thing, search is the default command
  tweetexport -q golang -n 10

  # Include retweets, search in German, write to a custom file
  tweetexport -q fussball -n 100 -r -l de -o fussball.csv

  # Fail instead of warning when the credentials are rejected
  tweetexport -q golang -n 10 --strict-auth

  # Watch a long export in the terminal UI
  tweetexport -q golang -n 1000 --tui`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return runSearch(cmd.Context(), cfg, searchQuery)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	f := searchCmd.Flags()
	f.StringVarP(&searchQuery, "query", "q", "", "Twitter search query")
	f.StringVarP(&outputFile, "output_file", "o", "tweets.csv", "output CSV file, rows are appended")
	f.IntVarP(&number, "number", "n", 10, "number of tweets to export")
	f.BoolVarP(&includeRetweets, "retweets", "r", false, "include retweets")
	f.StringVarP(&language, "language", "l", "en", "language to search (ISO 639-1 code)")
	f.BoolVar(&strictAuth, "strict-auth", false, "abort when the credentials cannot be verified")
	f.BoolVar(&useTUI, "tui", false, "show a full screen progress view while exporting")

	_ = searchCmd.MarkFlagRequired("query")
	_ = searchCmd.MarkFlagRequired("number")
}

// runSearch runs the export pipeline: credentials, authentication, query, export
func runSearch(ctx context.Context, cfg *config.Config, userQuery string) error {
	if strings.TrimSpace(userQuery) == "" {
		return errors.New("search query is empty")
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()
	log.WithField("version", version).Info("tweetexport starting")

	creds, store, err := loadCredentials(cfg)
	if err != nil {
		return err
	}
	log.WithField("store", store.Name()).Debug("Credentials loaded")

	session, err := twitter.Authenticate(ctx, creds, clientOptions(cfg, log))
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	if session.Verified {
		ui.PrintSuccess("Authenticated as " + session.Identity.Name)
	} else {
		ui.PrintWarning(notAuthenticatedWarning)
		if cfg.Twitter.RequireVerified {
			return session.Require()
		}
	}

	finalQuery := query.Build(userQuery, !cfg.Search.IncludeRetweets)
	ui.PrintInfo("Query", finalQuery)
	ui.PrintInfo("Output", cfg.Output.File)

	out, err := storage.NewCSVAppender(cfg.Output.File)
	if err != nil {
		return err
	}

	exporter := export.New(out, cfg.Output.TimeFormat, log)
	cursor := session.Client.Search(twitter.SearchParams{
		Query:    finalQuery,
		Language: cfg.Search.Language,
		MaxItems: cfg.Search.Number,
	})
	run := func(ctx context.Context) (int, error) {
		return exporter.Export(ctx, cursor, cfg.Search.Number)
	}

	tracker := ui.NewStatusTracker(cfg.Search.Number)
	var written int
	switch {
	case useTUI:
		view := tui.NewTUI(finalQuery, out.Path(), cfg.Search.Number)
		exporter.OnRow = view.Row
		written, err = view.Run(ctx, func(ctx context.Context) (int, error) {
			if session.Verified {
				view.LogInfo("Authenticated as %s", session.Identity.Name)
			} else {
				view.LogWarning(notAuthenticatedWarning)
			}
			view.LogInfo("Searching %q (%s)", finalQuery, cfg.Search.Language)
			return run(ctx)
		})
	case ui.IsQuiet():
		written, err = run(ctx)
	default:
		exporter.OnRow = func(_ *models.Post, written int) {
			tracker.SetExported(written)
			tracker.PrintProgress()
		}
		written, err = run(ctx)
	}

	log.InfoWithFields("search finished", map[string]interface{}{
		"posts": cursor.Yielded(),
		"rows":  out.RowsWritten(),
	})
	tracker.SetExported(out.RowsWritten())
	if err != nil {
		if written > 0 && !useTUI {
			fmt.Fprintln(ui.Writer())
		}
		return fmt.Errorf("export to %s failed: %w", out.Path(), err)
	}

	tracker.Finish(out.Path())
	return nil
}

// loadCredentials reads credentials from the configured store. A missing
// store entry prints setup help before the error is returned.
func loadCredentials(cfg *config.Config) (*auth.Credentials, auth.Store, error) {
	store, err := auth.NewStore(&cfg.Credentials)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open credential store: %w", err)
	}

	creds, err := auth.Load(store, cfg.Credentials.Account)
	if err != nil {
		if errors.Is(err, auth.ErrCredentialsNotFound) {
			ui.PrintWarning("No Twitter credentials found in " + store.Name())
			ui.PrintInfo("To store credentials, run", "tweetexport auth login")
			ui.PrintInfo("Or create", "credentials.json with consumer_key, consumer_secret, access_token and access_token_secret")
		}
		return nil, nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	return creds, store, nil
}

func clientOptions(cfg *config.Config, log logger.Logger) twitter.ClientOptions {
	return twitter.ClientOptions{
		BaseURL:    cfg.Twitter.APIBaseURL,
		Timeout:    cfg.Twitter.Timeout,
		MaxRetries: cfg.Twitter.MaxRetries,
		PageSize:   cfg.Twitter.PageSize,
		Logger:     log,
	}
}
