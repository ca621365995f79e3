// Package cli implements the leetfriends command-line interface.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dquaid/leetfriends/internal/api"
	"github.com/dquaid/leetfriends/internal/cache"
	"github.com/dquaid/leetfriends/internal/config"
	"github.com/dquaid/leetfriends/internal/core"
	"github.com/dquaid/leetfriends/internal/store"
	"github.com/dquaid/leetfriends/internal/tracker"
)

// Global flags
var (
	verbose    bool
	quiet      bool
	jsonOut    bool
	forceCache bool
	timezone   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "leetfriends",
	Short:   "leetfriends – track your friends' LeetCode activity",
	Long:    `A command-line utility for following your friends' LeetCode progress: recent solves, streaks, strikes and a weekly points contest.`,
	Version: core.Version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags available to all commands
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose debug output to stderr")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress progress messages")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Emit raw JSON instead of formatted text")
	rootCmd.PersistentFlags().BoolVarP(&forceCache, "force-cache", "f", false, "Use cache only; skip API requests")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "", fmt.Sprintf("Timezone for day boundaries (IANA name or %q, default from config)", core.AutoTZ))
}

// session bundles the wired-up collaborators every command needs.
type session struct {
	cfg     *config.Config
	cfgPath string
	loc     *time.Location
	cache   *cache.Cache
	fetcher *tracker.Fetcher
}

// newSession loads the config, resolves the timezone and wires the
// store, cache, API client and fetcher. Expired cache entries are swept
// once per session.
func newSession() (*session, error) {
	cfgPath := config.DefaultPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tz := cfg.Timezone
	if timezone != "" {
		tz = timezone
	}
	loc, err := core.LoadZone(tz)
	if err != nil {
		return nil, err
	}

	c := cache.New(store.NewFileStore(store.DefaultPath()), verbose)
	if swept := c.SweepExpired(); swept > 0 {
		core.Eprint(fmt.Sprintf("[Cache] Swept %d expired entries", swept), verbose)
	}

	a := api.NewAPI(api.NewClient(verbose))
	return &session{
		cfg:     cfg,
		cfgPath: cfgPath,
		loc:     loc,
		cache:   c,
		fetcher: tracker.NewFetcher(a, c, verbose, forceCache),
	}, nil
}

// users returns the tracked user set, failing with a hint when empty.
func (s *session) users() ([]string, error) {
	users := s.cfg.AllUsers()
	if len(users) == 0 {
		return nil, fmt.Errorf("no users tracked; set your username with %q or add friends with %q",
			"leetfriends config set username <name>", "leetfriends friend add <name>")
	}
	return users, nil
}
