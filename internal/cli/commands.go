package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dquaid/leetfriends/internal/cache"
	"github.com/dquaid/leetfriends/internal/core"
	"github.com/dquaid/leetfriends/internal/output"
	"github.com/dquaid/leetfriends/internal/tracker"
)

func init() {
	// Add all subcommands
	rootCmd.AddCommand(activityCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(dailyCmd)
	rootCmd.AddCommand(strikesCmd)
	rootCmd.AddCommand(streaksCmd)
	rootCmd.AddCommand(contestCmd)
	rootCmd.AddCommand(friendCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(watchCmd)

	friendCmd.AddCommand(friendAddCmd, friendRemoveCmd, friendListCmd)
	configCmd.AddCommand(configGetCmd, configSetCmd)
	cacheCmd.AddCommand(cacheSweepCmd, cacheClearCmd)

	strikesCmd.Flags().Bool("share", false, "Print a plain-text summary suitable for sharing")
	leaderboardCmd.Flags().StringP("difficulty", "d", "all", "Difficulty tab (all, easy, medium or hard)")
}

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show the merged recent-submission feed for all tracked users",
	RunE:  handleActivity,
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Rank tracked users by total solved problems",
	RunE:  handleLeaderboard,
}

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Rank tracked users by problems solved today",
	RunE:  handleDaily,
}

var strikesCmd = &cobra.Command{
	Use:   "strikes",
	Short: "Show consecutive missed days per tracked user",
	RunE:  handleStrikes,
}

var streaksCmd = &cobra.Command{
	Use:   "streaks",
	Short: "Show active consecutive-day solve streaks",
	RunE:  handleStreaks,
}

var contestCmd = &cobra.Command{
	Use:   "contest",
	Short: "Show this week's points contest standings",
	RunE:  handleContest,
}

var friendCmd = &cobra.Command{
	Use:   "friend",
	Short: "Manage the tracked friend list",
}

var friendAddCmd = &cobra.Command{
	Use:   "add [username]",
	Short: "Add a friend after validating the username exists",
	Args:  cobra.ExactArgs(1),
	RunE:  handleFriendAdd,
}

var friendRemoveCmd = &cobra.Command{
	Use:   "remove [username]",
	Short: "Remove a friend",
	Args:  cobra.ExactArgs(1),
	RunE:  handleFriendRemove,
}

var friendListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked friends",
	RunE:  handleFriendList,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change settings",
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one setting, or all settings when no key is given",
	Args:  cobra.MaximumNArgs(1),
	RunE:  handleConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting (username, maxStrikes, timezone)",
	Args:  cobra.ExactArgs(2),
	RunE:  handleConfigSet,
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local response cache",
}

var cacheSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete expired cache entries",
	RunE:  handleCacheSweep,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cache entries",
	RunE:  handleCacheClear,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show a live countdown until the next cache refresh",
	RunE:  handleWatch,
}

func handleActivity(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	users, err := s.users()
	if err != nil {
		return err
	}

	core.ProgressPrint("Fetching recent activity…", quiet)
	activities, err := s.fetcher.ActivityForUsers(cmd.Context(), users, core.ActivityLimit)
	if err != nil {
		return err
	}

	feed := tracker.BuildFeed(activities)
	s.fetcher.AnnotateFeed(cmd.Context(), feed)
	if jsonOut {
		output.PrintJSON(feed)
		return nil
	}
	output.PrintActivity(feed)
	return nil
}

func handleLeaderboard(cmd *cobra.Command, args []string) error {
	tab, _ := cmd.Flags().GetString("difficulty")

	var difficulty string
	switch strings.ToLower(tab) {
	case "all":
		difficulty = "All"
	case "easy":
		difficulty = "Easy"
	case "medium":
		difficulty = "Medium"
	case "hard":
		difficulty = "Hard"
	default:
		return fmt.Errorf("unknown difficulty %q (want all, easy, medium or hard)", tab)
	}

	s, err := newSession()
	if err != nil {
		return err
	}
	users, err := s.users()
	if err != nil {
		return err
	}

	core.ProgressPrint("Fetching solve statistics…", quiet)
	stats, err := s.fetcher.StatsForUsers(cmd.Context(), users)
	if err != nil {
		return err
	}

	entries := tracker.BuildLeaderboard(users, stats, difficulty)
	if jsonOut {
		output.PrintJSON(entries)
		return nil
	}
	output.PrintLeaderboard(entries, difficulty)
	return nil
}

func handleDaily(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	users, err := s.users()
	if err != nil {
		return err
	}

	core.ProgressPrint("Fetching today's submissions…", quiet)
	activities, err := s.fetcher.DailyActivity(cmd.Context(), users)
	if err != nil {
		return err
	}

	entries := tracker.DailyCounts(activities, s.loc)
	if jsonOut {
		output.PrintJSON(entries)
		return nil
	}
	output.PrintDaily(entries)
	return nil
}

func handleStrikes(cmd *cobra.Command, args []string) error {
	share, _ := cmd.Flags().GetBool("share")

	s, err := newSession()
	if err != nil {
		return err
	}
	users, err := s.users()
	if err != nil {
		return err
	}

	core.ProgressPrint("Computing strikes…", quiet)
	report, err := s.fetcher.StrikeReport(cmd.Context(), users, s.cfg.MaxStrikes, s.loc)
	if err != nil {
		return err
	}

	if jsonOut {
		output.PrintJSON(report)
		return nil
	}
	if share {
		fmt.Print(output.StrikeShareText(report))
		return nil
	}
	output.PrintStrikes(report)
	return nil
}

func handleStreaks(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	users, err := s.users()
	if err != nil {
		return err
	}

	core.ProgressPrint("Computing streaks…", quiet)
	activities, err := s.fetcher.ActivityForUsers(cmd.Context(), users, core.StrikeLookback)
	if err != nil {
		return err
	}

	results := tracker.ComputeStreaks(activities, s.loc)
	if jsonOut {
		output.PrintJSON(results)
		return nil
	}
	output.PrintStreaks(results)
	return nil
}

func handleContest(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	users, err := s.users()
	if err != nil {
		return err
	}

	core.ProgressPrint("Scoring this week's contest…", quiet)
	entries, err := s.fetcher.ContestStandings(cmd.Context(), users, s.loc)
	if err != nil {
		return err
	}

	if jsonOut {
		output.PrintJSON(entries)
		return nil
	}
	weekStart, weekEnd := core.CurrentWeekBounds(s.loc)
	output.PrintContest(entries, weekStart, weekEnd)
	return nil
}

func handleFriendAdd(cmd *cobra.Command, args []string) error {
	username := args[0]

	s, err := newSession()
	if err != nil {
		return err
	}

	if !forceCache {
		core.ProgressPrint(fmt.Sprintf("Validating %s…", username), quiet)
		ok, err := s.fetcher.ValidateUser(cmd.Context(), username)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no LeetCode user named %q", username)
		}
	}

	if !s.cfg.AddFriend(username) {
		fmt.Printf("%s is already tracked.\n", username)
		return nil
	}
	if err := s.cfg.Save(s.cfgPath); err != nil {
		return err
	}
	fmt.Printf("Added %s.\n", username)
	return nil
}

func handleFriendRemove(cmd *cobra.Command, args []string) error {
	username := args[0]

	s, err := newSession()
	if err != nil {
		return err
	}

	if !s.cfg.RemoveFriend(username) {
		return fmt.Errorf("%s is not tracked", username)
	}
	if err := s.cfg.Save(s.cfgPath); err != nil {
		return err
	}
	fmt.Printf("Removed %s.\n", username)
	return nil
}

func handleFriendList(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}

	if jsonOut {
		output.PrintJSON(s.cfg.Friends)
		return nil
	}
	if len(s.cfg.Friends) == 0 {
		fmt.Println("No friends tracked.")
		return nil
	}
	for _, f := range s.cfg.Friends {
		fmt.Println(f)
	}
	return nil
}

func handleConfigGet(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		if jsonOut {
			output.PrintJSON(s.cfg)
			return nil
		}
		fmt.Printf("username   %s\n", s.cfg.Username)
		fmt.Printf("maxStrikes %d\n", s.cfg.MaxStrikes)
		fmt.Printf("timezone   %s\n", s.cfg.Timezone)
		return nil
	}

	switch args[0] {
	case "username":
		fmt.Println(s.cfg.Username)
	case "maxStrikes":
		fmt.Println(s.cfg.MaxStrikes)
	case "timezone":
		fmt.Println(s.cfg.Timezone)
	default:
		return fmt.Errorf("unknown setting %q", args[0])
	}
	return nil
}

func handleConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	s, err := newSession()
	if err != nil {
		return err
	}

	switch key {
	case "username":
		s.cfg.Username = value
	case "maxStrikes":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxStrikes must be a number, got %q", value)
		}
		s.cfg.MaxStrikes = n
	case "timezone":
		s.cfg.Timezone = value
	default:
		return fmt.Errorf("unknown setting %q", key)
	}

	if err := s.cfg.Validate(); err != nil {
		return err
	}
	if err := s.cfg.Save(s.cfgPath); err != nil {
		return err
	}
	fmt.Printf("Set %s to %s.\n", key, value)
	return nil
}

func handleCacheSweep(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	// newSession already swept once; report a fresh pass explicitly.
	fmt.Printf("Removed %d expired entries.\n", s.cache.SweepExpired())
	return nil
}

func handleCacheClear(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	if err := s.cache.Clear(); err != nil {
		return err
	}
	fmt.Println("Cache cleared.")
	return nil
}

func handleWatch(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	users, err := s.users()
	if err != nil {
		return err
	}

	keys := cache.SubmissionsKeys(users, core.ActivityLimit)
	keys = append(keys, cache.SubmissionsKeys(users, core.DailyLookback)...)
	keys = append(keys, cache.SubmissionsKeys(users, core.StrikeLookback)...)
	keys = append(keys, cache.UserStatsKeys(users)...)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	countdown := cache.NewCountdown(s.cache, keys, func(tick cache.Tick) {
		fmt.Printf("\r\033[K%s", output.CountdownLine(tick))
	})
	countdown.Start()

	<-ctx.Done()
	countdown.Stop()
	fmt.Println()
	return nil
}
