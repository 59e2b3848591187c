package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

var (
	userID    string
	titleFlag string
	location  string
	format    string
	kickoff   string
	action    string
	limit     int
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(statsCmd)

	createMatchCmd.Flags().StringVar(&titleFlag, "title", "", "Match title")
	createMatchCmd.Flags().StringVar(&location, "location", "", "Match location")
	createMatchCmd.Flags().StringVar(&format, "format", "5v5", "Match format (5v5, 7v7, 8v8, 11v11)")
	createMatchCmd.Flags().StringVar(&kickoff, "kickoff", "", "Kickoff time (RFC3339)")
	rootCmd.AddCommand(createMatchCmd)

	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(leaveCmd)
	rootCmd.AddCommand(checkInCmd)

	hostActionCmd.Flags().StringVar(&action, "action", "", "Lifecycle action (lock, unlock, start, complete, cancel)")
	rootCmd.AddCommand(hostActionCmd)

	rootCmd.AddCommand(requestsCmd)
	rootCmd.AddCommand(profileCmd)

	leaderboardCmd.Flags().IntVar(&limit, "limit", 20, "Number of players to list")
	rootCmd.AddCommand(leaderboardCmd)

	for _, cmd := range []*cobra.Command{createMatchCmd, joinCmd, leaveCmd, checkInCmd, hostActionCmd} {
		cmd.Flags().StringVar(&userID, "user", "", "Acting user id")
	}
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Get durable usage counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/stats")
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/matches")
	},
}

var createMatchCmd = &cobra.Command{
	Use:   "create-match",
	Short: "Create a match hosted by --user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/matches", map[string]any{
			"host_id":      userID,
			"title":        titleFlag,
			"location":     location,
			"format":       format,
			"kickoff_time": kickoff,
		})
	},
}

var joinCmd = &cobra.Command{
	Use:   "join <match-id>",
	Short: "Join a match as --user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/matches/"+args[0]+"/join", map[string]any{"user_id": userID})
	},
}

var leaveCmd = &cobra.Command{
	Use:   "leave <match-id>",
	Short: "Leave a match as --user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/matches/"+args[0]+"/leave", map[string]any{"user_id": userID})
	},
}

var checkInCmd = &cobra.Command{
	Use:   "check-in <match-id>",
	Short: "Check in to a match as --user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/matches/"+args[0]+"/check-in", map[string]any{"user_id": userID})
	},
}

var hostActionCmd = &cobra.Command{
	Use:   "host-action <match-id>",
	Short: "Run a lifecycle action as the host (--user)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/matches/"+args[0]+"/action", map[string]any{
			"actor_id": userID,
			"action":   action,
		})
	},
}

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "List match requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/requests")
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile <player-id>",
	Short: "Show a player's profile and progression",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players/" + args[0])
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the XP leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest(fmt.Sprintf("/leaderboard?limit=%d", limit))
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint string, body map[string]any) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
