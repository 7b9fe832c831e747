package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "corebank-cli",
		Short: "Corebank CLI tool",
		Long:  `A command line interface for the corebank posting and reporting API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the corebank API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(ledgerCmd(), reportCmd(), accountCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger verification",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "consistency",
		Short: "Check that ledger-wide debits equal credits",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getAndPrint("/api/v1/ledger/consistency", nil)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate <reference-id>",
		Short: "Check that one posting reference is balanced",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getAndPrint("/api/v1/ledger/references/"+url.PathEscape(args[0])+"/validation", nil)
		},
	})

	return cmd
}

func reportCmd() *cobra.Command {
	var from, to, entityID, entityType string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Financial reports",
	}
	cmd.PersistentFlags().StringVar(&from, "from", "", "Period start (YYYY-MM-DD)")
	cmd.PersistentFlags().StringVar(&to, "to", "", "Period end (YYYY-MM-DD)")
	cmd.PersistentFlags().StringVar(&entityID, "entity-id", "", "Branch ID for BRANCH scope")
	cmd.PersistentFlags().StringVar(&entityType, "entity-type", "BANK", "Report scope (BRANCH or BANK)")

	reportQuery := func() url.Values {
		query := url.Values{}
		query.Set("from", from)
		query.Set("to", to)
		query.Set("entity_type", entityType)
		if entityID != "" {
			query.Set("entity_id", entityID)
		}
		return query
	}

	for _, report := range []struct {
		use   string
		short string
		path  string
	}{
		{"trial-balance", "4-column trial balance", "/api/v1/reports/trial-balance"},
		{"trial-balance-6", "6-column trial balance", "/api/v1/reports/trial-balance-6"},
		{"balance-sheet", "Balance sheet", "/api/v1/reports/balance-sheet"},
		{"income-expense", "Income/expense statement", "/api/v1/reports/income-expense"},
	} {
		path := report.path
		cmd.AddCommand(&cobra.Command{
			Use:   report.use,
			Short: report.short,
			RunE: func(cmd *cobra.Command, args []string) error {
				return getAndPrint(path, reportQuery())
			},
		})
	}

	return cmd
}

func accountCmd() *cobra.Command {
	var branchID string

	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account lookups",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <account-id>",
		Short: "Fetch one account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getAndPrint("/api/v1/accounts/"+url.PathEscape(args[0]), nil)
		},
	})

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if branchID != "" {
				query.Set("branch_id", branchID)
			}
			return getAndPrint("/api/v1/accounts", query)
		},
	}
	listCmd.Flags().StringVar(&branchID, "branch", "", "Scope to one branch")
	cmd.AddCommand(listCmd)

	return cmd
}

func getAndPrint(path string, query url.Values) error {
	target := baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(target)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var pretty any
	if err := json.Unmarshal(body, &pretty); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	printJSON(pretty)
	return nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to render: %v\n", err)
		return
	}
	fmt.Println(string(out))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
