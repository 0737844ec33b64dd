// Copyright (C) 2025 MetTakip Yazılım (yazilim@mettakip.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mettakip/metassist/services/gateway/datatypes"
	"github.com/spf13/cobra"
)

var jsonOutput bool

var (
	rootCmd = &cobra.Command{
		Use:   "metassist",
		Short: "A CLI for the MetTakip production assistant",
		Long: `metassist talks to the assistant gateway of the MetTakip
industrial tracking stack: ask free-form production questions, pull
rule-based insights, and run order risk or maintenance analyses.`,
	}
	askCmd = &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the production assistant a question",
		Long: `Sends a question to the assistant gateway. The answer comes from the
configured AI provider, or from the deterministic demo responder when no
provider is reachable.`,
		Args: cobra.MinimumNArgs(1),
		Run:  runAskCommand,
	}
	insightsCmd = &cobra.Command{
		Use:   "insights",
		Short: "Show the current production insights report",
		Run:   runInsightsCommand,
	}
	analyzeCmd = &cobra.Command{
		Use:   "analyze [order-no]",
		Short: "Run a delivery risk analysis for an order",
		Args:  cobra.ExactArgs(1),
		Run:   runAnalyzeCommand,
	}
	maintainCmd = &cobra.Command{
		Use:   "maintain [equipment-id]",
		Short: "Predict maintenance needs for a piece of equipment",
		Args:  cobra.ExactArgs(1),
		Run:   runMaintainCommand,
	}
	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show the assistant service configuration",
		Run:   runStatusCommand,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Output raw JSON for scripting")
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(maintainCmd)
	rootCmd.AddCommand(statusCmd)
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 2*time.Minute)
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("Failed to render output: %v", err)
	}
	fmt.Println(string(data))
}

func runAskCommand(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()

	question := strings.Join(args, " ")
	var resp datatypes.AnswerResponse
	err := newGatewayClient().postJSON(ctx, "/v1/assistant/ask",
		datatypes.AskRequest{Question: question}, &resp)
	if err != nil {
		log.Fatalf("Ask failed: %v", err)
	}

	if jsonOutput {
		printJSON(resp)
		return
	}
	fmt.Println(resp.Text)
	if resp.IsDemo {
		fmt.Printf("\n(demo yanıtı, kaynak: %s)\n", resp.Source)
	}
}

func runInsightsCommand(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()

	var insights map[string]any
	if err := newGatewayClient().getJSON(ctx, "/v1/assistant/insights", &insights); err != nil {
		log.Fatalf("Insights failed: %v", err)
	}
	printJSON(insights)
}

func runAnalyzeCommand(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()

	var analysis map[string]any
	path := "/v1/assistant/orders/" + args[0] + "/analysis"
	if err := newGatewayClient().getJSON(ctx, path, &analysis); err != nil {
		log.Fatalf("Order analysis failed: %v", err)
	}
	printJSON(analysis)
}

func runMaintainCommand(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()

	var prediction map[string]any
	path := "/v1/assistant/equipment/" + args[0] + "/maintenance"
	if err := newGatewayClient().getJSON(ctx, path, &prediction); err != nil {
		log.Fatalf("Maintenance prediction failed: %v", err)
	}
	printJSON(prediction)
}

func runStatusCommand(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()

	var status map[string]any
	if err := newGatewayClient().getJSON(ctx, "/v1/assistant/status", &status); err != nil {
		log.Fatalf("Status failed: %v", err)
	}
	printJSON(status)
}
