// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lyh1028/arxiv-tracker/internal/chat"
	"github.com/lyh1028/arxiv-tracker/pkg/types"
)

var chatsCmd = &cobra.Command{
	Use:   "chats",
	Short: "Manage per-chat keyword subscriptions",
	Long: `Chats manages the keyword subscriptions used by fetch and update. Each
chat carries required keywords (all must match), optional OR-groups (one
keyword per group must match), and a translation flag. Chats that were
never configured use the default subscription.`,
}

// --- set subcommand ---

var chatsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or replace a chat's subscription",
	RunE:  runChatsSet,
}

func runChatsSet(cmd *cobra.Command, args []string) error {
	chatID, _ := cmd.Flags().GetString("chat")
	if chatID == "" {
		return fmt.Errorf("--chat is required")
	}

	required, _ := cmd.Flags().GetStringArray("required")
	optionalRaw, _ := cmd.Flags().GetStringArray("optional")
	optional := splitGroups(optionalRaw)
	translate, _ := cmd.Flags().GetBool("translate")

	cfg := loadConfig()
	reg, err := chat.Load(cfg.ChatsFile)
	if err != nil {
		return err
	}

	cc := types.ChatConfig{
		ChatID:           chatID,
		RequiredKeywords: required,
		OptionalKeywords: optional,
		Translate:        translate,
	}
	if err := reg.Set(cc); err != nil {
		return err
	}

	fmt.Printf("Configured chat %q\n", chatID)
	return nil
}

// --- list subcommand ---

var chatsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all configured chats",
	RunE:  runChatsList,
}

func runChatsList(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	reg, err := chat.Load(cfg.ChatsFile)
	if err != nil {
		return err
	}

	configs := reg.All()
	if len(configs) == 0 {
		fmt.Println("No chats configured.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %-9s  %-30s  %s\n", "Chat", "Translate", "Required", "Optional")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))

	for _, cc := range configs {
		groups := make([]string, 0, len(cc.OptionalKeywords))
		for _, group := range cc.OptionalKeywords {
			groups = append(groups, strings.Join(group, ","))
		}
		fmt.Fprintf(os.Stdout, "%-20s  %-9t  %-30s  %s\n",
			cc.ChatID, cc.Translate,
			strings.Join(cc.RequiredKeywords, ","), strings.Join(groups, "; "))
	}

	fmt.Fprintf(os.Stdout, "\n%d chats\n", len(configs))
	return nil
}

func init() {
	chatsSetCmd.Flags().String("chat", "", "chat ID to configure")
	chatsSetCmd.Flags().StringArray("required", nil, "keyword that must match (repeatable)")
	chatsSetCmd.Flags().StringArray("optional", nil, "comma-separated OR-group of keywords (repeatable)")
	chatsSetCmd.Flags().Bool("translate", true, "translate titles and abstracts for this chat")

	chatsCmd.AddCommand(chatsSetCmd)
	chatsCmd.AddCommand(chatsListCmd)

	rootCmd.AddCommand(chatsCmd)
}
