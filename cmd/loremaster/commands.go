package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var (
	maxSections   int
	searchPages   []string
	maxPerPage    int
	characterName string
)

var locationCmd = &cobra.Command{
	Use:   "location <name>",
	Short: "Fetch lore context for a location",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		system, err := newSystem()
		if err != nil {
			return err
		}
		context := system.ContextForLocation(cmd.Context(), args[0], maxSections)
		if context == "" {
			fmt.Println("No lore found (is RAG_ENABLED=true and RAG_WIKI_BASE_URL set?)")
			return nil
		}
		fmt.Print(context)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search candidate lore pages for relevant sections",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(searchPages) == 0 {
			return fmt.Errorf("at least one --page is required")
		}
		system, err := newSystem()
		if err != nil {
			return err
		}
		query := strings.Join(args, " ")
		context := system.ContextForQuery(cmd.Context(), query, searchPages, maxPerPage)
		if context == "" {
			fmt.Println("No lore found (is RAG_ENABLED=true and RAG_WIKI_BASE_URL set?)")
			return nil
		}
		fmt.Print(context)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <topic> <check-result>",
	Short: "Resolve a History check against campaign lore",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		checkResult, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("check-result must be a number: %w", err)
		}
		system, err := newSystem()
		if err != nil {
			return err
		}
		outcome := system.HandleHistoryCheck(cmd.Context(), args[0], checkResult, characterName)
		fmt.Printf("Check %d vs DC %d, success: %v (%s)\n",
			outcome.CheckResult, outcome.DC, outcome.Success, outcome.Source)
		fmt.Println(outcome.Information)
		return nil
	},
}

var itemCmd = &cobra.Command{
	Use:   "item <name>",
	Short: "Look up an item, respecting the homebrew registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		system, err := newSystem()
		if err != nil {
			return err
		}
		info := system.ItemInfo(cmd.Context(), args[0])
		if info == nil {
			fmt.Println("No item information found.")
			return nil
		}
		fmt.Printf("%s (source: %s, custom: %v, magic: %v)\n", info.Name, info.Source, info.IsCustom, info.IsMagic)
		if info.Description != "" {
			fmt.Printf("\n%s\n", info.Description)
		}
		for name, value := range info.Properties {
			fmt.Printf("\n%s:\n%v\n", name, value)
		}
		if info.Notes != "" {
			fmt.Printf("\nNotes: %s\n", info.Notes)
		}
		return nil
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the on-disk page cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache entry count and on-disk size",
	RunE: func(cmd *cobra.Command, args []string) error {
		system, err := newSystem()
		if err != nil {
			return err
		}
		cache := system.Cache()
		if cache == nil {
			fmt.Println("Cache unavailable (RAG disabled).")
			return nil
		}
		stats := cache.Stats()
		fmt.Printf("entries: %d\nsize:    %.2f MB\ndir:     %s\n",
			stats.Entries, float64(stats.SizeBytes)/(1024*1024), stats.Dir)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Evict expired cache entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		system, err := newSystem()
		if err != nil {
			return err
		}
		cache := system.Cache()
		if cache == nil {
			fmt.Println("Cache unavailable (RAG disabled).")
			return nil
		}
		count, err := cache.ClearExpired()
		if err != nil {
			return err
		}
		fmt.Printf("evicted %d expired entries\n", count)
		return nil
	},
}

func init() {
	locationCmd.Flags().IntVar(&maxSections, "max-sections", 2, "maximum sections to include")
	searchCmd.Flags().StringSliceVar(&searchPages, "page", nil, "candidate page title (repeatable)")
	searchCmd.Flags().IntVar(&maxPerPage, "max-per-page", 3, "maximum results per page")
	historyCmd.Flags().StringVar(&characterName, "character", "", "character making the check")
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
