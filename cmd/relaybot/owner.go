package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"relaybot/internal/domain"
	"relaybot/internal/store"
)

// ownerCmd manages the stored owner chat ID that critical error reports
// are sent to.
func ownerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "owner",
		Short: "Manage the owner chat ID used for error reports",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show the stored owner chat ID",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			kv, err := store.NewSQLiteStore(cfg.Store.DBPath, logger)
			if err != nil {
				return err
			}
			defer kv.Close()

			value, err := kv.Get(cmd.Context(), domain.OwnerChatIDKey)
			if err != nil {
				return err
			}
			if value == "" {
				fmt.Println("(not set)")
				return nil
			}
			fmt.Println(value)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set [chat-id]",
		Short: "Store the owner chat ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("chat ID must be numeric: %w", err)
			}

			cfg := loadConfig()
			kv, err := store.NewSQLiteStore(cfg.Store.DBPath, logger)
			if err != nil {
				return err
			}
			defer kv.Close()

			if err := kv.Set(cmd.Context(), domain.OwnerChatIDKey, args[0]); err != nil {
				return err
			}
			logger.Info("owner chat ID stored", "chat_id", args[0])
			return nil
		},
	})

	return cmd
}
