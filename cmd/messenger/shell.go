package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"messenger/internal/security"
	"messenger/internal/service"
	"messenger/internal/shell"
	"messenger/internal/store"
)

var noColor bool

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Run the interactive menus on stdin and stdout",
	RunE:  runShell,
}

func init() {
	shellCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

func runShell(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	st, db, err := store.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	// Service logs go to stderr; keep them out of the menus unless asked for.
	quiet := logger
	if !verbose {
		quiet = logger.WithOptions(zap.IncreaseLevel(zapcore.WarnLevel))
	}

	svc := shell.Services{
		Identity: service.NewIdentityService(st, security.NewPasswordHasher(cfg.BcryptCost), quiet),
		Lists:    service.NewListService(st, quiet),
		Chats:    service.NewChatService(st, quiet),
		Messages: service.NewMessageService(st, quiet),
	}
	session := shell.New(os.Stdin, os.Stdout, svc,
		shell.WithColors(!noColor),
		shell.WithPageSize(cfg.PageSize),
	)
	return session.Run(ctx)
}
