// boardroom - Mattermost gateway for an AI executive team
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tinyland-inc/boardroom/cmd/boardroom/internal"
	"github.com/tinyland-inc/boardroom/cmd/boardroom/internal/console"
	"github.com/tinyland-inc/boardroom/cmd/boardroom/internal/gateway"
	"github.com/tinyland-inc/boardroom/cmd/boardroom/internal/version"
)

func NewBoardroomCommand() *cobra.Command {
	short := fmt.Sprintf("%s boardroom - AI Executive Team Gateway v%s\n\n", internal.Logo, internal.GetVersion())

	cmd := &cobra.Command{
		Use:     "boardroom",
		Short:   short,
		Example: "boardroom gateway",
	}

	cmd.AddCommand(
		gateway.NewGatewayCommand(),
		console.NewConsoleCommand(),
		version.NewVersionCommand(),
	)

	return cmd
}

func main() {
	cmd := NewBoardroomCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
