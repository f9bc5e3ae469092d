package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/neboloop/cryptoportal/internal/logging"
	"github.com/neboloop/cryptoportal/internal/svc"
	"github.com/neboloop/cryptoportal/internal/tui"
)

func ResetCmd() *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset a password in the terminal",
		Long: `Open the password reset page in the terminal for the token from a reset
e-mail. The token is checked first; an expired link cannot be used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			// Log lines would tear the terminal UI.
			if !verbose {
				logging.Disable()
				defer logging.Enable()
			}

			svcCtx, err := svc.NewServiceContext(*ServerConfig)
			if err != nil {
				return err
			}

			res, err := tui.Run(ctx, svcCtx.API, token, tui.Options{
				LoginURL:       ServerConfig.LoginURL(),
				PageOptions:    svcCtx.PageOptions(),
				ProgramOptions: []tea.ProgramOption{tea.WithAltScreen()},
			})
			if err != nil {
				return err
			}
			if res.Reset {
				fmt.Fprintf(cmd.OutOrStdout(), "Password reset. Log in at %s\n", ServerConfig.LoginURL())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "reset token from the e-mail link")
	return cmd
}
