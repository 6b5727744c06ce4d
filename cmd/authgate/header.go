package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/omarluq/authgate/internal/auth"
)

var headerCmd = &cobra.Command{
	Use:   "header",
	Short: "Build request headers for testing an auth strategy",
}

var headerBasicCmd = &cobra.Command{
	Use:     "basic <identifier> <secret>",
	Short:   "Print a Basic Authorization header",
	Example: `  curl -H "$(authgate header basic bob@hbtn.io 'H0lbertonSchool98!')" localhost:5000/api/v1/users/me`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n",
			auth.AuthorizationHeaderName, auth.EncodeBasic(args[0], args[1]))
		return err
	},
}

func init() {
	headerCmd.AddCommand(headerBasicCmd)
	rootCmd.AddCommand(headerCmd)
}
