package cli

import (
	"errors"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mbolis/quick-forms/database"
	"github.com/spf13/cobra"
)

var (
	userPassword string
	userRoles    []string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage administrator accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Create or reset an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := strings.TrimSpace(args[0])
		if username == "" {
			return errors.New("username cannot be empty")
		}

		password := userPassword
		if password == "" {
			err := survey.AskOne(&survey.Password{Message: "Password for " + username + ":"}, &password, survey.WithValidator(survey.Required))
			if err != nil {
				return err
			}
		}

		_, db, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.NewUserStore(db).AddUser(cmd.Context(), username, password, userRoles); err != nil {
			return err
		}
		cmd.Printf("User %s saved with roles %s\n", username, strings.Join(userRoles, ","))
		return nil
	},
}

func init() {
	userAddCmd.Flags().StringVar(&userPassword, "password", "", "password (prompted when empty)")
	userAddCmd.Flags().StringSliceVar(&userRoles, "roles", []string{adminRole}, "roles granted to the account")
	userCmd.AddCommand(userAddCmd)
}
