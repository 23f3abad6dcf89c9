package cli

import (
	"context"
	"fmt"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/getfive/trackboard/internal/model"
)

var (
	userName  string
	userRoles []string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage the member directory",
}

var userAddCmd = &cobra.Command{
	Use:   "add <email>",
	Short: "Create or update a directory member",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := strings.TrimSpace(args[0])
		if email == "" {
			return fmt.Errorf("email required")
		}

		fmt.Print("Password: ")
		passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		if len(passwordBytes) < 8 {
			return fmt.Errorf("password must be at least 8 characters")
		}

		hash, err := bcrypt.GenerateFromPassword(passwordBytes, bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		database, err := openDatabase()
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()

		u := &model.User{
			Name:         userName,
			Email:        email,
			Roles:        userRoles,
			PasswordHash: string(hash),
		}
		if err := database.UpsertUser(context.Background(), u); err != nil {
			return err
		}

		fmt.Printf("✅ User %s saved (roles: %s)\n", email, strings.Join(u.Roles, ", "))
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List directory members",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase()
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()

		users, err := database.ListUsers(context.Background())
		if err != nil {
			return err
		}
		if len(users) == 0 {
			fmt.Println("No users in the directory.")
			return nil
		}
		for _, u := range users {
			fmt.Printf("%-35s %-25s %s\n", u.Email, u.Name, strings.Join(u.Roles, ","))
		}
		return nil
	},
}

func init() {
	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userListCmd)

	userAddCmd.Flags().StringVar(&userName, "name", "", "Display name")
	userAddCmd.Flags().StringSliceVar(&userRoles, "role", nil, "Roles (employee, admin, master_admin, RM)")
}
