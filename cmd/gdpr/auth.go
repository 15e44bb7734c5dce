package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/florishenkelman/gdpr-tool/internal/model"
	"github.com/florishenkelman/gdpr-tool/internal/session"
)

// readPassword prompts for a password without echoing when stdin is a
// terminal, and falls back to reading a line otherwise (pipes, scripts).
func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		data, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	var line string
	if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

var loginCmd = &cobra.Command{
	Use:     "login",
	Short:   "Sign in and persist the session",
	GroupID: "auth",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		if email == "" {
			return fmt.Errorf("--email is required")
		}
		if password == "" {
			var err error
			password, err = readPassword("Password: ")
			if err != nil {
				return fmt.Errorf("reading password: %w", err)
			}
		}

		user, err := mgr.Login(cmd.Context(), model.Credentials{Email: email, Password: password})
		if err != nil {
			fail(err)
		}
		fmt.Printf("signed in as %s (%s)\n", user.Username, user.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:     "logout",
	Short:   "Sign out and discard the persisted session",
	GroupID: "auth",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr.Logout()
		fmt.Println("signed out")
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:     "register",
	Short:   "Create a new account",
	GroupID: "auth",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")
		jobTitle, _ := cmd.Flags().GetString("job-title")
		role, _ := cmd.Flags().GetString("role")

		if email == "" || username == "" {
			return fmt.Errorf("--email and --username are required")
		}
		if password == "" {
			var err error
			password, err = readPassword("Password: ")
			if err != nil {
				return fmt.Errorf("reading password: %w", err)
			}
		}

		reg := model.Registration{
			Email:    email,
			Username: username,
			Password: password,
			JobTitle: jobTitle,
		}
		if role != "" {
			r := model.Role(strings.ToUpper(role))
			if !r.IsValid() {
				return fmt.Errorf("invalid role %q (must be ADMIN, EDITOR, or VIEWER)", role)
			}
			reg.Role = r
		}

		user, err := services.Users.Register(cmd.Context(), reg)
		if err != nil {
			fail(err)
		}
		fmt.Printf("account created: %s (%s, %s)\n", user.Username, user.Email, user.Role)
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Short:   "Show the signed-in identity",
	GroupID: "auth",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if mgr.Status() != session.StatusAuthenticated {
			fmt.Println("not signed in")
			return nil
		}
		user := mgr.CurrentIdentity()
		if jsonOutput {
			printJSON(user)
			return nil
		}
		printUserTable(user)
		return nil
	},
}

func init() {
	loginCmd.Flags().String("email", "", "account email")
	loginCmd.Flags().String("password", "", "account password (prompted when omitted)")

	registerCmd.Flags().String("email", "", "account email")
	registerCmd.Flags().String("username", "", "display name")
	registerCmd.Flags().String("password", "", "account password (prompted when omitted)")
	registerCmd.Flags().String("job-title", "", "job title")
	registerCmd.Flags().String("role", "", "account role (defaults to VIEWER on the server)")
}
