package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/florishenkelman/gdpr-tool/internal/client"
	"github.com/florishenkelman/gdpr-tool/internal/events"
	"github.com/florishenkelman/gdpr-tool/internal/model"
)

var userCmd = &cobra.Command{
	Use:     "user",
	Short:   "Manage user accounts",
	GroupID: "system",
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := services.Users.List(cmd.Context())
		if err != nil {
			fail(err)
		}
		if jsonOutput {
			printJSON(users)
			return nil
		}
		printUserListTable(users)
		return nil
	},
}

var userShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := services.Users.Get(cmd.Context(), args[0])
		if err != nil {
			fail(err)
		}
		if jsonOutput {
			printJSON(user)
			return nil
		}
		printUserTable(user)
		return nil
	},
}

var userUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields on a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		update := &client.UserUpdate{}
		changed := false
		if cmd.Flags().Changed("username") {
			v, _ := cmd.Flags().GetString("username")
			update.Username = &v
			changed = true
		}
		if cmd.Flags().Changed("email") {
			v, _ := cmd.Flags().GetString("email")
			update.Email = &v
			changed = true
		}
		if cmd.Flags().Changed("job-title") {
			v, _ := cmd.Flags().GetString("job-title")
			update.JobTitle = &v
			changed = true
		}
		if cmd.Flags().Changed("role") {
			v, _ := cmd.Flags().GetString("role")
			r := model.Role(strings.ToUpper(v))
			if !r.IsValid() {
				return fmt.Errorf("invalid role %q (must be ADMIN, EDITOR, or VIEWER)", v)
			}
			update.Role = &r
			changed = true
		}
		if !changed {
			return fmt.Errorf("nothing to update; pass at least one of --username, --email, --job-title, --role")
		}

		user, err := services.Users.Update(cmd.Context(), args[0], update)
		if err != nil {
			fail(err)
		}
		if me := mgr.CurrentIdentity(); me != nil && me.ID == user.ID {
			mgr.ReplaceIdentity(user)
		}
		publishEvent(cmd.Context(), events.TopicUserUpdated, events.UserUpdated{User: user})
		if jsonOutput {
			printJSON(user)
			return nil
		}
		fmt.Printf("updated user %s\n", user.ID)
		return nil
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := services.Users.Delete(cmd.Context(), args[0]); err != nil {
			fail(err)
		}
		fmt.Printf("deleted user %s\n", args[0])
		return nil
	},
}

var userAvatarCmd = &cobra.Command{
	Use:   "avatar <id> <file>",
	Short: "Upload a profile picture",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, path := args[0], args[1]

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		info, err := f.Stat()
		if err != nil {
			return err
		}
		contentType := mime.TypeByExtension(filepath.Ext(path))

		user, err := services.Users.UploadAvatar(cmd.Context(), userID, filepath.Base(path), contentType, info.Size(), f)
		if err != nil {
			fail(err)
		}
		if me := mgr.CurrentIdentity(); me != nil && me.ID == user.ID {
			mgr.ReplaceIdentity(user)
		}
		publishEvent(cmd.Context(), events.TopicUserUpdated, events.UserUpdated{User: user})
		if jsonOutput {
			printJSON(user)
			return nil
		}
		fmt.Printf("avatar updated for %s\n", user.Username)
		return nil
	},
}

func init() {
	userUpdateCmd.Flags().String("username", "", "new display name")
	userUpdateCmd.Flags().String("email", "", "new email")
	userUpdateCmd.Flags().String("job-title", "", "new job title")
	userUpdateCmd.Flags().String("role", "", "new role (ADMIN, EDITOR, VIEWER)")

	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userShowCmd)
	userCmd.AddCommand(userUpdateCmd)
	userCmd.AddCommand(userDeleteCmd)
	userCmd.AddCommand(userAvatarCmd)
}
