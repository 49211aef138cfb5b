package main

import (
	"context"
	"fmt"
	"os"
	"time"

	dbadapter "yatube/internal/adapters/database"
	"yatube/internal/config"
	groupapp "yatube/internal/core/group/service"
	userapp "yatube/internal/core/user/service"
	sessionPort "yatube/internal/ports/session"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Migrate(config.DB); err != nil {
			return fmt.Errorf("error during migrations: %w", err)
		}
		config.Logger.Info("Database migrations completed")
		return nil
	},
}

var userFlags struct {
	username  string
	password  string
	firstName string
	lastName  string
}

var createUserCmd = &cobra.Command{
	Use:   "createuser",
	Short: "Register a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := newUserService().RegisterUser(cmd.Context(), userFlags.username, userFlags.password, userFlags.firstName, userFlags.lastName)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", u.Username, u.ID)
		return nil
	},
}

var deleteUserCmd = &cobra.Command{
	Use:   "deleteuser",
	Short: "Delete a user together with all of their posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newUserService().DeleteUser(cmd.Context(), userFlags.username); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted user %s\n", userFlags.username)
		return nil
	},
}

var groupFlags struct {
	title       string
	slug        string
	description string
}

var createGroupCmd = &cobra.Command{
	Use:   "creategroup",
	Short: "Create a group; the slug is derived from the title when omitted",
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := newGroupService().CreateGroup(cmd.Context(), groupFlags.title, groupFlags.slug, groupFlags.description)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created group %q with slug %s\n", g.Title, g.Slug)
		return nil
	},
}

var deleteGroupCmd = &cobra.Command{
	Use:   "deletegroup",
	Short: "Delete a group; its posts are kept without a group",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newGroupService().DeleteGroup(cmd.Context(), groupFlags.slug); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted group %s\n", groupFlags.slug)
		return nil
	},
}

func init() {
	createUserCmd.Flags().StringVar(&userFlags.username, "username", "", "username (required)")
	createUserCmd.Flags().StringVar(&userFlags.password, "password", os.Getenv("YATUBE_PASSWORD"), "password, defaults to $YATUBE_PASSWORD")
	createUserCmd.Flags().StringVar(&userFlags.firstName, "first-name", "", "first name")
	createUserCmd.Flags().StringVar(&userFlags.lastName, "last-name", "", "last name")
	_ = createUserCmd.MarkFlagRequired("username")

	deleteUserCmd.Flags().StringVar(&userFlags.username, "username", "", "username (required)")
	_ = deleteUserCmd.MarkFlagRequired("username")

	createGroupCmd.Flags().StringVar(&groupFlags.title, "title", "", "group title (required)")
	createGroupCmd.Flags().StringVar(&groupFlags.slug, "slug", "", "unique slug, derived from the title when empty")
	createGroupCmd.Flags().StringVar(&groupFlags.description, "description", "", "group description (required)")
	_ = createGroupCmd.MarkFlagRequired("title")
	_ = createGroupCmd.MarkFlagRequired("description")

	deleteGroupCmd.Flags().StringVar(&groupFlags.slug, "slug", "", "slug of the group (required)")
	_ = deleteGroupCmd.MarkFlagRequired("slug")
}

// newUserService builds a user service for management commands, which never
// touch sessions.
func newUserService() *userapp.UserService {
	return userapp.NewUserService(dbadapter.NewUserRepositoryDatabase(config.DB), noSessions{}, nil, 0, config.Logger)
}

func newGroupService() *groupapp.GroupService {
	return groupapp.NewGroupService(dbadapter.NewGroupRepositoryDatabase(config.DB), config.Logger)
}

type noSessions struct{}

var _ sessionPort.SessionStore = noSessions{}

func (noSessions) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error { return nil }

func (noSessions) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return false, nil
}
