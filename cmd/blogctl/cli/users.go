package cli

import (
	"github.com/spf13/cobra"

	"github.com/inkpost/inkpost/internal/handler/dto"
)

func (a *app) usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "View and edit profiles",
	}
	cmd.AddCommand(a.usersGetCmd(), a.usersPostsCmd(), a.usersUpdateCmd())
	return cmd
}

// userArg returns the id argument, defaulting to the logged-in user.
func (a *app) userArg(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	sess, err := a.requireSession()
	if err != nil {
		return "", err
	}
	return sess.UserID, nil
}

func (a *app) usersGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [id]",
		Short: "Show a profile (yours by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.userArg(args)
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			user, err := c.GetUser(ctxOf(cmd), id)
			if err != nil {
				return err
			}
			return a.printUser(user)
		},
	}
}

func (a *app) usersPostsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "posts [id]",
		Short: "List a user's posts (yours by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.userArg(args)
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			posts, err := c.ListUserPosts(ctxOf(cmd), id)
			if err != nil {
				return err
			}
			return a.printPosts(posts)
		},
	}
}

func (a *app) usersUpdateCmd() *cobra.Command {
	var name, bio, avatarURL, location, website string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Edit your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.requireSession()
			if err != nil {
				return err
			}

			var req dto.UpdateProfileRequest
			set := func(flag string, dst **string, value *string) {
				if cmd.Flags().Changed(flag) {
					*dst = value
				}
			}
			set("name", &req.Name, &name)
			set("bio", &req.Bio, &bio)
			set("avatar-url", &req.AvatarURL, &avatarURL)
			set("location", &req.Location, &location)
			set("website", &req.Website, &website)

			c, err := a.client()
			if err != nil {
				return err
			}
			user, err := c.UpdateProfile(ctxOf(cmd), sess.UserID, req)
			if err != nil {
				return err
			}
			return a.printUser(user)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&bio, "bio", "", "short biography")
	cmd.Flags().StringVar(&avatarURL, "avatar-url", "", "avatar image URL")
	cmd.Flags().StringVar(&location, "location", "", "location")
	cmd.Flags().StringVar(&website, "website", "", "personal website")
	return cmd
}
