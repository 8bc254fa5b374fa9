package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inkpost/inkpost/internal/handler/dto"
)

func (a *app) postsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Read and manage posts",
	}
	cmd.AddCommand(
		a.postsListCmd(),
		a.postsGetCmd(),
		a.postsCreateCmd(),
		a.postsUpdateCmd(),
		a.postsDeleteCmd(),
	)
	return cmd
}

func (a *app) postsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			posts, err := c.ListPosts(ctxOf(cmd))
			if err != nil {
				return err
			}
			return a.printPosts(posts)
		},
	}
}

func (a *app) postsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			post, err := c.GetPost(ctxOf(cmd), args[0])
			if err != nil {
				return err
			}
			return a.printPost(post)
		},
	}
}

func (a *app) postsCreateCmd() *cobra.Command {
	var title, body, bodyFile string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if bodyFile != "" {
				data, err := os.ReadFile(bodyFile)
				if err != nil {
					return fmt.Errorf("read body file: %w", err)
				}
				body = string(data)
			}
			if _, err := a.requireSession(); err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			post, err := c.CreatePost(ctxOf(cmd), title, body)
			if err != nil {
				return err
			}
			return a.printPost(post)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "post title")
	cmd.Flags().StringVar(&body, "body", "", "post body (HTML allowed)")
	cmd.Flags().StringVar(&bodyFile, "body-file", "", "read the body from a file")
	cmd.MarkFlagsMutuallyExclusive("body", "body-file")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func (a *app) postsUpdateCmd() *cobra.Command {
	var title, body string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the title or body of your post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireSession(); err != nil {
				return err
			}
			var req dto.UpdatePostRequest
			if cmd.Flags().Changed("title") {
				req.Title = &title
			}
			if cmd.Flags().Changed("body") {
				req.Body = &body
			}

			c, err := a.client()
			if err != nil {
				return err
			}
			post, err := c.UpdatePost(ctxOf(cmd), args[0], req)
			if err != nil {
				return err
			}
			return a.printPost(post)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&body, "body", "", "new body")
	return cmd
}

func (a *app) postsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete your post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireSession(); err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			if err := c.DeletePost(ctxOf(cmd), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Post %s deleted.\n", args[0])
			return nil
		},
	}
}
