package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"unpolished/internal/featureflags"
	"unpolished/internal/repository"
	"unpolished/internal/service"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type services struct {
	blogs    *service.BlogService
	comments *service.CommentService
}

func newServices(db *gorm.DB) *services {
	blogRepo := repository.NewBlogRepository(db)
	userRepo := repository.NewUserRepository(db)
	return &services{
		blogs:    service.NewBlogService(blogRepo, userRepo, repository.NewEngagementRepository(db)),
		comments: service.NewCommentService(repository.NewCommentRepository(db), blogRepo, featureflags.NewManager("")),
	}
}

func newRootCmd(open func() (*gorm.DB, error), out io.Writer) *cobra.Command {
	var svc *services

	root := &cobra.Command{
		Use:           "admin",
		Short:         "Maintenance commands for blogs and comments",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			db, err := open()
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			svc = newServices(db)
			return nil
		},
	}
	root.SetOut(out)

	var blogID uint
	recount := &cobra.Command{
		Use:   "recount-comments",
		Short: "Reset comment_count to the number of stored comments",
		RunE: func(cmd *cobra.Command, args []string) error {
			fixed, err := svc.blogs.RecountComments(context.Background(), blogID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "corrected %d blog(s)\n", fixed)
			return nil
		},
	}
	recount.Flags().UintVar(&blogID, "blog", 0, "Only recount this blog ID (default: all blogs)")

	publish := &cobra.Command{
		Use:   "publish-scheduled",
		Short: "Publish every scheduled blog whose time has come",
		RunE: func(cmd *cobra.Command, args []string) error {
			published, err := svc.blogs.PublishScheduled(context.Background())
			if err != nil {
				return err
			}
			for _, b := range published {
				fmt.Fprintf(cmd.OutOrStdout(), "published %d %s\n", b.ID, b.Slug)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "published %d blog(s)\n", len(published))
			return nil
		},
	}

	status := &cobra.Command{
		Use:   "comment-status <comment_id> <PENDING|APPROVED|REJECTED|SPAM>",
		Short: "Moderate a comment as the blog's author",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil || id == 0 {
				return fmt.Errorf("invalid comment id %q", args[0])
			}
			comment, err := svc.comments.SetStatusAsAdmin(context.Background(), uint(id), args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "comment %d is now %s\n", comment.ID, comment.Status)
			return nil
		},
	}

	root.AddCommand(recount, publish, status)
	return root
}
