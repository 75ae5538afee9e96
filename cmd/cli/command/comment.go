package command

import (
	"fmt"
	"strings"

	"reportam/internal/microservices/http-api/dto"

	"github.com/spf13/cobra"
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Comment commands",
	Long:  `Read and write report comments: list, tree, add, like, edit and delete`,
}

var listCommentsCmd = &cobra.Command{
	Use:   "list [report-id]",
	Short: "List a report's comments, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		limit, _ := cmd.Flags().GetInt("limit")

		result, err := GetClient().ListComments(args[0], page, limit)
		if err != nil {
			return fmt.Errorf("failed to list comments: %w", err)
		}

		fmt.Printf("Page %d of %d (%d comments)\n", result.Page, result.TotalPages, result.Total)
		for _, c := range result.Data {
			printComment(c, "")
		}
		return nil
	},
}

var treeCmd = &cobra.Command{
	Use:   "tree [report-id]",
	Short: "Show a report's comments as a thread",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		thread, err := GetClient().GetThread(args[0])
		if err != nil {
			return fmt.Errorf("failed to get thread: %w", err)
		}

		fmt.Printf("Report %s (%d comments)\n", thread.ReportID, thread.Total)
		for _, top := range thread.Comments {
			printComment(top.CommentResponse, "")
			for _, reply := range top.Replies {
				printComment(reply.CommentResponse, "    ")
			}
		}
		return nil
	},
}

var addCommentCmd = &cobra.Command{
	Use:   "add [report-id] [text]",
	Short: "Post a comment, or a reply with --parent",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		parent, _ := cmd.Flags().GetString("parent")
		author, _ := cmd.Flags().GetString("author")
		fingerprint, _ := cmd.Flags().GetString("fingerprint")

		req := &dto.CreateCommentDTO{
			Text:        strings.Join(args[1:], " "),
			AuthorLabel: author,
			Fingerprint: fingerprint,
		}
		if parent != "" {
			req.ParentID = &parent
		}

		result, err := GetClient().CreateComment(args[0], req)
		if err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}

		fmt.Println("✓ " + result.Message)
		printComment(*result.Comment, "")
		return nil
	},
}

var likeCommentCmd = &cobra.Command{
	Use:   "like [comment-id]",
	Short: "Toggle your like on a comment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		voter, _ := cmd.Flags().GetString("voter")

		result, err := GetClient().ToggleLike(args[0], voter)
		if err != nil {
			return fmt.Errorf("failed to like comment: %w", err)
		}

		if result.Liked {
			fmt.Printf("✓ Liked (%d likes)\n", result.LikesCount)
		} else {
			fmt.Printf("✓ Like removed (%d likes)\n", result.LikesCount)
		}
		return nil
	},
}

var editCommentCmd = &cobra.Command{
	Use:   "edit [comment-id] [text]",
	Short: "Edit a comment you posted (or any comment with --token)",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fingerprint, _ := cmd.Flags().GetString("fingerprint")

		result, err := GetClient().UpdateComment(args[0], &dto.UpdateCommentDTO{
			Text:        strings.Join(args[1:], " "),
			Fingerprint: fingerprint,
		})
		if err != nil {
			return fmt.Errorf("failed to update comment: %w", err)
		}

		fmt.Println("✓ Comment updated successfully!")
		printComment(*result, "")
		return nil
	},
}

var deleteCommentCmd = &cobra.Command{
	Use:   "delete [comment-id]",
	Short: "Delete a comment you posted (or any comment with --token)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fingerprint, _ := cmd.Flags().GetString("fingerprint")

		if err := GetClient().DeleteComment(args[0], fingerprint); err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}

		fmt.Printf("✓ Comment %s deleted successfully!\n", args[0])
		return nil
	},
}

func printComment(c dto.CommentResponse, indent string) {
	fmt.Printf("%s[%s] %s: %s (%d likes, %s)\n",
		indent, c.ID, c.AuthorLabel, c.Text, c.LikesCount, c.CreatedAt.Format("2006-01-02 15:04:05"))
}

func init() {
	rootCmd.AddCommand(commentCmd)
	commentCmd.AddCommand(listCommentsCmd, treeCmd, addCommentCmd, likeCommentCmd, editCommentCmd, deleteCommentCmd)

	listCommentsCmd.Flags().Int("page", 1, "Page number")
	listCommentsCmd.Flags().Int("limit", 20, "Comments per page")

	addCommentCmd.Flags().String("parent", "", "ID of the top-level comment to reply to")
	addCommentCmd.Flags().String("author", "", "Display name (defaults to Anonymous User)")
	addCommentCmd.Flags().String("fingerprint", "", "Secret that lets you edit or delete the comment later")

	likeCommentCmd.Flags().String("voter", "", "Voter token (defaults to your IP on the server)")

	editCommentCmd.Flags().String("fingerprint", "", "Fingerprint the comment was posted with")
	deleteCommentCmd.Flags().String("fingerprint", "", "Fingerprint the comment was posted with")
}
