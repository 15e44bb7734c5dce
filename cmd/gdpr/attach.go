package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/florishenkelman/gdpr-tool/internal/events"
)

var attachCmd = &cobra.Command{
	Use:     "attach",
	Short:   "Manage task attachments",
	GroupID: "tasks",
}

var attachUploadCmd = &cobra.Command{
	Use:   "upload <task-id> <file>",
	Short: "Upload a file to a task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, path := args[0], args[1]

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		contentType := mime.TypeByExtension(filepath.Ext(path))
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		attachment, err := services.Attachments.Upload(cmd.Context(), taskID, filepath.Base(path), contentType, f)
		if err != nil {
			fail(err)
		}
		publishEvent(cmd.Context(), events.TopicAttachmentAdded, events.AttachmentAdded{Attachment: attachment})
		if jsonOutput {
			printJSON(attachment)
			return nil
		}
		fmt.Printf("uploaded %s (%d bytes) as attachment %s\n", attachment.FileName, attachment.FileSize, attachment.ID)
		return nil
	},
}

var attachListCmd = &cobra.Command{
	Use:   "list <task-id>",
	Short: "List the attachments on a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		attachments, err := services.Attachments.ListForTask(cmd.Context(), args[0])
		if err != nil {
			fail(err)
		}
		if jsonOutput {
			printJSON(attachments)
			return nil
		}
		printAttachmentListTable(attachments)
		return nil
	},
}

var attachDownloadCmd = &cobra.Command{
	Use:   "download <attachment-id>",
	Short: "Download an attachment",
	Long: `Download an attachment's content. By default the bytes are written
to a file named with --output, or to stdout when --output is "-".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		blob, err := services.Attachments.Download(cmd.Context(), args[0])
		if err != nil {
			fail(err)
		}
		if output == "-" {
			_, err := os.Stdout.Write(blob.Data)
			return err
		}
		if output == "" {
			output = args[0]
		}
		if err := os.WriteFile(output, blob.Data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", output, err)
		}
		fmt.Printf("wrote %d bytes to %s (%s)\n", len(blob.Data), output, blob.ContentType)
		return nil
	},
}

var attachDeleteCmd = &cobra.Command{
	Use:   "delete <attachment-id>",
	Short: "Delete an attachment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := services.Attachments.Delete(cmd.Context(), args[0]); err != nil {
			fail(err)
		}
		publishEvent(cmd.Context(), events.TopicAttachmentDeleted, events.AttachmentDeleted{AttachmentID: args[0]})
		fmt.Printf("deleted attachment %s\n", args[0])
		return nil
	},
}

func init() {
	attachDownloadCmd.Flags().StringP("output", "o", "", "output path (\"-\" for stdout, default attachment ID)")

	attachCmd.AddCommand(attachUploadCmd)
	attachCmd.AddCommand(attachListCmd)
	attachCmd.AddCommand(attachDownloadCmd)
	attachCmd.AddCommand(attachDeleteCmd)
}
