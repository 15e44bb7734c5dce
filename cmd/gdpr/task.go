package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/florishenkelman/gdpr-tool/internal/client"
	"github.com/florishenkelman/gdpr-tool/internal/events"
	"github.com/florishenkelman/gdpr-tool/internal/model"
	"github.com/florishenkelman/gdpr-tool/internal/search"
	"github.com/florishenkelman/gdpr-tool/internal/ui"
)

var taskCmd = &cobra.Command{
	Use:     "task",
	Short:   "Manage GDPR compliance tasks",
	GroupID: "tasks",
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks, optionally filtered by assignee or creator",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		assignee, _ := cmd.Flags().GetString("assignee")
		creator, _ := cmd.Flags().GetString("creator")

		var tasks []*model.Task
		var err error
		switch {
		case assignee != "" && creator != "":
			return fmt.Errorf("--assignee and --creator are mutually exclusive")
		case assignee != "":
			tasks, err = services.Tasks.ListByAssignee(cmd.Context(), assignee)
		case creator != "":
			tasks, err = services.Tasks.ListByCreator(cmd.Context(), creator)
		default:
			tasks, err = services.Tasks.List(cmd.Context())
		}
		if err != nil {
			fail(err)
		}
		if jsonOutput {
			printJSON(tasks)
			return nil
		}
		printTaskListTable(tasks)
		return nil
	},
}

var taskShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a task with its comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := services.Tasks.Get(cmd.Context(), args[0])
		if err != nil {
			fail(err)
		}
		if jsonOutput {
			printJSON(task)
			return nil
		}
		printTaskTable(task)
		return nil
	},
}

var taskCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a new task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")
		priority, _ := cmd.Flags().GetString("priority")
		assignee, _ := cmd.Flags().GetString("assignee")
		due, _ := cmd.Flags().GetString("due")

		draft := model.TaskDraft{
			Title:       args[0],
			Description: description,
			Priority:    strings.ToUpper(priority),
			AssigneeID:  assignee,
			DueDate:     due,
		}
		task, err := services.Tasks.Create(cmd.Context(), draft)
		if err != nil {
			fail(err)
		}
		publishEvent(cmd.Context(), events.TopicTaskCreated, events.TaskCreated{Task: task})
		if jsonOutput {
			printJSON(task)
			return nil
		}
		fmt.Printf("created task %s\n", ui.RenderAccent(task.ID))
		return nil
	},
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields on a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		update := &client.TaskUpdate{}
		changed := false
		if cmd.Flags().Changed("title") {
			v, _ := cmd.Flags().GetString("title")
			update.Title = &v
			changed = true
		}
		if cmd.Flags().Changed("description") {
			v, _ := cmd.Flags().GetString("description")
			update.Description = &v
			changed = true
		}
		if cmd.Flags().Changed("priority") {
			v, _ := cmd.Flags().GetString("priority")
			p := model.Priority(strings.ToUpper(v))
			if !p.IsValid() {
				return fmt.Errorf("invalid priority %q (must be LOW, MEDIUM, or HIGH)", v)
			}
			update.Priority = &p
			changed = true
		}
		if cmd.Flags().Changed("assignee") {
			v, _ := cmd.Flags().GetString("assignee")
			update.AssigneeID = &v
			changed = true
		}
		if cmd.Flags().Changed("due") {
			v, _ := cmd.Flags().GetString("due")
			update.DueDate = &v
			changed = true
		}
		if !changed {
			return fmt.Errorf("nothing to update; pass at least one of --title, --description, --priority, --assignee, --due")
		}

		task, err := services.Tasks.Update(cmd.Context(), args[0], update)
		if err != nil {
			fail(err)
		}
		publishEvent(cmd.Context(), events.TopicTaskUpdated, events.TaskUpdated{Task: task})
		if jsonOutput {
			printJSON(task)
			return nil
		}
		fmt.Printf("updated task %s\n", task.ID)
		return nil
	},
}

var taskStatusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Move a task to a new status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status := model.TaskStatus(strings.ToUpper(args[1]))
		if !status.IsValid() {
			return fmt.Errorf("invalid status %q (must be OPEN, IN_PROGRESS, or CLOSED)", args[1])
		}

		// Fetch first so the event can carry the prior status.
		prev, err := services.Tasks.Get(cmd.Context(), args[0])
		if err != nil {
			fail(err)
		}
		task, err := services.Tasks.UpdateStatus(cmd.Context(), args[0], status)
		if err != nil {
			fail(err)
		}
		publishEvent(cmd.Context(), events.TopicTaskStatusChanged, events.TaskStatusChanged{Task: task, From: prev.Status})
		if jsonOutput {
			printJSON(task)
			return nil
		}
		fmt.Printf("task %s is now %s\n", task.ID, ui.RenderStatus(task.Status))
		return nil
	},
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := services.Tasks.Delete(cmd.Context(), args[0]); err != nil {
			fail(err)
		}
		publishEvent(cmd.Context(), events.TopicTaskDeleted, events.TaskDeleted{TaskID: args[0]})
		fmt.Printf("deleted task %s\n", args[0])
		return nil
	},
}

var taskSearchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Search tasks (interactive when no term is given)",
	Long: `Search tasks by term, status, and priority. Search works without
signing in. With a term argument it runs one query and prints the
results; without one it reads query lines from stdin, debouncing
keystroke-paced input so only the latest query hits the server.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		priority, _ := cmd.Flags().GetString("priority")
		status = strings.ToUpper(status)
		priority = strings.ToUpper(priority)

		if len(args) == 1 {
			tasks, err := services.Tasks.Search(cmd.Context(), args[0], status, priority)
			if err != nil {
				fail(err)
			}
			if jsonOutput {
				printJSON(tasks)
				return nil
			}
			printTaskListTable(tasks)
			return nil
		}
		return runInteractiveSearch(cmd.Context(), status, priority)
	},
}

// runInteractiveSearch reads query lines from stdin and runs each through
// the debouncer, so a burst of refinements costs one request. Results from
// a superseded query are discarded with its canceled context.
func runInteractiveSearch(ctx context.Context, status, priority string) error {
	deb := search.NewDebouncer(cfg.SearchDebounce, func(ctx context.Context, query string) {
		tasks, err := services.Tasks.Search(ctx, query, status, priority)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			fmt.Fprintf(os.Stderr, "search failed: %v\n", err)
			return
		}
		printTaskListTable(tasks)
		fmt.Print("> ")
	})
	defer deb.Stop()

	fmt.Println(ui.RenderMuted("type a query and press enter; empty line quits"))
	fmt.Print("> ")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}
		deb.Schedule(line)
	}
	return scanner.Err()
}

var taskCommentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Work with task comments",
}

var taskCommentAddCmd = &cobra.Command{
	Use:   "add <task-id> <content>",
	Short: "Add a comment to a task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		comment, err := services.Tasks.AddComment(cmd.Context(), args[0], args[1])
		if err != nil {
			fail(err)
		}
		publishEvent(cmd.Context(), events.TopicCommentAdded, events.CommentAdded{Comment: comment})
		if jsonOutput {
			printJSON(comment)
			return nil
		}
		fmt.Printf("comment %s added to task %s\n", comment.ID, args[0])
		return nil
	},
}

var taskCommentListCmd = &cobra.Command{
	Use:   "list <task-id>",
	Short: "List the comments on a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		comments, err := services.Tasks.ListComments(cmd.Context(), args[0])
		if err != nil {
			fail(err)
		}
		if jsonOutput {
			printJSON(comments)
			return nil
		}
		if len(comments) == 0 {
			fmt.Println("no comments")
			return nil
		}
		printComments(comments)
		return nil
	},
}

func init() {
	taskListCmd.Flags().String("assignee", "", "only tasks assigned to this user ID")
	taskListCmd.Flags().String("creator", "", "only tasks created by this user ID")

	taskCreateCmd.Flags().String("description", "", "task description")
	taskCreateCmd.Flags().String("priority", "MEDIUM", "priority (LOW, MEDIUM, HIGH)")
	taskCreateCmd.Flags().String("assignee", "", "assignee user ID")
	taskCreateCmd.Flags().String("due", "", "due date (YYYY-MM-DD)")

	taskUpdateCmd.Flags().String("title", "", "new title")
	taskUpdateCmd.Flags().String("description", "", "new description")
	taskUpdateCmd.Flags().String("priority", "", "new priority (LOW, MEDIUM, HIGH)")
	taskUpdateCmd.Flags().String("assignee", "", "new assignee user ID")
	taskUpdateCmd.Flags().String("due", "", "new due date (YYYY-MM-DD)")

	taskSearchCmd.Flags().String("status", "", "filter by status (OPEN, IN_PROGRESS, CLOSED, ALL)")
	taskSearchCmd.Flags().String("priority", "", "filter by priority (LOW, MEDIUM, HIGH, ALL)")

	taskCommentCmd.AddCommand(taskCommentAddCmd)
	taskCommentCmd.AddCommand(taskCommentListCmd)

	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskUpdateCmd)
	taskCmd.AddCommand(taskStatusCmd)
	taskCmd.AddCommand(taskDeleteCmd)
	taskCmd.AddCommand(taskSearchCmd)
	taskCmd.AddCommand(taskCommentCmd)
}
