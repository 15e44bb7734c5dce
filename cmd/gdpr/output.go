package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/florishenkelman/gdpr-tool/internal/api"
	"github.com/florishenkelman/gdpr-tool/internal/dashboard"
	"github.com/florishenkelman/gdpr-tool/internal/model"
	"github.com/florishenkelman/gdpr-tool/internal/ui"
)

// fail prints a classified error message and exits. Auth failures and
// network failures get actionable messages instead of raw error chains.
func fail(err error) {
	var netErr *api.NetworkError
	var authErr *api.AuthError
	var valErr *model.ValidationError
	switch {
	case errors.As(err, &netErr):
		fmt.Fprintf(os.Stderr, "Error: cannot reach server: %v\n", netErr.Err)
	case errors.As(err, &authErr):
		fmt.Fprintf(os.Stderr, "Error: %v\nRun 'gdpr login' to sign in again.\n", authErr)
	case errors.As(err, &valErr):
		fmt.Fprintln(os.Stderr, "Error: invalid input:")
		for _, fe := range valErr.Errors {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", fe.Field, fe.Message)
		}
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fail(err)
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func formatDueDate(t *model.Task, now time.Time) string {
	if t.DueDate == nil {
		return "-"
	}
	s := t.DueDate.Local().Format("2006-01-02")
	if t.Overdue(now) {
		return ui.RenderOverdue(s)
	}
	return s
}

func printTaskListTable(tasks []*model.Task) {
	if len(tasks) == 0 {
		fmt.Println("no tasks")
		return
	}
	now := time.Now()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tPRIORITY\tDUE\tTITLE")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			t.ID,
			ui.RenderStatus(t.Status),
			ui.RenderPriority(t.Priority),
			formatDueDate(t, now),
			t.Title)
	}
	w.Flush()
}

func printTaskTable(t *model.Task) {
	now := time.Now()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%s\n", t.ID)
	fmt.Fprintf(w, "Title:\t%s\n", t.Title)
	fmt.Fprintf(w, "Status:\t%s\n", ui.RenderStatus(t.Status))
	fmt.Fprintf(w, "Priority:\t%s\n", ui.RenderPriority(t.Priority))
	if t.Description != "" {
		fmt.Fprintf(w, "Description:\t%s\n", t.Description)
	}
	if t.AssigneeID != "" {
		fmt.Fprintf(w, "Assignee:\t%s\n", t.AssigneeID)
	}
	fmt.Fprintf(w, "Due:\t%s\n", formatDueDate(t, now))
	fmt.Fprintf(w, "Created:\t%s\n", formatDate(t.CreatedAt))
	fmt.Fprintf(w, "Updated:\t%s\n", formatDate(t.UpdatedAt))
	w.Flush()

	if len(t.Comments) > 0 {
		fmt.Println()
		fmt.Println(ui.RenderAccent("Comments:"))
		printComments(t.Comments)
	}
}

func printComments(comments []*model.Comment) {
	for _, c := range comments {
		author := c.Author
		if author == "" {
			author = c.AuthorID
		}
		fmt.Printf("  %s %s\n", ui.RenderAccent(author), ui.RenderMuted(formatDate(c.CreatedAt)))
		fmt.Printf("    %s\n", c.Content)
	}
}

func printUserTable(u *model.User) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%s\n", u.ID)
	fmt.Fprintf(w, "Username:\t%s\n", u.Username)
	fmt.Fprintf(w, "Email:\t%s\n", u.Email)
	fmt.Fprintf(w, "Role:\t%s\n", u.Role)
	if u.JobTitle != "" {
		fmt.Fprintf(w, "Job title:\t%s\n", u.JobTitle)
	}
	if u.AvatarURL != "" {
		fmt.Fprintf(w, "Avatar:\t%s\n", u.AvatarURL)
	}
	w.Flush()
}

func printUserListTable(users []*model.User) {
	if len(users) == 0 {
		fmt.Println("no users")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tROLE\tJOB TITLE")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, u.Role, u.JobTitle)
	}
	w.Flush()
}

func printArticleListTable(articles []*model.Article) {
	if len(articles) == 0 {
		fmt.Println("no articles")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tARTICLE\tCHAPTER\tTITLE")
	for _, a := range articles {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.ID, a.ArticleNumber, a.Chapter, a.Title)
	}
	w.Flush()
}

func printArticle(a *model.Article) {
	fmt.Printf("%s %s\n", ui.RenderAccent("Article "+a.ArticleNumber), a.Title)
	if a.Chapter != "" {
		fmt.Println(ui.RenderMuted(a.Chapter))
	}
	fmt.Println()
	fmt.Println(a.Content)
}

func printAttachmentListTable(attachments []*model.Attachment) {
	if len(attachments) == 0 {
		fmt.Println("no attachments")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFILE\tTYPE\tSIZE\tUPLOADED")
	for _, a := range attachments {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			a.ID, a.FileName, a.FileType, a.FileSize, formatDate(a.UploadedAt))
	}
	w.Flush()
}

func printSummaryTable(s *dashboard.Summary) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Total tasks:\t%d\n", s.Total)
	for _, st := range []model.TaskStatus{model.StatusOpen, model.StatusInProgress, model.StatusClosed} {
		fmt.Fprintf(w, "%s:\t%d\n", ui.RenderStatus(st), s.ByStatus[st])
	}
	for _, p := range []model.Priority{model.PriorityHigh, model.PriorityMedium, model.PriorityLow} {
		fmt.Fprintf(w, "%s:\t%d\n", ui.RenderPriority(p), s.ByPriority[p])
	}
	if s.Overdue > 0 {
		fmt.Fprintf(w, "Overdue:\t%s\n", ui.RenderOverdue(fmt.Sprintf("%d", s.Overdue)))
	} else {
		fmt.Fprintf(w, "Overdue:\t0\n")
	}
	w.Flush()
}
