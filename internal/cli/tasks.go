package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/hiroki-koketsu/taskcore/internal/model"
	"github.com/hiroki-koketsu/taskcore/internal/store"
	"github.com/spf13/cobra"
)

func addCmd(withStore runWithStore) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [title...]",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
	}
	description := cmd.Flags().StringP("description", "d", "", "Task description")
	priority := cmd.Flags().StringP("priority", "p", string(model.PriorityMedium), "low, medium or high")
	category := cmd.Flags().StringP("category", "c", string(model.CategoryPersonal), "work, personal, health, shopping or education")
	due := cmd.Flags().String("due", "", "Due date (RFC 3339) or duration from now, e.g. 36h")

	cmd.RunE = withStore(func(cmd *cobra.Command, args []string, st *store.Store) error {
		p, err := model.ParsePriority(*priority)
		if err != nil {
			return err
		}
		c, err := model.ParseCategory(*category)
		if err != nil {
			return err
		}
		opts := []model.TaskOption{
			model.WithDescription(*description),
			model.WithPriority(p),
			model.WithCategory(c),
		}
		if *due != "" {
			d, err := parseDue(*due, st.Now())
			if err != nil {
				return err
			}
			opts = append(opts, model.WithDueDate(d))
		}

		task := st.AddTask(cmd.Context(), strings.Join(args, " "), opts...)
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s  %s\n", task.ID, task.Title)
		return nil
	})
	return cmd
}

// queryFlags registers the view flags shared by list and rm-at.
func queryFlags(cmd *cobra.Command) func() (model.Query, error) {
	search := cmd.Flags().StringP("search", "s", "", "Case-insensitive text in title or description")
	filter := cmd.Flags().StringP("filter", "f", string(model.FilterAll), "all, pending, completed, overdue or dueSoon")
	category := cmd.Flags().StringP("category", "c", "", "Only tasks in this category")
	sort := cmd.Flags().String("sort", string(model.SortByCreatedDate), "createdDate, dueDate, priority or title")

	return func() (model.Query, error) {
		q := model.DefaultQuery()
		q.Search = *search

		f, err := model.ParseFilter(*filter)
		if err != nil {
			return q, err
		}
		q.Filter = f

		if *category != "" {
			c, err := model.ParseCategory(*category)
			if err != nil {
				return q, err
			}
			q.Category = &c
		}

		o, err := model.ParseSortOption(*sort)
		if err != nil {
			return q, err
		}
		q.Sort = o
		return q, nil
	}
}

func listCmd(withStore runWithStore) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks with their positions",
		Args:  cobra.NoArgs,
	}
	query := queryFlags(cmd)
	asJSON := cmd.Flags().BoolP("json", "j", false, "Output as JSON")

	cmd.RunE = withStore(func(cmd *cobra.Command, args []string, st *store.Store) error {
		q, err := query()
		if err != nil {
			return err
		}
		tasks := st.Query(q)
		if *asJSON {
			return writeJSON(cmd.OutOrStdout(), tasks)
		}
		if len(tasks) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No tasks.")
			return nil
		}
		for i, t := range tasks {
			printTask(cmd.OutOrStdout(), i, t)
		}
		return nil
	})
	return cmd
}

func editCmd(withStore runWithStore) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Change fields of a task",
		Args:  cobra.ExactArgs(1),
	}
	flags := cmd.Flags()
	flags.String("title", "", "New title")
	flags.StringP("description", "d", "", "New description")
	flags.StringP("priority", "p", "", "New priority")
	flags.StringP("category", "c", "", "New category")
	flags.String("due", "", "New due date (RFC 3339) or duration from now")

	cmd.RunE = withStore(func(cmd *cobra.Command, args []string, st *store.Store) error {
		patch, err := patchFromFlags(cmd, st.Now())
		if err != nil {
			return err
		}
		if patch.IsEmpty() {
			return fmt.Errorf("nothing to change: set at least one of --title, --description, --priority, --category, --due")
		}

		task, found := st.UpdateTask(cmd.Context(), args[0], patch)
		if !found {
			return notFound(args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s  %s\n", task.ID, task.Title)
		return nil
	})
	return cmd
}

// patchFromFlags sets only the fields whose flags were given.
func patchFromFlags(cmd *cobra.Command, now time.Time) (model.TaskPatch, error) {
	var patch model.TaskPatch
	flags := cmd.Flags()

	if flags.Changed("title") {
		v, _ := flags.GetString("title")
		patch = patch.SetTitle(v)
	}
	if flags.Changed("description") {
		v, _ := flags.GetString("description")
		patch = patch.SetDescription(v)
	}
	if flags.Changed("priority") {
		v, _ := flags.GetString("priority")
		p, err := model.ParsePriority(v)
		if err != nil {
			return patch, err
		}
		patch = patch.SetPriority(p)
	}
	if flags.Changed("category") {
		v, _ := flags.GetString("category")
		c, err := model.ParseCategory(v)
		if err != nil {
			return patch, err
		}
		patch = patch.SetCategory(c)
	}
	if flags.Changed("due") {
		v, _ := flags.GetString("due")
		d, err := parseDue(v, now)
		if err != nil {
			return patch, err
		}
		patch = patch.SetDueDate(d)
	}
	return patch, nil
}

func toggleCmd(withStore runWithStore) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle [id]",
		Short: "Mark a task completed, or pending again",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = withStore(func(cmd *cobra.Command, args []string, st *store.Store) error {
		task, found := st.ToggleTask(cmd.Context(), args[0])
		if !found {
			return notFound(args[0])
		}
		state := "pending"
		if task.IsCompleted {
			state = "completed"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", task.Title, state)
		return nil
	})
	return cmd
}

func rmCmd(withStore runWithStore) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm [id]",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = withStore(func(cmd *cobra.Command, args []string, st *store.Store) error {
		if !st.DeleteTask(cmd.Context(), args[0]) {
			return notFound(args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	})
	return cmd
}

func rmAtCmd(withStore runWithStore) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm-at [position...]",
		Short: "Delete tasks by their position in a listing",
		Long: `Delete tasks by the positions "list" shows for the same flags.
Positions outside the listing are ignored.`,
		Args: cobra.MinimumNArgs(1),
	}
	query := queryFlags(cmd)

	cmd.RunE = withStore(func(cmd *cobra.Command, args []string, st *store.Store) error {
		q, err := query()
		if err != nil {
			return err
		}
		positions := make([]int, 0, len(args))
		for _, a := range args {
			n, err := strconv.Atoi(a)
			if err != nil {
				return fmt.Errorf("%w: position %q", model.ErrInvalidValue, a)
			}
			positions = append(positions, n)
		}

		st.SetView(q)
		deleted := st.DeleteTasksAt(cmd.Context(), positions)
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d task(s)\n", deleted)
		return nil
	})
	return cmd
}

func clearCmd(withStore runWithStore) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every completed task",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = withStore(func(cmd *cobra.Command, args []string, st *store.Store) error {
		deleted := st.ClearCompletedTasks(cmd.Context())
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d completed task(s)\n", deleted)
		return nil
	})
	return cmd
}

func archiveCmd(withStore runWithStore) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Delete completed tasks finished more than N days ago",
		Args:  cobra.NoArgs,
	}
	days := cmd.Flags().Int("older-than-days", 30, "Age in days")

	cmd.RunE = withStore(func(cmd *cobra.Command, args []string, st *store.Store) error {
		if *days < 0 {
			return fmt.Errorf("%w: --older-than-days must not be negative", model.ErrInvalidValue)
		}
		archived := st.ArchiveCompletedTasks(cmd.Context(), *days)
		fmt.Fprintf(cmd.OutOrStdout(), "Archived %d task(s)\n", archived)
		return nil
	})
	return cmd
}

func statsCmd(withStore runWithStore) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show task statistics",
		Args:  cobra.NoArgs,
	}
	asJSON := cmd.Flags().BoolP("json", "j", false, "Output as JSON")

	cmd.RunE = withStore(func(cmd *cobra.Command, args []string, st *store.Store) error {
		stats := st.Statistics()
		score := st.ProductivityScore()
		out := cmd.OutOrStdout()

		if *asJSON {
			return writeJSON(out, struct {
				model.TaskStatistics
				ProductivityScore float64 `json:"productivityScore"`
			}{stats, score})
		}

		fmt.Fprintln(out, "Task Statistics")
		fmt.Fprintln(out, strings.Repeat("=", 40))
		fmt.Fprintf(out, "  %-14s %d\n", "Total:", stats.TotalTasks)
		fmt.Fprintf(out, "  %-14s %d (%d%%)\n", "Completed:", stats.CompletedTasks, stats.CompletionPercentage)
		fmt.Fprintf(out, "  %-14s %d\n", "Pending:", stats.PendingTasks)
		fmt.Fprintf(out, "  %-14s %d\n", "Overdue:", stats.OverdueTasks)
		fmt.Fprintf(out, "  %-14s %d\n", "Due soon:", stats.DueSoonTasks)
		fmt.Fprintf(out, "  %-14s %.2f\n", "Productivity:", score)

		fmt.Fprintln(out, "\nBy category:")
		for _, c := range model.Categories() {
			if n := stats.TasksByCategory[c]; n > 0 {
				fmt.Fprintf(out, "  %-14s %d\n", string(c)+":", n)
			}
		}
		fmt.Fprintln(out, "\nBy priority:")
		for _, p := range model.Priorities() {
			if n := stats.TasksByPriority[p]; n > 0 {
				fmt.Fprintf(out, "  %-14s %d\n", string(p)+":", n)
			}
		}
		return nil
	})
	return cmd
}

func scheduleCmd(withStore runWithStore) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Suggest an order for pending tasks",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = withStore(func(cmd *cobra.Command, args []string, st *store.Store) error {
		ids := st.SuggestTaskSchedule()
		if len(ids) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing pending.")
			return nil
		}
		for i, id := range ids {
			if t, ok := st.Get(id); ok {
				printTask(cmd.OutOrStdout(), i, t)
			}
		}
		return nil
	})
	return cmd
}

func escalationsCmd(withStore runWithStore) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "escalations",
		Short: "List overdue tasks that need attention",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = withStore(func(cmd *cobra.Command, args []string, st *store.Store) error {
		tasks := st.EscalatedTasks()
		if len(tasks) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No escalations.")
			return nil
		}
		for i, t := range tasks {
			printTask(cmd.OutOrStdout(), i, t)
		}
		return nil
	})
	return cmd
}

// parseDue accepts an RFC 3339 timestamp or a duration added to now.
func parseDue(raw string, now time.Time) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return now.Add(d), nil
	}
	return time.Time{}, fmt.Errorf("%w: due %q is neither RFC 3339 nor a duration", model.ErrInvalidValue, raw)
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", model.ErrTaskNotFound, id)
}

func printTask(w io.Writer, pos int, t *model.Task) {
	mark := " "
	if t.IsCompleted {
		mark = "x"
	}
	due := "-"
	if t.DueDate != nil {
		due = t.DueDate.Local().Format("2006-01-02 15:04")
	}
	fmt.Fprintf(w, "%3d [%s] %-6s %-9s %-16s %s  (%s)\n",
		pos, mark, t.Priority, t.Category, due, t.Title, t.ID)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
