package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ajitesh123/tough-tongue-starter/internal/app"
	"github.com/ajitesh123/tough-tongue-starter/internal/config"
	"github.com/ajitesh123/tough-tongue-starter/internal/domain"
	"github.com/ajitesh123/tough-tongue-starter/internal/infra/repos/courses"
	"github.com/ajitesh123/tough-tongue-starter/internal/infra/repos/runs"
	"github.com/ajitesh123/tough-tongue-starter/internal/infra/repos/status"
	"github.com/ajitesh123/tough-tongue-starter/internal/lessons"
	"github.com/ajitesh123/tough-tongue-starter/internal/llm"
	"github.com/ajitesh123/tough-tongue-starter/internal/logging"
	"github.com/ajitesh123/tough-tongue-starter/internal/provision"
	"github.com/ajitesh123/tough-tongue-starter/internal/suggest"
	"github.com/ajitesh123/tough-tongue-starter/internal/timeutil"
	"github.com/ajitesh123/tough-tongue-starter/internal/toughtongue"
	"github.com/ajitesh123/tough-tongue-starter/internal/validation"
)

var (
	coursesFile string
	runsDBPath  string
	logLevel    string
)

func main() {
	cfg := config.Load()

	rootCmd := &cobra.Command{
		Use:   "coach",
		Short: "Interview coach course builder",
	}

	rootCmd.PersistentFlags().StringVar(&coursesFile, "courses-file", cfg.CoursesFile, "Courses file path (json or yaml)")
	rootCmd.PersistentFlags().StringVar(&runsDBPath, "runs-db", cfg.CoursesDBPath, "Runs database path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", cfg.LogLevel, "Log level")

	rootCmd.AddCommand(suggestCmd(cfg))
	rootCmd.AddCommand(coursesCmd())
	rootCmd.AddCommand(runCmd(cfg))
	rootCmd.AddCommand(lessonsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func suggestCmd(cfg *config.Config) *cobra.Command {
	var (
		level  string
		format string
		save   bool
	)

	cmd := &cobra.Command{
		Use:   "suggest <profession>",
		Short: "Suggest courses for a profession",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profession := args[0]
			if err := validation.ValidateProfession(profession); err != nil {
				return err
			}
			if level == "" {
				level = cfg.DefaultLevel
			}

			logger := logging.NewLogger(logLevel)
			svc := suggest.NewService(llm.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel), logger)
			list := svc.FetchSuggestions(profession, level)

			if save {
				repo := courses.NewFileRepository(coursesFile)
				if err := repo.Save(list); err != nil {
					return err
				}
				fmt.Printf("Saved %d courses to %s\n", len(list), coursesFile)
			}

			if format == "json" {
				data, _ := json.MarshalIndent(list, "", "  ")
				fmt.Println(string(data))
				return nil
			}

			printCourses(list)
			return nil
		},
	}

	cmd.Flags().StringVar(&level, "level", "", "Seniority level used in the prompt")
	cmd.Flags().StringVar(&format, "format", "table", "Output format (table|json)")
	cmd.Flags().BoolVar(&save, "save", false, "Save suggestions as the course list")
	return cmd
}

func coursesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "Manage the saved course list",
	}

	var format string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved courses",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo := courses.NewFileRepository(coursesFile)
			list, err := repo.Load()
			if err != nil {
				return err
			}

			if format == "json" {
				data, _ := json.MarshalIndent(list, "", "  ")
				fmt.Println(string(data))
				return nil
			}

			printCourses(list)
			return nil
		},
	}
	listCmd.Flags().StringVar(&format, "format", "table", "Output format (table|json)")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the saved course list",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo := courses.NewFileRepository(coursesFile)
			if err := repo.Clear(); err != nil {
				return err
			}
			fmt.Println("Courses cleared")
			return nil
		},
	}

	cmd.AddCommand(listCmd, clearCmd)
	return cmd
}

func runCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Manage provisioning runs",
	}

	var (
		profession string
		level      string
	)

	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Provision scenarios for the saved courses",
		Long:  "Provision scenarios for the saved courses. With --profession, fetch fresh suggestions, save them, and provision those instead.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewLogger(logLevel)

			llmClient := llm.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel)

			courseRepo := courses.NewFileRepository(coursesFile)
			var list []*domain.Course
			var err error
			if profession != "" {
				if err := validation.ValidateProfession(profession); err != nil {
					return err
				}
				if level == "" {
					level = cfg.DefaultLevel
				}
				list = suggest.NewService(llmClient, logger).FetchSuggestions(profession, level)
				if err := courseRepo.Save(list); err != nil {
					return err
				}
			} else {
				list, err = courseRepo.Load()
				if err != nil {
					return err
				}
			}

			runRepo := runs.NewSQLiteRepository(runsDBPath)
			if err := runRepo.Init(); err != nil {
				return err
			}
			defer runRepo.Close()

			ttClient := toughtongue.NewClient(cfg.ToughTongueBaseURL, cfg.ToughTongueAPIKey)
			provisioner := provision.NewProvisioner(llmClient, ttClient, logger)

			// The CLI blocks until the run is done; no display-grace period needed.
			svc := app.NewPipelineService(courseRepo, status.NewMemoryStore(), runRepo, provisioner, 0, logger)

			events := svc.Subscribe()
			run, err := svc.Start(list)
			if err != nil {
				return err
			}
			fmt.Printf("Run started: %s (%d courses)\n", run.ID, run.Total)

			for ev := range events {
				if ev.Completed > 0 {
					fmt.Printf("  %d/%d (%d%%)\n", ev.Completed, ev.Total, ev.Progress)
				}
				if !ev.InProgress {
					break
				}
			}
			svc.Wait()
			svc.Unsubscribe(events)

			final, err := svc.GetRun(run.ID)
			if err != nil {
				return err
			}
			if final.Status == domain.RunStatusFailed {
				fmt.Printf("Run failed: %s\n", final.Error)
				return fmt.Errorf("run failed")
			}
			fmt.Printf("Run completed: %d provisioned, %d skipped\n", final.Provisioned, final.Skipped)
			return nil
		},
	}

	startCmd.Flags().StringVar(&profession, "profession", "", "Fetch fresh suggestions for this profession first")
	startCmd.Flags().StringVar(&level, "level", "", "Seniority level used with --profession")

	var limit int
	var format string
	var since string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			runRepo := runs.NewSQLiteRepository(runsDBPath)
			if err := runRepo.Init(); err != nil {
				return err
			}
			defer runRepo.Close()

			list, err := runRepo.List(limit)
			if err != nil {
				return err
			}

			if since != "" {
				cutoff, err := timeutil.ParseRelativeTime(since, time.Now())
				if err != nil {
					return err
				}
				filtered := list[:0]
				for _, r := range list {
					if !r.StartedAt.Before(cutoff) {
						filtered = append(filtered, r)
					}
				}
				list = filtered
			}

			if format == "json" {
				data, _ := json.MarshalIndent(list, "", "  ")
				fmt.Println(string(data))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATUS\tTOTAL\tPROVISIONED\tSKIPPED\tFAILED\tSTARTED")
			for _, r := range list {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
					r.ID[:8], r.Status, r.Total, r.Provisioned, r.Skipped, r.Failed,
					r.StartedAt.Format("2006-01-02 15:04"))
			}
			w.Flush()
			return nil
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 20, "Limit results")
	listCmd.Flags().StringVar(&format, "format", "table", "Output format (table|json)")
	listCmd.Flags().StringVar(&since, "since", "", "Only runs started after this time (RFC3339 or relative, e.g. -2d)")

	showCmd := &cobra.Command{
		Use:   "show <run_id>",
		Short: "Show run details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runRepo := runs.NewSQLiteRepository(runsDBPath)
			if err := runRepo.Init(); err != nil {
				return err
			}
			defer runRepo.Close()

			run, err := runRepo.Get(args[0])
			if err != nil {
				return err
			}

			data, _ := yaml.Marshal(run)
			fmt.Println(string(data))
			return nil
		},
	}

	cmd.AddCommand(startCmd, listCmd, showCmd)
	return cmd
}

func lessonsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "lessons",
		Short: "Show the lesson plan built from the saved courses",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo := courses.NewFileRepository(coursesFile)
			list, err := repo.Load()
			if err != nil {
				return err
			}

			plan := lessons.PlanFor(list)

			if format == "json" {
				data, _ := json.MarshalIndent(plan, "", "  ")
				fmt.Println(string(data))
				return nil
			}

			fmt.Println(plan.Title)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tDURATION\tTYPE")
			for _, l := range plan.Lessons {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", l.ID, l.Title, l.Duration, l.MediaType)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format (table|json)")
	return cmd
}

func printCourses(list []*domain.Course) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSCENARIO\tDESCRIPTION")
	for _, c := range list {
		desc := c.Description
		if len(desc) > 60 {
			desc = desc[:57] + "..."
		}
		scenario := c.ScenarioID
		if scenario == "" {
			scenario = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Title, scenario, desc)
	}
	w.Flush()
}
