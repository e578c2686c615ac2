package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pmprep/internal/bootstrap"
	interviewin "pmprep/internal/modules/interview/port/in"
	"pmprep/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "pmprep",
		Short:         "PM interview practice in your terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.pmprep)")

	root.AddCommand(newTUICmd(&dataDir))
	root.AddCommand(newPracticeCmd(&dataDir))
	root.AddCommand(newCategoriesCmd(&dataDir))
	root.AddCommand(newAuthCmd(&dataDir))
	root.AddCommand(newUsageCmd(&dataDir))
	root.AddCommand(newSessionsCmd(&dataDir))
	root.AddCommand(newDashboardCmd(&dataDir))
	root.AddCommand(newVoiceCmd(&dataDir))
	root.AddCommand(newBillingCmd(&dataDir))
	root.AddCommand(newExporterCmd(&dataDir))
	return root
}

func loadApp(dataDir string) (*bootstrap.App, error) {
	cfg, err := config.New(dataDir)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

func newTUICmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the interactive terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			return bootstrap.RunTUI(app)
		},
	}
}

func newPracticeCmd(dataDir *string) *cobra.Command {
	practice := &cobra.Command{Use: "practice", Short: "One-shot practice round"}

	var category, answer, clarify string

	askCmd := &cobra.Command{
		Use:   "ask",
		Short: "Fetch a question, answer it, and print the feedback",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			ctx := context.Background()
			update, err := app.InterviewCLI.Start(ctx, category)
			if err != nil {
				return err
			}
			if update.Prompt != nil {
				return fmt.Errorf("practice blocked (%s): run `pmprep billing upgrade`", update.Prompt.Reason)
			}
			out := cmd.OutOrStdout()
			question := update.State.Current
			if question == nil {
				return fmt.Errorf("no question loaded")
			}
			_, _ = fmt.Fprintf(out, "[%s] %s\n\n", question.Category, question.Prompt)

			if clarify != "" {
				update, err = app.InterviewCLI.Clarify(ctx, clarify)
				if err != nil {
					return err
				}
				turns := update.State.Current.Conversation
				if len(turns) > 0 {
					_, _ = fmt.Fprintf(out, "interviewer: %s\n\n", turns[len(turns)-1].Text)
				}
			}

			started := time.Now()
			if answer == "" {
				_, _ = fmt.Fprintln(out, "Type your answer, then ctrl+d:")
				raw, readErr := io.ReadAll(cmd.InOrStdin())
				if readErr != nil {
					return readErr
				}
				answer = strings.TrimSpace(string(raw))
			}

			update, err = app.InterviewCLI.Submit(ctx, answer, int(time.Since(started).Seconds()))
			if err != nil {
				return err
			}
			printScore(out, update)

			update, err = app.InterviewCLI.End(ctx)
			if err != nil {
				return err
			}
			if update.Summary != nil {
				_, _ = fmt.Fprintf(out, "\nsession saved: %d question(s), avg %.1f\n",
					update.Summary.QuestionsCount, update.Summary.OverallScore)
			}
			return nil
		},
	}
	askCmd.Flags().StringVar(&category, "category", "", "question category (empty for mixed)")
	askCmd.Flags().StringVar(&answer, "answer", "", "answer text (otherwise read from stdin)")
	askCmd.Flags().StringVar(&clarify, "clarify", "", "clarifying question to ask first")

	practice.AddCommand(askCmd)
	return practice
}

func printScore(out io.Writer, update interviewin.Update) {
	current := update.State.Current
	if current == nil || current.Score == nil {
		if update.State.Banner != "" {
			_, _ = fmt.Fprintln(out, update.State.Banner)
		}
		return
	}
	s := current.Score
	_, _ = fmt.Fprintf(out, "structure      %2d\n", s.Structure)
	_, _ = fmt.Fprintf(out, "metrics        %2d\n", s.Metrics)
	_, _ = fmt.Fprintf(out, "prioritization %2d\n", s.Prioritization)
	_, _ = fmt.Fprintf(out, "user empathy   %2d\n", s.UserEmpathy)
	_, _ = fmt.Fprintf(out, "communication  %2d\n", s.Communication)
	_, _ = fmt.Fprintf(out, "overall        %2d\n", s.Overall)
	if s.Feedback != "" {
		_, _ = fmt.Fprintf(out, "\n%s\n", s.Feedback)
	}
}

func newCategoriesCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List question categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			cats, err := app.InterviewCLI.Categories(context.Background())
			if err != nil {
				return err
			}
			for _, c := range cats {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", c.Value, c.Label)
			}
			return nil
		},
	}
}

func newAuthCmd(dataDir *string) *cobra.Command {
	auth := &cobra.Command{Use: "auth", Short: "Account commands"}

	auth.AddCommand(&cobra.Command{
		Use:   "login <email> <password>",
		Short: "Sign in with email and password",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.AuthCLI.Login(context.Background(), args[0], args[1])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s\n", out.Email)
			return nil
		},
	})

	auth.AddCommand(&cobra.Command{
		Use:   "register <email> <password>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.AuthCLI.Register(context.Background(), args[0], args[1])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "registered %s\n", out.Email)
			return nil
		},
	})

	auth.AddCommand(&cobra.Command{
		Use:   "google",
		Short: "Print the browser sign-in URL",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			url, err := app.AuthCLI.GoogleURL(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	})

	auth.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			if err := app.AuthCLI.Logout(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return nil
		},
	})

	auth.AddCommand(&cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			account := app.AuthCLI.Whoami(context.Background())
			if !account.LoggedIn {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "not signed in")
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), account.Email)
			return nil
		},
	})

	return auth
}

func newUsageCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show plan and remaining questions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			status, err := app.UsageCLI.Status(context.Background())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "plan: %s\n", status.Plan)
			if status.QuestionsLimit > 0 {
				_, _ = fmt.Fprintf(out, "questions: %d of %d left\n",
					status.QuestionsRemaining, status.QuestionsLimit)
			} else {
				_, _ = fmt.Fprintln(out, "questions: unlimited")
			}
			if status.Degraded {
				_, _ = fmt.Fprintln(out, "(server unreachable, showing fallback)")
			}
			return nil
		},
	}
}

func newSessionsCmd(dataDir *string) *cobra.Command {
	sessions := &cobra.Command{Use: "sessions", Short: "Past practice sessions"}

	sessions.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List past sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			list, err := app.HistoryCLI.List(context.Background())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
				return nil
			}
			for _, s := range list {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d questions\tavg %.1f\n",
					s.ID, s.StartedAt.Format("2006-01-02 15:04"), s.QuestionsCount, s.OverallScore)
			}
			return nil
		},
	})

	sessions.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one session's answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			detail, err := app.HistoryCLI.Detail(context.Background(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%s  %d questions  avg %.1f\n",
				detail.StartedAt.Format("2006-01-02 15:04"), detail.QuestionsCount, detail.OverallScore)
			for i, a := range detail.Answers {
				_, _ = fmt.Fprintf(out, "\nQ%d [%s] %d/10\n%s\n", i+1, a.Category, a.Overall, a.Prompt)
				if a.Feedback != "" {
					_, _ = fmt.Fprintln(out, a.Feedback)
				}
			}
			return nil
		},
	})

	return sessions
}

func newDashboardCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show aggregate practice stats",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			stats, err := app.HistoryCLI.Dashboard(context.Background())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "sessions: %d\nquestions: %d\naverage: %.1f\nbest: %.1f\n",
				stats.SessionsCount, stats.QuestionsCount, stats.AverageScore, stats.BestScore)
			for cat, score := range stats.ByCategory {
				_, _ = fmt.Fprintf(out, "%s: %.1f\n", cat, score)
			}
			return nil
		},
	}
}

func newVoiceCmd(dataDir *string) *cobra.Command {
	voice := &cobra.Command{Use: "voice", Short: "Voice answer tools"}

	voice.AddCommand(&cobra.Command{
		Use:   "record",
		Short: "Record from the microphone until enter, then transcribe",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			ctx := context.Background()
			if err := app.VoiceCLI.StartRecording(ctx); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "recording… press enter to stop")
			_, _ = bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			text, err := app.VoiceCLI.StopAndTranscribe(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	})

	voice.AddCommand(&cobra.Command{
		Use:   "speak <text>",
		Short: "Synthesize text and play it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			return app.VoiceCLI.Speak(context.Background(), strings.Join(args, " "))
		},
	})

	return voice
}

func newBillingCmd(dataDir *string) *cobra.Command {
	billing := &cobra.Command{Use: "billing", Short: "Subscription commands"}

	billing.AddCommand(&cobra.Command{
		Use:   "upgrade",
		Short: "Open the checkout page",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			url, err := app.BillingCLI.Upgrade(context.Background())
			if url != "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), url)
			}
			return err
		},
	})

	billing.AddCommand(&cobra.Command{
		Use:   "cancel",
		Short: "Cancel the subscription at period end",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			if err := app.BillingCLI.Cancel(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "subscription will end at the period close")
			return nil
		},
	})

	billing.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the subscription state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			sub, err := app.BillingCLI.Status(context.Background())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !sub.Active {
				_, _ = fmt.Fprintln(out, "no active subscription")
				return nil
			}
			_, _ = fmt.Fprintf(out, "plan: %s\n", sub.Plan)
			if sub.CancelsAt != "" {
				_, _ = fmt.Fprintf(out, "ends: %s\n", sub.CancelsAt)
			} else if sub.RenewsAt != "" {
				_, _ = fmt.Fprintf(out, "renews: %s\n", sub.RenewsAt)
			}
			return nil
		},
	})

	return billing
}

func newExporterCmd(dataDir *string) *cobra.Command {
	exporter := &cobra.Command{Use: "exporter", Short: "History exporter plugins"}

	exporter.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List installed exporters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			infos, err := app.ExporterCLI.List(context.Background())
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no exporters installed")
				return nil
			}
			for _, info := range infos {
				state := "enabled"
				if !info.Enabled {
					state = "disabled"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n",
					info.Name, info.Version, state, strings.Join(info.Formats, ","))
			}
			return nil
		},
	})

	exporter.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Verify exporter binaries, checksums, and lifecycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			results, err := app.ExporterCLI.Doctor(context.Background())
			if err != nil {
				return err
			}
			for _, r := range results {
				status := "ok"
				if r.Error != "" {
					status = r.Error
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\tbinary=%t checksum=%t lifecycle=%t\t%s\n",
					r.Name, r.BinaryReachable, r.ChecksumValid, r.LifecycleOK, status)
			}
			return nil
		},
	})

	var format, outputDir string
	exportCmd := &cobra.Command{
		Use:   "export <name>",
		Short: "Export practice history through a plugin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.ExporterCLI.Export(context.Background(), args[0], format, outputDir)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out.OutputPath, out.BytesWritten)
			if out.Warning != "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Warning)
			}
			return nil
		},
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "export format: json|csv|markdown")
	exportCmd.Flags().StringVar(&outputDir, "out", ".", "output directory")
	exporter.AddCommand(exportCmd)

	return exporter
}
