package cmd

import (
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/spigell/hr-interviewer/internal/logger"
	"github.com/spigell/hr-interviewer/internal/report"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Browse saved interview reports",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved reports, newest first",
	Run: func(cmd *cobra.Command, _ []string) {
		store, zlog := newStore(cmd)

		entries, err := store.List()
		if err != nil {
			zlog.Fatal("listing reports", zap.Error(err))
		}
		if len(entries) == 0 {
			fmt.Printf("no reports found in %s\n", store.Dir())
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDATE\tSCORE\tSTATUS\tRECOMMENDATION")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%.1f\t%s\t%s\n",
				e.ID,
				e.GeneratedAt.Format("2006-01-02 15:04"),
				e.FinalScore,
				e.Phase,
				e.Recommendation,
			)
		}
		w.Flush()
	},
}

var reportsShowCmd = &cobra.Command{
	Use:   "show [report-id]",
	Short: "Print one report; without an argument, pick interactively",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store, zlog := newStore(cmd)

		id := ""
		if len(args) == 1 {
			id = args[0]
		} else {
			var err error
			id, err = pickReport(store)
			if err != nil {
				zlog.Fatal("selecting a report", zap.Error(err))
			}
			if id == "" {
				return
			}
		}

		r, err := store.Load(id)
		if err != nil {
			zlog.Fatal("loading the report", zap.Error(err))
		}
		fmt.Print(report.Render(r))
	},
}

func init() {
	rootCmd.AddCommand(reportsCmd)
	reportsCmd.AddCommand(reportsListCmd)
	reportsCmd.AddCommand(reportsShowCmd)

	reportsCmd.PersistentFlags().String("dir", "", "directory with saved reports")
}

func newStore(cmd *cobra.Command) (*report.Store, *zap.Logger) {
	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	dir := viper.GetString("reports.dir")
	if flag := cmd.Flag("dir"); flag != nil && flag.Changed {
		dir = flag.Value.String()
	}

	return report.NewStore(dir, zlog), zlog
}

func pickReport(store *report.Store) (string, error) {
	entries, err := store.List()
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		fmt.Printf("no reports found in %s\n", store.Dir())
		return "", nil
	}

	items := make([]string, 0, len(entries))
	for _, e := range entries {
		items = append(items, fmt.Sprintf("%s  %s  %.1f/10  %s",
			e.ID, e.GeneratedAt.Format("2006-01-02 15:04"), e.FinalScore, e.Recommendation))
	}

	prompt := promptui.Select{
		Label: "Choose a report and press ENTER",
		Items: items,
		Size:  10,
	}
	idx, _, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return entries[idx].ID, nil
}
