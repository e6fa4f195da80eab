package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/zwavetools/zwconf/pkg/stats"
)

// statsOpts holds the command-line flags for the stats command.
type statsOpts struct {
	refresh    bool   // bypass the report cache
	devicesDir string // override for the device corpus root
	limit      int    // how many description buckets to show
}

// statsCommand creates the stats command with its analyzer subcommands.
func (c *CLI) statsCommand() *cobra.Command {
	opts := statsOpts{limit: 20}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Corpus-wide statistics over the device configuration tree",
	}

	cmd.PersistentFlags().BoolVar(&opts.refresh, "refresh", false, "bypass the report cache")
	cmd.PersistentFlags().StringVarP(&opts.devicesDir, "devices-dir", "d", "", "device configuration root")

	paramKeys := &cobra.Command{
		Use:   "param-keys",
		Short: "Count every key used inside paramInformation entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, cached, err := c.scan(cmd, &opts)
			if err != nil {
				return err
			}
			for _, name := range report.ParamKeyNames() {
				printKeyValue(name, strconv.Itoa(report.ParamKeys[name]))
			}
			c.printScanFooter(report, cached)
			return nil
		},
	}

	descriptions := &cobra.Command{
		Use:   "descriptions",
		Short: "Most common top-level description values",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, cached, err := c.scan(cmd, &opts)
			if err != nil {
				return err
			}
			top := report.TopDescriptions()
			if len(top) > opts.limit {
				top = top[:opts.limit]
			}
			for _, vc := range top {
				printKeyValue(strconv.Itoa(vc.Count), vc.Value)
			}
			if report.NoDescription > 0 {
				printDetail("%d files without a description", report.NoDescription)
			}
			c.printScanFooter(report, cached)
			return nil
		},
	}
	descriptions.Flags().IntVarP(&opts.limit, "limit", "n", opts.limit, "number of buckets to show")

	cmd.AddCommand(paramKeys)
	cmd.AddCommand(descriptions)

	return cmd
}

// scan runs one corpus scan through the configured cache backend.
func (c *CLI) scan(cmd *cobra.Command, opts *statsOpts) (*stats.Report, bool, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, false, err
	}
	devicesDir := cfg.DevicesDir
	if opts.devicesDir != "" {
		devicesDir = opts.devicesDir
	}

	backend, err := c.openCache(cfg)
	if err != nil {
		return nil, false, err
	}
	defer backend.Close()

	scanner := stats.NewScanner(devicesDir, backend)
	scanner.SetLogger(c.Logger)
	scanner.SetTTL(cfg.Cache.TTLDuration())

	p := newProgress(c.Logger)
	report, cached, err := scanner.Scan(cmd.Context(), opts.refresh)
	if err != nil {
		return nil, false, err
	}
	p.done(fmt.Sprintf("Scanned %d files", report.Files))
	return report, cached, nil
}

// printScanFooter prints the scan summary line.
func (c *CLI) printScanFooter(report *stats.Report, cached bool) {
	printNewline()
	summary := fmt.Sprintf("%d files", report.Files)
	if report.Errors > 0 {
		summary += fmt.Sprintf(", %d unparseable", report.Errors)
	}
	printDetail("%s", summary)
	printCacheStatus(cached)
}
