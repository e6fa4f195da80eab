package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zwavetools/zwconf/pkg/diff"
	"github.com/zwavetools/zwconf/pkg/document"
	"github.com/zwavetools/zwconf/pkg/errors"
	"github.com/zwavetools/zwconf/pkg/jsontext"
	"github.com/zwavetools/zwconf/pkg/reconcile"
	"github.com/zwavetools/zwconf/pkg/resolver"
)

// resolveOpts holds the command-line flags for the resolve command.
type resolveOpts struct {
	silent     bool   // machine mode: print artifact path or "error", nothing else
	yes        bool   // accept every change without prompting
	outputDir  string // override for the artifact output directory
	devicesDir string // override for the device corpus root
}

// resolveCommand creates the resolve command. With a manufacturer and
// device argument it resolves that one file; with no arguments it
// starts the interactive selection loop.
func (c *CLI) resolveCommand() *cobra.Command {
	opts := resolveOpts{}

	cmd := &cobra.Command{
		Use:   "resolve [manufacturer] [device]",
		Short: "Expand $import templates into a versioned artifact",
		Long: `Resolve a device configuration file by expanding every $import
reference, then reconcile the result against the previously written
artifact. Unchanged content leaves the artifact alone; changed content
bumps the version after confirmation.

Examples:
  zwconf resolve                      # interactive selection
  zwconf resolve 0x027a zen77         # resolve one device
  zwconf resolve 0x027a zen77 -s -y   # scripted: path on stdout, exit 1 on error`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return fmt.Errorf("expected both manufacturer and device, got only %q", args[0])
			}
			if len(args) == 0 {
				if opts.silent {
					return fmt.Errorf("--silent requires manufacturer and device arguments")
				}
				return c.runInteractive(cmd, &opts)
			}
			return c.runResolve(cmd, &opts, args[0], args[1])
		},
	}

	cmd.Flags().BoolVarP(&opts.silent, "silent", "s", false, "print only the artifact path, or \"error\"")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "apply changes without confirmation")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "artifact output directory")
	cmd.Flags().StringVarP(&opts.devicesDir, "devices-dir", "d", "", "device configuration root")

	return cmd
}

// locator builds the device locator from config plus flag overrides.
func (c *CLI) locator(opts *resolveOpts) (*resolver.Locator, string, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, "", err
	}
	devicesDir := cfg.DevicesDir
	if opts.devicesDir != "" {
		devicesDir = opts.devicesDir
	}
	outputDir := cfg.OutputDir
	if opts.outputDir != "" {
		outputDir = opts.outputDir
	}
	return resolver.NewLocator(devicesDir, cfg.ManufacturersFile), outputDir, nil
}

// runResolve resolves one named device. In silent mode it prints the
// artifact path on success or the literal "error" on failure, for
// scripted callers that only care about the output location.
func (c *CLI) runResolve(cmd *cobra.Command, opts *resolveOpts, manufacturerID, device string) error {
	outcome, path, err := c.resolveDevice(opts, manufacturerID, device)

	if opts.silent {
		if err != nil {
			fmt.Println("error")
			c.Logger.Debugf("resolve failed: %v", err)
			os.Exit(1)
		}
		fmt.Println(path)
		return nil
	}

	if err != nil {
		printError("%s", errors.UserMessage(err))
		return err
	}
	c.reportOutcome(outcome, path)
	return nil
}

// resolveDevice runs the full pipeline for one device: locate, parse,
// expand imports, reconcile against the previous artifact, and write
// the result when the outcome calls for it.
func (c *CLI) resolveDevice(opts *resolveOpts, manufacturerID, device string) (reconcile.Outcome, string, error) {
	loc, outputDir, err := c.locator(opts)
	if err != nil {
		return reconcile.Outcome{}, "", err
	}

	sourcePath, err := loc.DevicePath(manufacturerID, device)
	if err != nil {
		return reconcile.Outcome{}, "", err
	}

	doc, err := jsontext.ReadFile(sourcePath)
	if err != nil {
		return reconcile.Outcome{}, "", err
	}

	res := resolver.New(loc.DevicesDir())
	res.SetLogger(c.Logger)
	resolved, err := res.Resolve(doc, sourcePath)
	if err != nil {
		return reconcile.Outcome{}, "", err
	}
	resolvedObj, ok := resolved.(document.Object)
	if !ok {
		return reconcile.Outcome{}, "", errors.New(errors.ErrCodeInvalidInput, "device file %s does not contain a JSON object", sourcePath)
	}
	c.Logger.Debugf("expanded %s: %d template loads, %d cache hits",
		sourcePath, res.Cache().Loads(), res.Cache().Hits())

	artifactPath := loc.ArtifactPath(outputDir, manufacturerID, device)
	previous, _, err := reconcile.LoadArtifact(artifactPath)
	if err != nil {
		return reconcile.Outcome{}, "", err
	}

	rec := reconcile.New(c.decider(opts))
	outcome, err := rec.Reconcile(resolvedObj, previous)
	if err != nil {
		return reconcile.Outcome{}, "", err
	}

	switch outcome.Status {
	case reconcile.StatusCreated, reconcile.StatusUpdated:
		if err := reconcile.WriteArtifact(artifactPath, outcome.Document); err != nil {
			return reconcile.Outcome{}, "", err
		}
	}
	return outcome, artifactPath, nil
}

// decider picks the overwrite policy: accept everything for --yes and
// silent runs, otherwise show the diff and prompt.
func (c *CLI) decider(opts *resolveOpts) reconcile.Decider {
	if opts.yes || opts.silent {
		return reconcile.AcceptAll{}
	}
	return reconcile.DeciderFunc(func(entries []diff.Entry) (bool, error) {
		printWarning("Resolved content differs from the existing artifact:")
		printDiff(entries)
		printNewline()
		return promptYesNo("Overwrite artifact?")
	})
}

// promptYesNo asks a y/N question on stdin. Anything but y/yes declines.
func promptYesNo(question string) (bool, error) {
	fmt.Print(StyleHighlight.Render(question) + " " + StyleDim.Render("[y/N] "))
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// reportOutcome prints the human-readable result of one resolution.
func (c *CLI) reportOutcome(outcome reconcile.Outcome, path string) {
	switch outcome.Status {
	case reconcile.StatusCreated:
		printSuccess("Created artifact (version %d)", outcome.Version)
		printFile(path)
	case reconcile.StatusUpdated:
		printSuccess("Updated artifact to version %d (%d changes)", outcome.Version, len(outcome.Diff))
		printFile(path)
	case reconcile.StatusUnchanged:
		printInfo("No changes; artifact stays at version %d", outcome.Version)
		printFile(path)
	case reconcile.StatusCancelled:
		printWarning("Cancelled; existing artifact kept at version %d", outcome.Version)
	}
}
