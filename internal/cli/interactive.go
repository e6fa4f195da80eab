package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/zwavetools/zwconf/pkg/errors"
	"github.com/zwavetools/zwconf/pkg/reconcile"
	"github.com/zwavetools/zwconf/pkg/resolver"
	"github.com/zwavetools/zwconf/pkg/session"
)

// runInteractive drives the interactive resolve loop: pick a
// manufacturer, pick a device, resolve it, repeat until the user quits.
// The last selection is saved so the next run can resume it.
func (c *CLI) runInteractive(cmd *cobra.Command, opts *resolveOpts) error {
	loc, _, err := c.locator(opts)
	if err != nil {
		return err
	}

	store, err := session.NewFileStore("")
	if err != nil {
		c.Logger.Debugf("session store unavailable: %v", err)
		store = nil
	}

	for {
		mfr, device, err := c.selectDevice(loc, store)
		if err != nil {
			return err
		}
		if mfr == nil {
			return nil // user quit
		}

		outcome, path, err := c.resolveDevice(opts, mfr.ID, device)
		if err != nil {
			printError("%s", errors.UserMessage(err))
		} else {
			c.reportOutcome(outcome, path)
			if store != nil && outcome.Status != reconcile.StatusCancelled {
				if err := store.SaveLast(session.New(mfr.ID, device, session.DefaultTTL)); err != nil {
					c.Logger.Debugf("save session: %v", err)
				}
			}
		}

		printNewline()
		again, err := promptYesNo("Resolve another device?")
		if err != nil || !again {
			return err
		}
		printNewline()
	}
}

// selectDevice walks the two-step selection: manufacturer search, then
// device list. Returns nil when the user backs out.
func (c *CLI) selectDevice(loc *resolver.Locator, store *session.FileStore) (*resolver.Manufacturer, string, error) {
	if store != nil {
		if mfr, device, ok := c.resumeLast(loc, store); ok {
			return mfr, device, nil
		}
	}

	search := NewManufacturerSearchModel(loc.SearchManufacturers)
	model, err := tea.NewProgram(search).Run()
	if err != nil {
		return nil, "", fmt.Errorf("manufacturer selection: %w", err)
	}
	mfr := model.(ManufacturerSearchModel).Selected
	if mfr == nil {
		return nil, "", nil
	}

	devices, err := loc.ListDevices(mfr.ID)
	if err != nil {
		return nil, "", err
	}
	if len(devices) == 0 {
		printWarning("No device files for %s (%s)", mfr.Name, mfr.ID)
		return nil, "", nil
	}

	list := NewDeviceListModel(*mfr, devices)
	model, err = tea.NewProgram(list).Run()
	if err != nil {
		return nil, "", fmt.Errorf("device selection: %w", err)
	}
	device := model.(DeviceListModel).Selected
	if device == "" {
		return nil, "", nil
	}
	return mfr, device, nil
}

// resumeLast offers the previous run's selection. Returns ok when the
// user accepts it.
func (c *CLI) resumeLast(loc *resolver.Locator, store *session.FileStore) (*resolver.Manufacturer, string, bool) {
	last, err := store.Last()
	if err != nil || last == nil {
		return nil, "", false
	}

	// The selection may have disappeared since the last run.
	if _, err := loc.DevicePath(last.ManufacturerID, last.DeviceFile); err != nil {
		return nil, "", false
	}

	resume, err := promptYesNo(fmt.Sprintf("Resume last selection %s/%s?", last.ManufacturerID, last.DeviceFile))
	if err != nil || !resume {
		return nil, "", false
	}

	name := last.ManufacturerID
	if matches, err := loc.SearchManufacturers(last.ManufacturerID); err == nil && len(matches) == 1 {
		name = matches[0].Name
	}
	device := strings.TrimSuffix(last.DeviceFile, ".json")
	return &resolver.Manufacturer{ID: last.ManufacturerID, Name: name}, device, true
}
