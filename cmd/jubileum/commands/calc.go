package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-jubileum/internal/config"
	"github.com/tartampluch/go-jubileum/internal/engine"
	"github.com/tartampluch/go-jubileum/internal/locale"
)

type calcOptions struct {
	persons  []string
	file     string
	vcf      string
	ics      string
	reminder string
}

// calc: participants come from --file, then --vcf, then --person, in that order.
func calcCmd(t *locale.Translator) *cobra.Command {
	opts := &calcOptions{}

	cmd := &cobra.Command{
		Use:   config.CmdCalc,
		Short: config.CmdShortCalc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalc(cmd.Context(), opts, &textPresenter{
				out:    cmd.OutOrStdout(),
				errOut: cmd.ErrOrStderr(),
				t:      t,
			})
		},
	}

	cmd.Flags().StringArrayVarP(&opts.persons, config.FlagPerson, config.FlagShortPerson, nil, config.FlagDescPerson)
	cmd.Flags().StringVarP(&opts.file, config.FlagFile, config.FlagShortFile, "", config.FlagDescFile)
	cmd.Flags().StringVar(&opts.vcf, config.FlagVCF, "", config.FlagDescVCF)
	cmd.Flags().StringVar(&opts.ics, config.FlagICS, "", config.FlagDescICS)
	cmd.Flags().StringVar(&opts.reminder, config.FlagReminder, "", config.FlagDescRemind)
	return cmd
}

func runCalc(ctx context.Context, opts *calcOptions, view *textPresenter) error {
	log := slog.With(config.LogKeyComponent, config.CompCLI)

	var inputs []formInput
	if opts.file != "" {
		fromFile, err := loadGroupFile(opts.file)
		if err != nil {
			return err
		}
		inputs = append(inputs, fromFile...)
	}

	c := engine.NewController(view)
	for _, in := range inputs {
		if err := submit(c, view, in); err != nil {
			return err
		}
	}

	if opts.vcf != "" {
		importer := &engine.Importer{}
		participants, stats, err := importer.Import(ctx, engine.SourceConfig{
			Mode:      config.SourceModeLocal,
			LocalPath: opts.vcf,
		})
		if err != nil {
			return fmt.Errorf("%s: %w", config.ErrImport, err)
		}
		report := c.AddParticipants(participants)
		log.Info(config.MsgImportSuccess,
			config.LogKeyImported, stats.Imported,
			config.LogKeySkipped, stats.Skipped+report.Rejected)
		fmt.Fprintln(view.errOut, view.t.ImportSummary(report))
	}

	for _, value := range opts.persons {
		in, err := parsePersonFlag(value)
		if err != nil {
			return err
		}
		if err := submit(c, view, in); err != nil {
			return err
		}
	}

	var writeErr error
	if opts.ics != "" {
		c.OnResults = func(results []engine.JubileumResult) {
			if writeErr = writeCalendar(opts.ics, opts.reminder, view.t, results); writeErr == nil {
				log.Info(config.MsgICSWritten, config.LogKeyFile, opts.ics)
			}
		}
	}

	if _, err := c.Calculate(); err != nil {
		return &reportedError{err}
	}
	return writeErr
}

// submit feeds one input through the controller like a form submission.
func submit(c *engine.Controller, view *textPresenter, in formInput) error {
	view.pending = in
	if err := c.Submit(); err != nil {
		return &reportedError{fmt.Errorf("%q: %w", in.Name, err)}
	}
	return nil
}

func writeCalendar(path, reminder string, t *locale.Translator, results []engine.JubileumResult) error {
	builder := &engine.CalendarBuilder{FormatSummary: t.Summary}
	ics, err := builder.Build(results, reminder)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, ics, config.FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", config.ErrWriteICS, err)
	}
	return nil
}
