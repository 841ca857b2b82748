package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/okian/tzolkin/internal/audit"
	"github.com/okian/tzolkin/internal/domain/kin"
	"github.com/okian/tzolkin/internal/domain/model"
)

func parseDate(s string) (model.Date, error) {
	d, err := model.ParseDate(s)
	if err != nil {
		return model.Date{}, fmt.Errorf("date %q: %w", s, err)
	}
	return d, nil
}

func parseKin(s string) (kin.Kin, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("kin %q: %w", s, kin.ErrInvalidKin)
	}
	return kin.New(n)
}

// kinFrom reads a KIN from --kin, or resolves it from the date argument.
func (c *cli) kinFrom(cmd *cobra.Command, args []string, flagKin int) (kin.Kin, error) {
	if flagKin != 0 {
		return kin.New(flagKin)
	}
	if len(args) == 0 {
		return 0, fmt.Errorf("need a date argument or --kin")
	}
	d, err := parseDate(args[0])
	if err != nil {
		return 0, err
	}
	res, err := c.engine.ResolveKin(c.ctx(cmd), d)
	if err != nil {
		return 0, err
	}
	return res.Kin, nil
}

func (c *cli) kinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kin DATE",
		Short: "Resolve the KIN of a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDate(args[0])
			if err != nil {
				return err
			}
			res, err := c.engine.ResolveKin(c.ctx(cmd), d)
			if err != nil {
				return err
			}
			info, err := c.engine.Describe(c.ctx(cmd), res.Kin)
			if err != nil {
				return err
			}
			return printJSON(cmd, struct {
				Date   model.Date `json:"date"`
				Source kin.Source `json:"source"`
				kin.Info
			}{d, res.Source, info})
		},
	}
}

func (c *cli) oracleCmd() *cobra.Command {
	var k int
	cmd := &cobra.Command{
		Use:   "oracle [DATE]",
		Short: "Compute the five-member oracle",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			destiny, err := c.kinFrom(cmd, args, k)
			if err != nil {
				return err
			}
			set, err := c.engine.Oracle(c.ctx(cmd), destiny)
			if err != nil {
				return err
			}
			kins, err := set.Kins()
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{"pairs": set, "kins": kins})
		},
	}
	cmd.Flags().IntVar(&k, "kin", 0, "Use this KIN instead of a date")
	return cmd
}

func (c *cli) wavespellCmd() *cobra.Command {
	var k int
	cmd := &cobra.Command{
		Use:   "wavespell [DATE]",
		Short: "List the 13 KINs of the wavespell",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			member, err := c.kinFrom(cmd, args, k)
			if err != nil {
				return err
			}
			w, err := c.engine.Wavespell(c.ctx(cmd), member)
			if err != nil {
				return err
			}
			return printJSON(cmd, w)
		},
	}
	cmd.Flags().IntVar(&k, "kin", 0, "Use this KIN instead of a date")
	return cmd
}

func (c *cli) castleCmd() *cobra.Command {
	var years int
	cmd := &cobra.Command{
		Use:   "castle BIRTHDATE",
		Short: "List the yearly castle progression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDate(args[0])
			if err != nil {
				return err
			}
			entries, err := c.engine.Castle(c.ctx(cmd), d, years)
			if err != nil {
				return err
			}
			return printJSON(cmd, entries)
		},
	}
	cmd.Flags().IntVar(&years, "years", 0, "Progression length (default castle_years)")
	return cmd
}

func (c *cli) psiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "psi DATE",
		Short: "Look up the PSI KIN of a month and day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDate(args[0])
			if err != nil {
				return err
			}
			p, ok, err := c.engine.Psi(c.ctx(cmd), d)
			if err != nil {
				return err
			}
			if !ok {
				return printJSON(cmd, nil)
			}
			return printJSON(cmd, p)
		},
	}
}

func (c *cli) goddessCmd() *cobra.Command {
	var k int
	cmd := &cobra.Command{
		Use:   "goddess [DATE]",
		Short: "Compute the goddess KIN",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			destiny, err := c.kinFrom(cmd, args, k)
			if err != nil {
				return err
			}
			g, err := c.engine.Goddess(c.ctx(cmd), destiny)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]kin.Kin{"kin": destiny, "goddess": g})
		},
	}
	cmd.Flags().IntVar(&k, "kin", 0, "Use this KIN instead of a date")
	return cmd
}

func (c *cli) longDateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "longdate DATE",
		Short: "Convert a date to the 13 Moon calendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDate(args[0])
			if err != nil {
				return err
			}
			ld, err := c.engine.LongDate(c.ctx(cmd), d)
			if err != nil {
				return err
			}
			r, err := c.engine.Readings(c.ctx(cmd), d)
			if err != nil {
				return err
			}
			out := map[string]any{
				"date":   ld,
				"key":    ld.Key(),
				"text":   ld.String(),
				"moon":   ld.MoonName(),
				"week":   ld.WeekColor(),
				"plasma": ld.PlasmaName(),
			}
			if r.WeekKey != nil {
				out["week_key"] = *r.WeekKey
			}
			if r.HeptadPrayer != nil {
				out["heptad_prayer"] = *r.HeptadPrayer
			}
			return printJSON(cmd, out)
		},
	}
}

func (c *cli) equivalentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "equivalent DATE",
		Short: "Walk the matrix grids for the equivalent KIN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDate(args[0])
			if err != nil {
				return err
			}
			r, err := c.engine.EquivalentKin(c.ctx(cmd), d)
			if err != nil {
				return err
			}
			return printJSON(cmd, r)
		},
	}
}

func (c *cli) compositeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "composite KIN KIN",
		Short: "Combine two KINs",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := parseKin(args[0])
			if err != nil {
				return err
			}
			b, err := parseKin(args[1])
			if err != nil {
				return err
			}
			k, err := c.engine.Composite(c.ctx(cmd), a, b)
			if err != nil {
				return err
			}
			info, err := c.engine.Describe(c.ctx(cmd), k)
			if err != nil {
				return err
			}
			return printJSON(cmd, info)
		},
	}
}

func (c *cli) profileCmd() *cobra.Command {
	var castleYears int
	cmd := &cobra.Command{
		Use:   "profile DATE",
		Short: "Derive everything for one date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDate(args[0])
			if err != nil {
				return err
			}
			p, err := c.engine.Profile(c.ctx(cmd), d, castleYears)
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	}
	cmd.Flags().IntVar(&castleYears, "castle-years", 0, "Include this many castle years")
	return cmd
}

func (c *cli) auditCmd() *cobra.Command {
	cfg := audit.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Check the loaded tables against the arithmetic rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg.LeapCorrection = c.cfg.LeapCorrection
			rep, err := audit.Run(c.ctx(cmd), c.engine.Tables(), cfg, audit.WithLogger(c.log.Named("audit")), audit.WithMetrics(c.metrics))
			if err != nil {
				return err
			}
			if err := printJSON(cmd, rep); err != nil {
				return err
			}
			if !rep.Passed() {
				return fmt.Errorf("audit failed: %d date mismatches, %d long date errors, %d round trip errors",
					rep.Stats.DateMismatches, rep.Stats.LongDateErrors, rep.Stats.RoundTripErrors)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&cfg.FromYear, "from", 0, "First year (default first table year)")
	cmd.Flags().IntVar(&cfg.ToYear, "to", 0, "Last year (default last table year)")
	cmd.Flags().IntVar(&cfg.Workers, "workers", cfg.Workers, "Years audited concurrently")
	cmd.Flags().IntVar(&cfg.MaxSamples, "samples", cfg.MaxSamples, "Mismatches kept per check")
	return cmd
}
