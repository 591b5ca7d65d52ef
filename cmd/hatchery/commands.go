package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/hatchery/internal/game/breeding"
	"github.com/cory-johannsen/hatchery/internal/game/creature"
	"github.com/cory-johannsen/hatchery/internal/game/roster"
	"github.com/cory-johannsen/hatchery/internal/scripting"
	"github.com/cory-johannsen/hatchery/internal/storage/sqlite"
)

// parsePosition converts a 1-based roster position argument to a 0-based index.
func parsePosition(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid position %q: %w", arg, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("invalid position %d: positions start at 1", n)
	}
	return n - 1, nil
}

func (a *app) printMembers(members []*creature.Creature) {
	if len(members) == 0 {
		a.printf("(none)\n")
		return
	}
	for _, c := range members {
		a.printf("%s\n", c)
	}
}

func (a *app) printRoster(r *roster.Roster) {
	if r.Len() == 0 {
		a.printf("(empty roster)\n")
		return
	}
	for i, line := range r.RenderAll() {
		a.printf("%3d. %s\n", i+1, line)
	}
}

func (a *app) demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the starter scenario: train, breed, save and reload",
		Long: `demo replaces the stored roster with the four starters, trains everyone by 50
experience, tries to breed the first and fourth members, saves the result through
the configured store and reloads it to show the filters.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r := roster.Starters().WithLogger(a.logger)

			a.printf("Creatures in the hatchery:\n")
			a.printRoster(r)

			a.printf("\nTraining everyone (+50 XP):\n")
			r.TrainAll(50)
			a.printRoster(r)

			a.printf("\nBreeding attempt between positions 1 and 4:\n")
			if baby, ok := r.AttemptBreeding(0, 3, a.source()); ok {
				a.printf("New creature hatched: %s\n", baby)
				r.Add(baby)
			} else {
				a.printf("These creatures cannot breed.\n")
			}

			a.printf("\nFinal state:\n")
			a.printRoster(r)

			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.Save(ctx, r); err != nil {
				return fmt.Errorf("saving roster: %w", err)
			}
			a.printf("\nProgress saved.\n")

			loaded, err := s.Load(ctx)
			if err != nil {
				return fmt.Errorf("loading roster: %w", err)
			}
			a.printf("\nReloaded roster:\n")
			a.printRoster(loaded)

			a.printf("\nLevel %d or higher:\n", 6)
			a.printMembers(loaded.FilterByMinLevel(6))

			a.printf("\n%s creatures:\n", creature.Fire.Label())
			a.printMembers(loaded.FilterByKind(creature.Fire))
			return nil
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show every creature in the roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRoster(cmd.Context(), func(r *roster.Roster) (bool, error) {
				a.printRoster(r)
				return false, nil
			})
		},
	}
}

func (a *app) addCmd() *cobra.Command {
	var (
		level  uint32
		kind   string
		gender string
	)
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a creature to the roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := creature.ParseKind(kind)
			if err != nil {
				return err
			}
			g, err := creature.ParseGender(gender)
			if err != nil {
				return err
			}
			c := creature.New(args[0], level, k, g)
			if err := c.Validate(); err != nil {
				return err
			}
			return a.withRoster(cmd.Context(), func(r *roster.Roster) (bool, error) {
				r.Add(c)
				a.printf("%3d. %s\n", r.Len(), c)
				return true, nil
			})
		},
	}
	cmd.Flags().Uint32Var(&level, "level", 1, "starting level (>= 1)")
	cmd.Flags().StringVar(&kind, "kind", "", "Fire, Water, Grass or Electric")
	cmd.Flags().StringVar(&gender, "gender", "", "Male or Female")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("gender")
	return cmd
}

func (a *app) trainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "train AMOUNT",
		Short: "Give every creature AMOUNT experience",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}
			return a.withRoster(cmd.Context(), func(r *roster.Roster) (bool, error) {
				r.TrainAll(uint32(amount))
				a.printRoster(r)
				return r.Len() > 0, nil
			})
		},
	}
}

func (a *app) breedCmd() *cobra.Command {
	var adopt bool
	cmd := &cobra.Command{
		Use:   "breed FIRST SECOND",
		Short: "Breed the creatures at two roster positions",
		Long: `breed tries to produce an offspring from the creatures at positions FIRST and
SECOND. The offspring takes FIRST's kind. It is only added to the roster with --adopt.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := parsePosition(args[0])
			if err != nil {
				return err
			}
			j, err := parsePosition(args[1])
			if err != nil {
				return err
			}
			return a.withRoster(cmd.Context(), func(r *roster.Roster) (bool, error) {
				first, second, err := r.Pair(i, j)
				if err != nil {
					return false, err
				}
				baby, ok := r.AttemptBreeding(i, j, a.source())
				if !ok {
					a.printf("%s and %s cannot breed:\n", first.Name, second.Name)
					for _, reason := range breeding.Reasons(first, second) {
						a.printf("  - %s\n", reason)
					}
					return false, nil
				}
				a.printf("New creature hatched: %s\n", baby)
				if !adopt {
					return false, nil
				}
				r.Add(baby)
				a.printf("Adopted at position %d.\n", r.Len())
				return true, nil
			})
		},
	}
	cmd.Flags().BoolVar(&adopt, "adopt", false, "add the offspring to the roster")
	return cmd
}

func (a *app) filterCmd() *cobra.Command {
	var (
		minLevel uint32
		kind     string
	)
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Show creatures matching a minimum level or a kind",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			levelSet := cmd.Flags().Changed("min-level")
			if levelSet == (kind != "") {
				return errors.New("exactly one of --min-level or --kind is required")
			}
			var k creature.Kind
			if kind != "" {
				var err error
				if k, err = creature.ParseKind(kind); err != nil {
					return err
				}
			}
			return a.withRoster(cmd.Context(), func(r *roster.Roster) (bool, error) {
				if levelSet {
					a.printMembers(r.FilterByMinLevel(minLevel))
				} else {
					a.printMembers(r.FilterByKind(k))
				}
				return false, nil
			})
		},
	}
	cmd.Flags().Uint32Var(&minLevel, "min-level", 0, "keep creatures at or above this level")
	cmd.Flags().StringVar(&kind, "kind", "", "keep creatures of this kind")
	return cmd
}

func (a *app) removeCmd() *cobra.Command {
	var byName bool
	cmd := &cobra.Command{
		Use:   "remove POSITION|NAME",
		Short: "Remove a creature by position, or every creature with a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRoster(cmd.Context(), func(r *roster.Roster) (bool, error) {
				if byName {
					n := r.RemoveByName(args[0])
					a.printf("Removed %d creature(s) named %q.\n", n, args[0])
					return n > 0, nil
				}
				i, err := parsePosition(args[0])
				if err != nil {
					return false, err
				}
				c, err := r.RemoveAt(i)
				if err != nil {
					return false, err
				}
				a.printf("Removed %s\n", c)
				return true, nil
			})
		},
	}
	cmd.Flags().BoolVar(&byName, "name", false, "treat the argument as a name")
	return cmd
}

func (a *app) seedCmd() *cobra.Command {
	var appendTo bool
	cmd := &cobra.Command{
		Use:   "seed FILE",
		Short: "Replace the roster with the creatures in a YAML seed file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seeded, err := roster.LoadSeedFile(args[0])
			if err != nil {
				return err
			}
			return a.withRoster(cmd.Context(), func(r *roster.Roster) (bool, error) {
				if !appendTo {
					for r.Len() > 0 {
						if _, err := r.RemoveAt(r.Len() - 1); err != nil {
							return false, err
						}
					}
				}
				for _, c := range seeded.Members() {
					r.Add(c)
				}
				a.logger.Info("roster seeded",
					zap.String("file", args[0]),
					zap.Int("seeded", seeded.Len()),
					zap.Bool("append", appendTo),
				)
				a.printRoster(r)
				return true, nil
			})
		},
	}
	cmd.Flags().BoolVar(&appendTo, "append", false, "keep existing creatures and append the seeded ones")
	return cmd
}

func (a *app) scriptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "script FILE",
		Short: "Run a Lua script against the roster and save the result",
		Long: `script runs a sandboxed Lua script with a global "roster" table. Changes made
before a script error are discarded; the roster is only saved when the script succeeds.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRoster(cmd.Context(), func(r *roster.Roster) (bool, error) {
				runner := scripting.NewRunner(r, a.source(), a.logger, a.cfg.Scripting.InstructionLimit)
				if err := runner.RunFile(args[0]); err != nil {
					return false, err
				}
				a.printRoster(r)
				return true, nil
			})
		},
	}
}

func (a *app) snapshotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "Inspect the snapshot history of the sqlite backend",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSnapshots(func(s *sqlite.Store) error {
				snaps, err := s.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(snaps) == 0 {
					a.printf("(no snapshots)\n")
				}
				for _, snap := range snaps {
					a.printf("%s  %s  %d member(s)\n", snap.ID, snap.CreatedAt.Format("2006-01-02 15:04:05"), snap.Members)
				}
				return nil
			})
		},
	}

	show := &cobra.Command{
		Use:   "show ID",
		Short: "Print the roster stored in one snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSnapshots(func(s *sqlite.Store) error {
				r, err := s.LoadSnapshot(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				a.printRoster(r)
				return nil
			})
		},
	}

	var keep int
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSnapshots(func(s *sqlite.Store) error {
				n, err := s.Prune(cmd.Context(), keep)
				if err != nil {
					return err
				}
				a.printf("Pruned %d snapshot(s).\n", n)
				return nil
			})
		},
	}
	prune.Flags().IntVar(&keep, "keep", 10, "number of newest snapshots to keep")

	cmd.AddCommand(list, show, prune)
	return cmd
}

func (a *app) withSnapshots(fn func(s *sqlite.Store) error) error {
	if a.cfg.Storage.Backend != "sqlite" {
		return fmt.Errorf("snapshots require the sqlite backend, configured backend is %q", a.cfg.Storage.Backend)
	}
	s, err := sqlite.Open(a.cfg.Storage.Path, a.cfg.Storage.Roster, a.logger)
	if err != nil {
		return fmt.Errorf("opening sqlite store: %w", err)
	}
	defer s.Close()
	return fn(s)
}
