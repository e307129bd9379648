// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-air/dio"
	"github.com/go-air/dio/internal/eqfile"
	"github.com/go-air/dio/internal/refhost"
)

func newCheckCmd() *cobra.Command {
	var configPath string
	var seed int64
	var verbose bool
	var maxRounds int

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "load an equation file and check it for integer feasibility",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := dio.DefaultConfig()
			if configPath != "" {
				loaded, err := loadConfig(configPath)
				if err != nil {
					return fmt.Errorf("loading config: %w", err)
				}
				cfg = loaded
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			vis := refhost.NewVis(seed, cfg.CutFromProofPeriod)
			if err := eqfile.ReadEqs(f, vis); err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			h := vis.H()
			s := dio.NewVc(h, cfg)

			for round := 0; round < maxRounds; round++ {
				res := s.Check()
				if verbose {
					log.Printf("round %d: %s (stats: %+v)", round, res, *h.Stats())
				}
				switch res {
				case dio.Sat:
					fmt.Println("s SATISFIABLE")
					return nil
				case dio.Conflict:
					fmt.Println("s UNSATISFIABLE")
					fmt.Printf("c witness constraints: %v\n", s.Explain())
					return nil
				case dio.Branch:
					if !applyBranch(h, s) {
						fmt.Println("s UNKNOWN")
						return nil
					}
				case dio.Undef:
					// iteration budget exhausted this round; keep going.
				}
			}
			fmt.Println("s UNKNOWN")
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file")
	cmd.Flags().Int64Var(&seed, "seed", 1, "deterministic PRNG seed for branch tie-breaking")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print stats after every round")
	cmd.Flags().IntVar(&maxRounds, "max-rounds", 10000, "give up after this many rounds")
	return cmd
}

// applyBranch commits the branching decision dio produced (either a
// column split or a Gomory cut) to the host and reports whether progress
// is still possible.
func applyBranch(h *refhost.H, s *dio.Solver) bool {
	if col, kind, value, ok := s.PendingBranch(); ok {
		h.AddVarBound(col, kind, value)
		return true
	}
	if term, offset, isUpper, ok := s.PendingCut(); ok {
		_ = term
		_ = offset
		_ = isUpper
		// A production host would introduce a new row for the cut term
		// and bound it; the reference host has no row-introduction path
		// of its own, so diocheck reports the cut and stops.
		fmt.Println("c cut-from-proof requested; reference host cannot apply it")
		return false
	}
	return false
}
