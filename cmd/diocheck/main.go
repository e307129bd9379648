// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Command diocheck drives a dio.Solver to a fixpoint over a system of
// integer linear equalities read from an eqfile-format input, using
// internal/refhost as the host.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	log.SetPrefix("diocheck: ")
	log.SetFlags(0)

	root := &cobra.Command{
		Use:   "diocheck",
		Short: "drive the dio Diophantine equality solver over an equation file",
	}
	root.AddCommand(newCheckCmd())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "print the diocheck version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
