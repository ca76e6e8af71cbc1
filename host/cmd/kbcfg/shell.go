package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/google/shlex"
	"github.com/spf13/cobra"
)

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run commands interactively over one connection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(a, cmd)
		},
	}
}

func runShell(a *app, parent *cobra.Command) error {
	in := bufio.NewScanner(parent.InOrStdin())
	out := parent.OutOrStdout()
	errOut := parent.ErrOrStderr()

	a.inShell = true
	defer func() { a.inShell = false }()

	for {
		fmt.Fprint(out, "kbcfg> ")
		if !in.Scan() {
			fmt.Fprintln(out)
			return in.Err()
		}
		line := strings.TrimSpace(in.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words, err := shlex.Split(line)
		if err != nil {
			fmt.Fprintln(errOut, "Error:", err)
			continue
		}
		if len(words) == 0 {
			continue
		}
		if words[0] == "exit" || words[0] == "quit" {
			return nil
		}

		root := newRootCmd(a)
		root.SetArgs(words)
		root.SetIn(parent.InOrStdin())
		root.SetOut(out)
		root.SetErr(errOut)
		if err := root.ExecuteContext(parent.Context()); err != nil {
			fmt.Fprintln(errOut, "Error:", err)
		}
	}
}
