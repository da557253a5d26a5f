// Command tapetui-demo doubles as a scriptable CLI and an interactive
// transcript UI, mirroring the hybrid pattern from phoenix's cobra-cli
// example: flags present means render once and exit, flags absent means
// hand the terminal to the runtime.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Gurpartap/tape-tui/diag"
	"github.com/Gurpartap/tape-tui/registry"
	"github.com/Gurpartap/tape-tui/runtime"
	"github.com/Gurpartap/tape-tui/termbackend"
)

func main() {
	var echo string

	root := &cobra.Command{
		Use:   "tapetui-demo",
		Short: "inline transcript UI kernel demo",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().NFlag() > 0 {
				return runCLI(echo)
			}
			return runTUI()
		},
	}
	root.Flags().StringVar(&echo, "echo", "", "print a styled line and exit instead of starting the interactive UI")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(echo string) error {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#00AAFF")).Bold(true)
	fmt.Println(style.Render(echo))
	return nil
}

func runTUI() error {
	sink := diag.NewStderrSink()

	backend := termbackend.NewUnix()
	components := registry.New()
	env := runtime.LoadEnvConfig(runtime.OSEnv{}, sink)

	rt := runtime.New(backend, components, env, sink)

	root := newTranscript(rt.Handle())
	id := components.Register(root)
	rt.SetRoot(id)

	return rt.Run()
}
