package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/calum-mcyoko/Analysis-Plugin/internal/analysis"
	"github.com/calum-mcyoko/Analysis-Plugin/internal/audio"
	"github.com/calum-mcyoko/Analysis-Plugin/internal/cli"
	"github.com/calum-mcyoko/Analysis-Plugin/internal/logging"
	"github.com/calum-mcyoko/Analysis-Plugin/internal/mains"
	"github.com/calum-mcyoko/Analysis-Plugin/internal/preset"
	"github.com/calum-mcyoko/Analysis-Plugin/internal/ui"
)

var (
	version = "0.0.1"
)

// CLI defines the command-line interface
type CLI struct {
	Version bool   `short:"v" help:"Show version information"`
	Output  string `short:"o" type:"path" help:"Directory to write the preset into (default: the plugin's preset folder)"`
	Quiet   bool   `short:"q" help:"Skip the progress UI and print only the report"`
	File    string `arg:"" name:"file" help:"Audio file to analyse" type:"existingfile" optional:""`
	Name    string `arg:"" name:"name" help:"Preset name (default: the audio file's name)" optional:""`
}

func main() {
	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("presetanalyzer"),
		kong.Description("Derives a seven-band EQ preset from a voice recording"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	// Handle version flag
	if cliArgs.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	// Validate input
	if cliArgs.File == "" {
		cli.PrintError("No input file specified")
		ctx.PrintUsage(false)
		os.Exit(1)
	}

	var res *analysis.Result

	if cliArgs.Quiet {
		sig, err := audio.Load(cliArgs.File)
		if err != nil {
			cli.PrintError(err.Error())
			os.Exit(1)
		}
		res = analysis.Analyze(sig, nil)
	} else {
		// Create the Bubbletea UI model
		model := ui.NewAnalysisModel()

		// Start the TUI
		p := tea.NewProgram(model, tea.WithAltScreen())

		// Run the analysis in the background, feeding progress to the UI
		go func() {
			p.Send(ui.AnalysisStartMsg{FilePath: cliArgs.File})

			sig, err := audio.Load(cliArgs.File)
			if err != nil {
				p.Send(ui.AnalysisCompleteMsg{Error: err})
				return
			}

			result := analysis.Analyze(sig, func(stage analysis.Stage, fraction float64) {
				p.Send(ui.StageMsg{Stage: stage, Fraction: fraction})
			})
			p.Send(ui.AnalysisCompleteMsg{Result: result})
		}()

		// Run the program
		final, err := p.Run()
		if err != nil {
			cli.PrintError(fmt.Sprintf("UI error: %v", err))
			os.Exit(1)
		}

		m, _ := final.(ui.AnalysisModel)
		if m.Error != nil {
			cli.PrintError(m.Error.Error())
			os.Exit(1)
		}
		if m.Result == nil {
			// The user quit before the analysis finished
			fmt.Println("Analysis cancelled")
			os.Exit(1)
		}
		res = m.Result
	}

	// Local mains frequency for the hum diagnostics in the report
	humHz := mains.Frequency()
	logging.WriteReport(os.Stdout, cliArgs.File, res, humHz)

	name := cliArgs.Name
	if name == "" {
		name = preset.DefaultName(cliArgs.File)
	}

	dir, fellBack, err := preset.ResolveDirectory(cliArgs.Output)
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}

	path, err := preset.Write(preset.Build(res, cliArgs.File, time.Now()), dir, name)
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}

	fmt.Println()
	if fellBack {
		fmt.Println("The default preset folder was not writable, so the preset was saved to the current directory.")
	}
	fmt.Printf("Preset saved: %s\n", path)
}
