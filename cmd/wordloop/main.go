package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/wordloop/internal/cli"
	"codeberg.org/snonux/wordloop/internal/processor"
)

func main() {
	flags := cli.NewFlags()
	c := cli.CreateRootCommand(flags)

	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	c.Root.RunE = func(cmd *cobra.Command, args []string) error {
		// Maintenance flags run without opening the lists
		if flags.Archive || flags.ListModels {
			return runMaintenance(flags)
		}

		cli.BindDrillFlags(cmd)
		return withProcessor(flags, func(p *processor.Processor) error {
			if flags.TUIMode {
				return p.RunTUI()
			}
			return p.RunGUIMode()
		})
	}

	c.Next.RunE = func(cmd *cobra.Command, args []string) error {
		cli.BindDrillFlags(cmd)
		return withProcessor(flags, (*processor.Processor).PrintNext)
	}
	c.Drill.RunE = func(cmd *cobra.Command, args []string) error {
		cli.BindDrillFlags(cmd)
		return withProcessor(flags, (*processor.Processor).RunTUI)
	}

	c.Lists.RunE = run(flags, func(p *processor.Processor, _ []string) error {
		return p.Lists()
	})
	c.Show.RunE = run(flags, func(p *processor.Processor, args []string) error {
		return p.Show(args[0])
	})
	c.Create.RunE = run(flags, func(p *processor.Processor, args []string) error {
		return p.Create(args[0])
	})
	c.Add.RunE = run(flags, func(p *processor.Processor, args []string) error {
		return p.Add(args[0], args[1:]...)
	})
	c.Edit.RunE = run(flags, func(p *processor.Processor, args []string) error {
		return p.Edit(args[0], args[1], args[2])
	})
	c.Remove.RunE = run(flags, func(p *processor.Processor, args []string) error {
		return p.Remove(args[0], args[1:]...)
	})
	c.Rename.RunE = run(flags, func(p *processor.Processor, args []string) error {
		return p.Rename(args[0], args[1])
	})
	c.Delete.RunE = run(flags, func(p *processor.Processor, args []string) error {
		return p.Delete(args[0])
	})
	c.Import.RunE = run(flags, func(p *processor.Processor, args []string) error {
		return p.Import(args...)
	})
	c.Export.RunE = run(flags, func(p *processor.Processor, args []string) error {
		return p.Export(args[0], args[1])
	})
	c.Select.RunE = run(flags, func(p *processor.Processor, args []string) error {
		return p.Select(args[0])
	})
	c.Deselect.RunE = run(flags, func(p *processor.Processor, args []string) error {
		return p.Deselect(args[0])
	})
	c.Anki.RunE = run(flags, func(p *processor.Processor, args []string) error {
		output := ""
		if len(args) > 1 {
			output = args[1]
		}
		fmt.Printf("Generating Anki import file for %s...\n", args[0])
		path, err := p.ExportAnki(args[0], output)
		if err != nil {
			return err
		}
		fmt.Printf("Anki file created: %s\n", path)
		return nil
	})
	c.Translate.RunE = run(flags, func(p *processor.Processor, args []string) error {
		return p.Translate(args[0])
	})
	c.Stats.RunE = run(flags, func(p *processor.Processor, _ []string) error {
		return p.Stats()
	})

	if err := c.Root.Execute(); err != nil {
		os.Exit(1)
	}
}

// run adapts a processor method to a cobra run function
func run(flags *cli.Flags, fn func(*processor.Processor, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return withProcessor(flags, func(p *processor.Processor) error {
			return fn(p, args)
		})
	}
}

func withProcessor(flags *cli.Flags, fn func(*processor.Processor) error) error {
	p, err := processor.NewProcessor(flags)
	if err != nil {
		return err
	}
	defer func() {
		if err := p.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}()
	return fn(p)
}

func runMaintenance(flags *cli.Flags) error {
	return withProcessor(flags, func(p *processor.Processor) error {
		if flags.Archive {
			if err := p.Archive(); err != nil {
				return fmt.Errorf("failed to archive lists: %w", err)
			}
		}
		if flags.ListModels {
			return p.ListModels()
		}
		return nil
	})
}
