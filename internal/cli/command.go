package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/wordloop/internal"
	"codeberg.org/snonux/wordloop/internal/settings"
	"codeberg.org/snonux/wordloop/internal/wordstore"
)

// Commands gives access to the subcommands so the caller can attach the
// run functions
type Commands struct {
	Root      *cobra.Command
	Lists     *cobra.Command
	Show      *cobra.Command
	Create    *cobra.Command
	Add       *cobra.Command
	Edit      *cobra.Command
	Remove    *cobra.Command
	Rename    *cobra.Command
	Delete    *cobra.Command
	Import    *cobra.Command
	Export    *cobra.Command
	Select    *cobra.Command
	Deselect  *cobra.Command
	Next      *cobra.Command
	Drill     *cobra.Command
	Anki      *cobra.Command
	Translate *cobra.Command
	Stats     *cobra.Command
}

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *Commands {
	c := &Commands{}

	c.Root = &cobra.Command{
		Use:   "wordloop",
		Short: "Vocabulary drill with timed random words",
		Long: `wordloop drills vocabulary by cycling through randomly sampled words
from your word lists, on a timer or whenever you ask for the next one.

Examples:
  wordloop                           # Launch the desktop GUI (default)
  wordloop --tui                     # Drill in the terminal
  wordloop next -l "Common Verbs" -n 3
  wordloop import ~/Downloads/Animals.txt
  wordloop anki MyVocabulary --translate`,
		Args:    cobra.NoArgs,
		Version: internal.Version,
	}

	c.Lists = &cobra.Command{
		Use:   "lists",
		Short: "Show all word lists with their sizes",
		Args:  cobra.NoArgs,
	}
	c.Show = &cobra.Command{
		Use:   "show <list>",
		Short: "Print a list with canonical indices",
		Args:  cobra.ExactArgs(1),
	}
	c.Create = &cobra.Command{
		Use:   "create <list>",
		Short: "Create an empty list",
		Args:  cobra.ExactArgs(1),
	}
	c.Add = &cobra.Command{
		Use:   "add <list> <word>...",
		Short: "Append words to a list",
		Args:  cobra.MinimumNArgs(2),
	}
	c.Edit = &cobra.Command{
		Use:   "edit <list> <index> <word>",
		Short: "Replace the word at a canonical index",
		Args:  cobra.ExactArgs(3),
	}
	c.Remove = &cobra.Command{
		Use:   "remove <list> <index>...",
		Short: "Remove words by canonical index",
		Args:  cobra.MinimumNArgs(2),
	}
	c.Rename = &cobra.Command{
		Use:   "rename <list> <new-name>",
		Short: "Rename a list",
		Args:  cobra.ExactArgs(2),
	}
	c.Delete = &cobra.Command{
		Use:   "delete <list>",
		Short: "Delete a list",
		Args:  cobra.ExactArgs(1),
	}
	c.Import = &cobra.Command{
		Use:   "import <file>...",
		Short: "Import list files, the file name becomes the list name",
		Args:  cobra.MinimumNArgs(1),
	}
	c.Export = &cobra.Command{
		Use:   "export <list> <file>",
		Short: "Write a list to a file",
		Args:  cobra.ExactArgs(2),
	}
	c.Select = &cobra.Command{
		Use:   "select <list>",
		Short: "Add a list to the drill selection",
		Args:  cobra.ExactArgs(1),
	}
	c.Deselect = &cobra.Command{
		Use:   "deselect <list>",
		Short: "Remove a list from the drill selection",
		Args:  cobra.ExactArgs(1),
	}
	c.Next = &cobra.Command{
		Use:   "next",
		Short: "Draw and print one sample",
		Args:  cobra.NoArgs,
	}
	c.Drill = &cobra.Command{
		Use:   "drill",
		Short: "Drill in the terminal",
		Args:  cobra.NoArgs,
	}
	c.Anki = &cobra.Command{
		Use:   "anki <list> [output]",
		Short: "Export a list as Anki deck (APKG) or CSV",
		Args:  cobra.RangeArgs(1, 2),
	}
	c.Translate = &cobra.Command{
		Use:   "translate <word>",
		Short: "Look up the translation of a word",
		Args:  cobra.ExactArgs(1),
	}
	c.Stats = &cobra.Command{
		Use:   "stats",
		Short: "Show how often words were drilled",
		Args:  cobra.NoArgs,
	}

	c.Root.AddCommand(c.Lists, c.Show, c.Create, c.Add, c.Edit, c.Remove,
		c.Rename, c.Delete, c.Import, c.Export, c.Select, c.Deselect,
		c.Next, c.Drill, c.Anki, c.Translate, c.Stats)

	setupFlags(c, flags)
	return c
}

func setupFlags(c *Commands, flags *Flags) {
	defaults := settings.Default()

	// Global flags
	pf := c.Root.PersistentFlags()
	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.wordloop.yaml)")
	pf.StringVar(&flags.ListsDir, "lists-dir", wordstore.DefaultDir(), "Directory holding the word lists")
	pf.StringVar(&flags.StatsDB, "stats-db", defaults.StatsDB, "Drill statistics database")
	pf.BoolVar(&flags.NoStats, "no-stats", false, "Do not record drilled words")
	pf.StringVar(&flags.Provider, "provider", flags.Provider, "Translation provider: openai or gemini")
	pf.StringVar(&flags.Model, "model", "", "Chat model used for translations (provider default if empty)")
	pf.StringVar(&flags.SourceLang, "from", flags.SourceLang, "Language of the drilled words (auto to detect)")
	pf.StringVar(&flags.TargetLang, "to", flags.TargetLang, "Language to translate into")

	// Root flags
	c.Root.Flags().BoolVar(&flags.Archive, "archive", false, "Back up the lists directory to a timestamped archive")
	c.Root.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available OpenAI chat models for the current API key")
	c.Root.Flags().BoolVar(&flags.TUIMode, "tui", false, "Drill in the terminal instead of the GUI")
	c.Root.Flags().StringVar(&flags.Theme, "theme", flags.Theme, "GUI theme: System, Light or Dark")

	// Drill flags shared by root, next and drill
	for _, cmd := range []*cobra.Command{c.Root, c.Next, c.Drill} {
		cmd.Flags().StringSliceVarP(&flags.Lists, "list", "l", nil, "Lists to drill (default: the saved selection)")
		cmd.Flags().Float64VarP(&flags.Interval, "interval", "i", defaults.Interval.Seconds(), "Seconds between words, 0 for manual")
		cmd.Flags().IntVarP(&flags.Count, "count", "n", flags.Count, "Words shown at once")
		cmd.Flags().BoolVar(&flags.Fair, "fair", false, "Give every list the same weight regardless of its size")
	}

	c.Show.Flags().StringVarP(&flags.Sort, "sort", "s", flags.Sort, "Order: original, reverse, alphabetical, reverse-alphabetical")
	c.Show.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Only show words containing this text")

	c.Select.Flags().Float64Var(&flags.Lower, "lower", flags.Lower, "Lower bound of the drilled range (0-1)")
	c.Select.Flags().Float64Var(&flags.Upper, "upper", flags.Upper, "Upper bound of the drilled range (0-1)")

	c.Anki.Flags().BoolVar(&flags.AnkiCSV, "csv", false, "Write CSV instead of APKG")
	c.Anki.Flags().StringVar(&flags.DeckName, "deck-name", flags.DeckName, "Deck name for APKG export (list name is appended)")
	c.Anki.Flags().StringVar(&flags.Glossary, "glossary", "", "File with 'word = translation' lines")
	c.Anki.Flags().BoolVar(&flags.Translate, "translate", false, "Look up missing translations")

	c.Stats.Flags().IntVar(&flags.Top, "top", flags.Top, "Number of most shown words to print")

	bindFlagsToViper(c)
}

func bindFlagsToViper(c *Commands) {
	pf := c.Root.PersistentFlags()
	viper.BindPFlag(settings.KeyListsDir, pf.Lookup("lists-dir"))
	viper.BindPFlag(settings.KeyStatsDB, pf.Lookup("stats-db"))
	viper.BindPFlag(settings.KeyTranslationProvider, pf.Lookup("provider"))
	viper.BindPFlag(settings.KeyTranslationSource, pf.Lookup("from"))
	viper.BindPFlag(settings.KeyTranslationTarget, pf.Lookup("to"))
	viper.BindPFlag(settings.KeyTheme, c.Root.Flags().Lookup("theme"))
	viper.BindPFlag(settings.KeySort, c.Show.Flags().Lookup("sort"))
}

// BindDrillFlags binds the drill flags of the command being run. Each
// command has its own flag set, so only the executing one may be bound.
func BindDrillFlags(cmd *cobra.Command) {
	viper.BindPFlag(settings.KeyInterval, cmd.Flags().Lookup("interval"))
	viper.BindPFlag(settings.KeyCount, cmd.Flags().Lookup("count"))
	viper.BindPFlag(settings.KeyFair, cmd.Flags().Lookup("fair"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".wordloop" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".wordloop")
	}

	viper.SetEnvPrefix("WORDLOOP")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("translation.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	for _, env := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if key := os.Getenv(env); key != "" {
			return key
		}
	}
	return viper.GetString("translation.gemini_key")
}
