package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	ListsDir   string
	Archive    bool
	ListModels bool
	TUIMode    bool

	// Drill flags
	Lists    []string
	Interval float64
	Count    int
	Fair     bool
	Theme    string
	StatsDB  string
	NoStats  bool

	// List browsing flags
	Sort   string
	Filter string
	Lower  float64
	Upper  float64

	// Export flags
	AnkiCSV   bool
	DeckName  string
	Glossary  string
	Translate bool

	// Translation flags
	Provider   string
	Model      string
	SourceLang string
	TargetLang string

	// Stats flags
	Top int
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Count:      1,
		Theme:      "System",
		Sort:       "original",
		Lower:      0,
		Upper:      1,
		DeckName:   "wordloop",
		Provider:   "openai",
		SourceLang: "auto",
		TargetLang: "English",
		Top:        10,
	}
}
