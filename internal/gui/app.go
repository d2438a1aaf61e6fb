package gui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/wordloop/internal"
	"codeberg.org/snonux/wordloop/internal/drill"
	"codeberg.org/snonux/wordloop/internal/sampler"
	"codeberg.org/snonux/wordloop/internal/translation"
	"codeberg.org/snonux/wordloop/internal/wordstore"
)

// Application represents the main GUI application
type Application struct {
	// Fyne components
	app    fyne.App
	window fyne.Window

	ctrl   *drill.Controller
	config *Config

	// Drill view
	wordDisplay      *WordDisplay
	translationLabel *widget.Label
	statusLabel      *widget.Label

	// Navigation buttons
	backBtn      *ttwidget.Button
	forwardBtn   *ttwidget.Button
	nextBtn      *ttwidget.Button
	pauseBtn     *ttwidget.Button
	translateBtn *ttwidget.Button

	// Toolbar buttons
	importBtn *ttwidget.Button
	exportBtn *ttwidget.Button
	ankiBtn   *ttwidget.Button
	helpBtn   *ttwidget.Button

	listsView    *ListsView
	settingsView *SettingsView
	logViewer    *LogViewer
	tabs         *container.AppTabs

	// Open list editors by list name
	editors map[string]*ListEditor

	// Background work
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	unsubscribe func()
}

// Config holds GUI application configuration
type Config struct {
	// Translator looks up translations of shown words, nil disables it
	Translator translation.Provider
	SourceLang string
	TargetLang string

	// Save persists the settings after every change, may be nil
	Save func() error
}

// DefaultConfig returns default GUI configuration
func DefaultConfig() *Config {
	return &Config{
		SourceLang: translation.AutoDetect,
		TargetLang: "English",
	}
}

// New creates a new GUI application
func New(ctrl *drill.Controller, config *Config) *Application {
	myApp := app.NewWithID("org.codeberg.snonux.wordloop")
	myApp.SetIcon(GetAppIcon())
	return newApplication(myApp, ctrl, config)
}

func newApplication(fyneApp fyne.App, ctrl *drill.Controller, config *Config) *Application {
	if config == nil {
		config = DefaultConfig()
	} else {
		// Fill in missing fields with defaults
		defaults := DefaultConfig()
		if config.SourceLang == "" {
			config.SourceLang = defaults.SourceLang
		}
		if config.TargetLang == "" {
			config.TargetLang = defaults.TargetLang
		}
	}

	ctx, cancel := context.WithCancel(context.Background())

	a := &Application{
		app:     fyneApp,
		ctrl:    ctrl,
		config:  config,
		editors: make(map[string]*ListEditor),
		ctx:     ctx,
		cancel:  cancel,
	}

	applyTheme(fyneApp, ctrl.Settings().Theme)
	a.setupUI()

	// The timer fires on its own goroutine
	ctrl.OnChange(func(s sampler.Sample) {
		fyne.Do(func() { a.showSample(s) })
	})
	a.unsubscribe = ctrl.Store().Subscribe(func(ev wordstore.Event) {
		fyne.Do(func() { a.onStoreEvent(ev) })
	})

	return a
}

// setupUI creates the main user interface
func (a *Application) setupUI() {
	a.window = a.app.NewWindow(fmt.Sprintf("wordloop v%s", internal.Version))
	a.window.SetIcon(GetAppIcon())
	a.window.Resize(fyne.NewSize(800, 600))

	a.wordDisplay = NewWordDisplay(a.onCopyWord, a.ctrl.Pause, a.ctrl.Resume)

	a.translationLabel = widget.NewLabel("")
	a.translationLabel.Alignment = fyne.TextAlignCenter
	a.translationLabel.Wrapping = fyne.TextWrapWord

	// Create navigation buttons (tooltips will be set after tooltip layer is created)
	a.backBtn = ttwidget.NewButtonWithIcon("", theme.NavigateBackIcon(), a.onBack)
	a.forwardBtn = ttwidget.NewButtonWithIcon("", theme.NavigateNextIcon(), a.onForward)
	a.nextBtn = ttwidget.NewButtonWithIcon("Next", theme.ViewRefreshIcon(), a.onNext)
	a.nextBtn.Importance = widget.HighImportance
	a.pauseBtn = ttwidget.NewButtonWithIcon("", theme.MediaPauseIcon(), a.onToggleTimer)
	a.translateBtn = ttwidget.NewButtonWithIcon("", theme.SearchIcon(), a.onTranslate)
	if a.config.Translator == nil {
		a.translateBtn.Disable()
	}

	a.importBtn = ttwidget.NewButtonWithIcon("", theme.FolderOpenIcon(), a.onImport)
	a.exportBtn = ttwidget.NewButtonWithIcon("", theme.DocumentSaveIcon(), a.onExport)
	a.ankiBtn = ttwidget.NewButtonWithIcon("", theme.UploadIcon(), a.onExportToAnki)
	a.helpBtn = ttwidget.NewButtonWithIcon("", theme.HelpIcon(), a.onShowHotkeys)

	navigation := container.NewHBox(
		a.backBtn,
		a.forwardBtn,
		widget.NewSeparator(),
		a.pauseBtn,
		a.translateBtn,
	)
	drillToolbar := container.NewBorder(nil, nil, navigation, a.nextBtn)

	// Swiping left draws the next sample, swiping right goes back
	swipe := NewSwipeArea(a.wordDisplay, a.onNext, a.onBack)

	drillTab := container.NewBorder(
		drillToolbar,
		a.translationLabel,
		nil, nil,
		swipe,
	)

	a.logViewer = NewLogViewer()
	a.listsView = NewListsView(a.ctrl, a)
	a.settingsView = NewSettingsView(a.ctrl, a)

	a.tabs = container.NewAppTabs(
		container.NewTabItemWithIcon("Drill", theme.MediaPlayIcon(), drillTab),
		container.NewTabItemWithIcon("Lists", theme.ListIcon(), a.listsView),
		container.NewTabItemWithIcon("Settings", theme.SettingsIcon(), a.settingsView),
		container.NewTabItemWithIcon("Log", theme.InfoIcon(), a.logViewer),
	)

	toolbar := container.NewHBox(
		a.importBtn,
		a.exportBtn,
		a.ankiBtn,
		widget.NewSeparator(),
		a.helpBtn,
	)

	a.statusLabel = widget.NewLabel("Ready")
	a.statusLabel.TextStyle = fyne.TextStyle{Italic: true}

	content := container.NewBorder(
		container.NewVBox(toolbar, widget.NewSeparator()),
		a.statusLabel,
		nil, nil,
		a.tabs,
	)

	// Add the tooltip layer to enable tooltips
	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))

	// Now that tooltip layer is created, set all tooltips
	a.setupTooltips()

	a.window.SetOnClosed(func() {
		a.ctrl.StopTimer()
		a.cancel()
		a.wg.Wait()
		if a.unsubscribe != nil {
			a.unsubscribe()
		}
		a.logViewer.StopCapture()
	})

	// Set up keyboard shortcuts
	a.setupKeyboardShortcuts()

	a.showSample(a.ctrl.Current())
}

// Run starts the GUI application
func (a *Application) Run() {
	a.logViewer.StartCapture()
	a.ctrl.StartTimer()
	if len(a.ctrl.Current()) == 0 && a.ctrl.PoolSize() > 0 {
		a.onNext()
	}
	a.updateStatus()
	a.window.ShowAndRun()
}

// setupTooltips sets up all tooltips after the tooltip layer has been created
func (a *Application) setupTooltips() {
	a.backBtn.SetToolTip("Previous words (←)")
	a.forwardBtn.SetToolTip("Forward in history (→)")
	a.nextBtn.SetToolTip("Draw new words (space)")
	a.pauseBtn.SetToolTip("Pause or resume the timer (p)")
	a.translateBtn.SetToolTip("Translate the shown words (t)")
	a.importBtn.SetToolTip("Import a list file (i)")
	a.exportBtn.SetToolTip("Export a list to a file (e)")
	a.ankiBtn.SetToolTip("Export to Anki (x)")
	a.helpBtn.SetToolTip("Show hotkeys (h)")
}

// showSample puts s on display. Must run on the UI goroutine.
func (a *Application) showSample(s sampler.Sample) {
	a.wordDisplay.SetSample(s)
	a.translationLabel.SetText("")
	a.updateNavigation()
	a.updateStatus()
}

// updateNavigation updates the navigation button states
func (a *Application) updateNavigation() {
	if a.ctrl.CanBack() {
		a.backBtn.Enable()
	} else {
		a.backBtn.Disable()
	}
	if a.ctrl.CanForward() {
		a.forwardBtn.Enable()
	} else {
		a.forwardBtn.Disable()
	}
	if a.ctrl.PoolSize() > 0 {
		a.nextBtn.Enable()
	} else {
		a.nextBtn.Disable()
	}
}

func (a *Application) updateStatus() {
	pool := a.ctrl.PoolSize()
	selected := len(a.ctrl.Selected())

	var timer string
	switch {
	case a.ctrl.Interval() == 0:
		timer = "manual"
	case a.ctrl.TimerRunning():
		timer = fmt.Sprintf("every %s", a.ctrl.Interval())
	default:
		timer = "paused"
	}

	if a.ctrl.TimerRunning() {
		a.pauseBtn.SetIcon(theme.MediaPauseIcon())
	} else {
		a.pauseBtn.SetIcon(theme.MediaPlayIcon())
	}
	a.statusLabel.SetText(fmt.Sprintf("%d lists selected, %d words in the pool, timer %s", selected, pool, timer))
}

func (a *Application) setStatus(message string) {
	a.statusLabel.SetText(message)
}

func (a *Application) showError(err error) {
	dialog.ShowError(err, a.window)
	a.setStatus("Error: " + err.Error())
}

func (a *Application) onNext() {
	if _, err := a.ctrl.Next(); err != nil {
		if errors.Is(err, drill.ErrNoWords) {
			a.wordDisplay.SetMessage("Select a list on the Lists tab")
			a.updateNavigation()
			return
		}
		a.showError(err)
	}
}

func (a *Application) onBack() {
	a.ctrl.Back()
}

// onForward moves forward in the history, or draws new words at its end
func (a *Application) onForward() {
	if _, moved := a.ctrl.Forward(); !moved {
		a.onNext()
	}
}

func (a *Application) onToggleTimer() {
	if a.ctrl.Interval() == 0 {
		a.setStatus("Set an interval on the Settings tab to start the timer")
		return
	}
	if a.ctrl.TimerRunning() {
		a.ctrl.StopTimer()
	} else {
		a.ctrl.StartTimer()
	}
	a.updateStatus()
}

// onCopyWord puts a word on the clipboard
func (a *Application) onCopyWord(word string) {
	a.window.Clipboard().SetContent(word)
	a.setStatus(fmt.Sprintf("Copied '%s'", word))
}

func (a *Application) onCopyAll() {
	words := a.ctrl.Current().Words()
	if len(words) == 0 {
		return
	}
	a.onCopyWord(strings.Join(words, "\n"))
}

// onTranslate looks up the shown words in the background
func (a *Application) onTranslate() {
	if a.config.Translator == nil {
		return
	}
	s := a.ctrl.Current()
	if len(s) == 0 {
		return
	}

	a.translationLabel.SetText("Translating...")
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		lines := make([]string, 0, len(s))
		for _, word := range s.Words() {
			tr, err := a.config.Translator.Translate(a.ctx, word, a.config.SourceLang, a.config.TargetLang)
			if err != nil {
				if a.ctx.Err() != nil {
					return
				}
				a.logViewer.Log("Translation of '%s' failed: %v", word, err)
				tr = "?"
			}
			lines = append(lines, fmt.Sprintf("%s = %s", word, tr))
		}

		fyne.Do(func() {
			// The sample may have changed in the meantime
			if a.ctrl.Current().Equal(s) {
				a.translationLabel.SetText(strings.Join(lines, "\n"))
			}
		})
	}()
}

func (a *Application) onStoreEvent(ev wordstore.Event) {
	a.listsView.Reload()
	a.updateNavigation()
	a.updateStatus()

	switch ev.Kind {
	case wordstore.EventDeleted:
		a.setStatus(fmt.Sprintf("Deleted list %s", ev.Name))
	case wordstore.EventRenamed:
		if e, ok := a.editors[ev.Name]; ok {
			delete(a.editors, ev.Name)
			a.editors[ev.NewName] = e
		}
	}
}

// settingsChanged persists the settings after a change in the UI
func (a *Application) settingsChanged() {
	a.updateStatus()
	if a.config.Save == nil {
		return
	}
	if err := a.config.Save(); err != nil {
		a.logViewer.Log("Failed to save settings: %v", err)
	}
}

// selectionChanged is called by the lists view after a selection or range
// change
func (a *Application) selectionChanged() {
	a.updateNavigation()
	a.settingsChanged()
}

// openEditor opens the editor window of a list, or focuses it when open
func (a *Application) openEditor(name string) {
	if e, ok := a.editors[name]; ok {
		e.window.RequestFocus()
		return
	}

	e, err := NewListEditor(a.app, a.ctrl, name)
	if err != nil {
		a.showError(err)
		return
	}
	a.editors[name] = e
	e.window.SetOnClosed(func() {
		e.Close()
		delete(a.editors, e.Name())
		a.listsView.Reload()
		a.updateNavigation()
		a.updateStatus()
	})
	e.window.Show()
}

// confirmDelete asks before a list is deleted
func (a *Application) confirmDelete(name string) {
	dialog.ShowConfirm("Delete list",
		fmt.Sprintf("Delete the list '%s'? This cannot be undone.", name),
		func(ok bool) {
			if !ok {
				return
			}
			if err := a.ctrl.DeleteList(name); err != nil {
				a.showError(err)
			}
		}, a.window)
}

// setupKeyboardShortcuts sets up keyboard shortcuts for the application
func (a *Application) setupKeyboardShortcuts() {
	a.window.Canvas().SetOnTypedRune(func(r rune) {
		// Let the character be typed into a focused entry
		if a.window.Canvas().Focused() != nil {
			return
		}

		switch r {
		case ' ', 'n', 'N':
			a.onNext()
		case 'b', 'B':
			a.onBack()
		case 'f', 'F':
			a.onForward()
		case 'p', 'P':
			a.onToggleTimer()
		case 'c', 'C':
			a.onCopyAll()
		case 't', 'T':
			a.onTranslate()
		case 'i', 'I':
			a.onImport()
		case 'e', 'E':
			a.onExport()
		case 'x', 'X':
			a.onExportToAnki()
		case 'l', 'L':
			a.tabs.SelectIndex(1)
		case 'd', 'D':
			a.tabs.SelectIndex(0)
		case 'h', 'H':
			a.onShowHotkeys()
		case 'q', 'Q':
			a.window.Close()
		}
	})

	a.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			a.window.Canvas().Unfocus()
			return
		}
		if a.window.Canvas().Focused() != nil {
			return
		}

		switch ev.Name {
		case fyne.KeyLeft:
			a.onBack()
		case fyne.KeyRight:
			a.onForward()
		}
	})
}

func (a *Application) onShowHotkeys() {
	hotkeys := `[Project Page: https://codeberg.org/snonux/wordloop](https://codeberg.org/snonux/wordloop)

---

## Drill
**space/n** Draw new words
**←/b** Previous words
**→/f** Forward in history
**p** Pause or resume the timer
**c** Copy the shown words
**t** Translate the shown words

Press and hold a word to copy it, the timer waits while you hold.
Swipe left for new words, right to go back.

## Lists
**l** Show lists
**d** Show drill
**i** Import a list
**e** Export a list
**x** Export to Anki

## Help
**h** Show hotkeys
**Esc** Unfocus field
**q** Quit application`

	content := widget.NewRichTextFromMarkdown(hotkeys)
	content.Wrapping = fyne.TextWrapWord

	scroll := container.NewScroll(container.NewPadded(content))
	scroll.SetMinSize(fyne.NewSize(500, 420))

	d := dialog.NewCustom("Keyboard Shortcuts", "Close", scroll, a.window)
	d.Show()
}
