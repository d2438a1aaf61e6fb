package gui

import (
	"fmt"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/wordloop/internal"
	"codeberg.org/snonux/wordloop/internal/anki"
	"codeberg.org/snonux/wordloop/internal/wordstore"
)

var listFileFilter = storage.NewExtensionFileFilter([]string{wordstore.FileExt, ".txt"})

// onImport lets the user pick a list file. The imported list is selected
// with the full range.
func (a *Application) onImport() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			a.showError(err)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		// The store reads the file itself
		reader.Close()

		a.importFile(path)
	}, a.window)
	d.SetFilter(listFileFilter)
	d.Show()
}

func (a *Application) importFile(path string) {
	name, err := a.ctrl.ImportFile(path)
	if err != nil {
		a.showError(fmt.Errorf("failed to import %s: %w", filepath.Base(path), err))
		return
	}
	a.listsView.Reload()
	a.selectionChanged()
	a.setStatus(fmt.Sprintf("Imported %s", name))
}

// chooseList asks for one list, then runs fn with it
func (a *Application) chooseList(title, confirm string, extra fyne.CanvasObject, fn func(name string)) {
	names, err := a.ctrl.Store().Names()
	if err != nil {
		a.showError(err)
		return
	}
	if len(names) == 0 {
		dialog.ShowInformation("No Lists", "There are no lists yet. Import or create one first!", a.window)
		return
	}

	listSelect := widget.NewSelect(names, nil)
	if selected := a.ctrl.Selected(); len(selected) > 0 {
		listSelect.SetSelected(selected[0])
	} else {
		listSelect.SetSelected(names[0])
	}

	content := container.NewVBox(widget.NewLabel("List:"), listSelect)
	if extra != nil {
		content.Add(widget.NewSeparator())
		content.Add(extra)
	}

	d := dialog.NewCustomConfirm(title, confirm, "Cancel", content, func(ok bool) {
		if ok && listSelect.Selected != "" {
			fn(listSelect.Selected)
		}
	}, a.window)
	d.Resize(fyne.NewSize(360, 0))
	d.Show()
}

// onExport writes a list to a file chosen by the user
func (a *Application) onExport() {
	a.chooseList("Export list", "Export", nil, func(name string) {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil {
				a.showError(err)
				return
			}
			if writer == nil {
				return
			}
			path := writer.URI().Path()
			writer.Close()

			if err := a.ctrl.Store().Export(name, path); err != nil {
				a.showError(err)
				return
			}
			a.setStatus(fmt.Sprintf("Exported %s to %s", name, path))
		}, a.window)
		d.SetFileName(internal.SanitizeFilename(name) + wordstore.FileExt)
		d.Show()
	})
}

// onExportToAnki builds a deck from a list, optionally translating the
// words first
func (a *Application) onExportToAnki() {
	formatOptions := []string{"APKG (Recommended)", "CSV"}
	formatSelect := widget.NewSelect(formatOptions, nil)
	formatSelect.SetSelected(formatOptions[0])

	translateCheck := widget.NewCheck("Translate words without translation", nil)
	if a.config.Translator == nil {
		translateCheck.Disable()
	}

	homeDir, _ := os.UserHomeDir()
	dir := filepath.Join(homeDir, "Downloads")
	dirLabel := widget.NewLabel(dir)
	dirButton := widget.NewButton("Browse...", func() {
		folderDialog := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil || uri == nil {
				return
			}
			dir = uri.Path()
			dirLabel.SetText(dir)
		}, a.window)
		if uri, err := storage.ListerForURI(storage.NewFileURI(dir)); err == nil {
			folderDialog.SetLocation(uri)
		}
		folderDialog.Show()
	})

	extra := container.NewVBox(
		widget.NewLabel("Export Format:"),
		formatSelect,
		translateCheck,
		widget.NewLabel("Export Directory:"),
		container.NewBorder(nil, nil, nil, dirButton, dirLabel),
	)

	a.chooseList("Export to Anki", "Export", extra, func(name string) {
		isAPKG := formatSelect.Selected == formatOptions[0]
		a.exportAnki(name, dir, isAPKG, translateCheck.Checked)
	})
}

func (a *Application) exportAnki(name, dir string, isAPKG, translate bool) {
	words, err := a.ctrl.Store().Load(name)
	if err != nil {
		a.showError(err)
		return
	}

	ext := ".csv"
	if isAPKG {
		ext = ".apkg"
	}
	outputPath := filepath.Join(dir, internal.SanitizeFilename(name)+ext)

	gen := anki.NewGenerator(&anki.GeneratorOptions{
		OutputPath:     outputPath,
		IncludeHeaders: true,
		SourceLang:     a.config.SourceLang,
		TargetLang:     a.config.TargetLang,
	})
	gen.AddList(name, words, nil)

	a.setStatus(fmt.Sprintf("Exporting %s...", name))
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		if translate && a.config.Translator != nil {
			if _, err := gen.FillTranslations(a.ctx, a.config.Translator); err != nil {
				fyne.Do(func() { a.showError(err) })
				return
			}
		}

		var err error
		if isAPKG {
			err = gen.GenerateAPKG(outputPath, name)
		} else {
			err = gen.GenerateCSV()
		}
		total, withTranslation := gen.Stats()

		fyne.Do(func() {
			if err != nil {
				a.showError(fmt.Errorf("failed to export %s: %w", name, err))
				return
			}
			a.setStatus(fmt.Sprintf("Exported %d cards to %s (%d with translation)",
				total, outputPath, withTranslation))
		})
	}()
}
