package gui

import (
	"errors"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/wordloop/internal/drill"
	"codeberg.org/snonux/wordloop/internal/wordstore"
)

// ListEditor is a window for editing one list in any sort order
type ListEditor struct {
	window fyne.Window
	ctrl   *drill.Controller
	editor *wordstore.Editor

	sortSelect  *widget.Select
	filterEntry *CustomEntry
	wordEntry   *CustomEntry
	list        *widget.List
	textEntry   *CustomMultiLineEntry
	countLabel  *widget.Label

	addBtn    *ttwidget.Button
	editBtn   *ttwidget.Button
	deleteBtn *ttwidget.Button
	saveBtn   *ttwidget.Button

	// Visible rows and their positions in the full projection
	rows      []wordstore.Item
	positions []int
	selected  int

	unsubscribe func()
}

// NewListEditor opens a list in a new window of app
func NewListEditor(app fyne.App, ctrl *drill.Controller, name string) (*ListEditor, error) {
	editor, err := ctrl.Store().Open(name)
	if err != nil {
		return nil, err
	}

	e := &ListEditor{
		ctrl:     ctrl,
		editor:   editor,
		selected: -1,
	}
	if mode, err := wordstore.ParseSortMode(ctrl.Settings().Sort); err == nil {
		editor.SetSort(mode)
	}

	e.window = app.NewWindow("Edit " + name)
	e.window.Resize(fyne.NewSize(420, 560))
	e.setupUI()

	// Close the window when the list is deleted elsewhere so that nothing
	// writes it back
	e.unsubscribe = ctrl.Store().Subscribe(func(ev wordstore.Event) {
		fyne.Do(func() { e.onStoreEvent(ev) })
	})
	return e, nil
}

// Name returns the name of the edited list
func (e *ListEditor) Name() string {
	return e.editor.Name()
}

// Close detaches the editor from the store
func (e *ListEditor) Close() {
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
	e.editor.Close()
}

func (e *ListEditor) setupUI() {
	options := make([]string, len(wordstore.SortModes))
	for i, m := range wordstore.SortModes {
		options[i] = m.String()
	}
	e.sortSelect = widget.NewSelect(options, nil)
	e.sortSelect.SetSelected(e.editor.Mode().String())
	e.sortSelect.OnChanged = e.onSortChanged

	e.filterEntry = NewCustomEntry()
	e.filterEntry.SetPlaceHolder("Filter...")
	e.filterEntry.OnChanged = func(string) { e.refresh() }
	e.filterEntry.SetOnEscape(func() { e.filterEntry.SetText("") })

	e.wordEntry = NewCustomEntry()
	e.wordEntry.SetPlaceHolder("New word...")
	e.wordEntry.OnSubmitted = func(string) { e.onAdd() }
	e.wordEntry.OnChanged = func(text string) { e.updateButtons() }
	e.wordEntry.SetOnEscape(func() { e.window.Canvas().Unfocus() })

	e.countLabel = widget.NewLabel("")

	e.list = widget.NewList(
		func() int { return len(e.rows) },
		func() fyne.CanvasObject {
			return container.NewBorder(nil, nil, widget.NewLabel("00000"), nil, widget.NewLabel(""))
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id >= len(e.rows) {
				return
			}
			row := obj.(*fyne.Container)
			// Border puts the center object first
			row.Objects[0].(*widget.Label).SetText(e.rows[id].Word)
			row.Objects[1].(*widget.Label).SetText(fmt.Sprintf("%d", e.rows[id].Index+1))
		},
	)
	e.list.OnSelected = func(id widget.ListItemID) {
		e.selected = id
		e.updateButtons()
	}
	e.list.OnUnselected = func(widget.ListItemID) {
		e.selected = -1
		e.updateButtons()
	}

	e.addBtn = ttwidget.NewButtonWithIcon("", theme.ContentAddIcon(), e.onAdd)
	e.editBtn = ttwidget.NewButtonWithIcon("", theme.DocumentCreateIcon(), e.onEdit)
	e.deleteBtn = ttwidget.NewButtonWithIcon("", theme.DeleteIcon(), e.onDelete)
	e.deleteBtn.Importance = widget.DangerImportance

	top := container.NewVBox(
		container.NewBorder(nil, nil, widget.NewLabel("Sort"), nil, e.sortSelect),
		e.filterEntry,
	)
	bottom := container.NewVBox(
		container.NewBorder(nil, nil, nil, e.addBtn, e.wordEntry),
		container.NewBorder(nil, nil, e.countLabel, container.NewHBox(e.editBtn, e.deleteBtn)),
	)
	listTab := container.NewBorder(top, bottom, nil, nil, e.list)

	// Bulk editing in canonical order, one word per line
	e.textEntry = NewCustomMultiLineEntry()
	e.textEntry.SetOnEscape(func() {
		e.textEntry.SetText(strings.Join(e.editor.Words(), "\n"))
		e.window.Canvas().Unfocus()
	})
	e.saveBtn = ttwidget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), e.onSaveText)
	textTab := container.NewBorder(
		widget.NewLabel("One word per line, Escape discards changes"),
		e.saveBtn,
		nil, nil,
		e.textEntry,
	)

	tabs := container.NewAppTabs(
		container.NewTabItem("Words", listTab),
		container.NewTabItem("Text", textTab),
	)
	tabs.OnSelected = func(item *container.TabItem) {
		if item.Content == textTab {
			e.textEntry.SetText(strings.Join(e.editor.Words(), "\n"))
		}
	}

	e.window.SetContent(fynetooltip.AddWindowToolTipLayer(tabs, e.window.Canvas()))

	e.addBtn.SetToolTip("Append word")
	e.editBtn.SetToolTip("Edit selected word")
	e.deleteBtn.SetToolTip("Delete selected word")
	e.saveBtn.SetToolTip("Replace the list with the text")

	e.refresh()
}

// refresh recomputes the visible rows from the projection and the filter
func (e *ListEditor) refresh() {
	projection := e.editor.Projection()
	posByIndex := make(map[int]int, len(projection))
	for pos, item := range projection {
		posByIndex[item.Index] = pos
	}

	e.rows = e.editor.Filter(e.filterEntry.Text)
	e.positions = make([]int, len(e.rows))
	for i, item := range e.rows {
		e.positions[i] = posByIndex[item.Index]
	}

	e.selected = -1
	e.list.UnselectAll()
	e.list.Refresh()
	e.countLabel.SetText(fmt.Sprintf("%d of %d words", len(e.rows), e.editor.Len()))
	e.updateButtons()
}

func (e *ListEditor) updateButtons() {
	deleted := e.editor.Deleted()

	if deleted || strings.TrimSpace(e.wordEntry.Text) == "" {
		e.addBtn.Disable()
	} else {
		e.addBtn.Enable()
	}
	if deleted || e.selected < 0 {
		e.editBtn.Disable()
		e.deleteBtn.Disable()
	} else {
		e.editBtn.Enable()
		e.deleteBtn.Enable()
	}
	if deleted {
		e.saveBtn.Disable()
	}
}

func (e *ListEditor) onSortChanged(value string) {
	mode, err := wordstore.ParseSortMode(value)
	if err != nil {
		return
	}
	e.editor.SetSort(mode)
	e.ctrl.Settings().Sort = mode.String()
	e.refresh()
}

func (e *ListEditor) onAdd() {
	word := strings.TrimSpace(e.wordEntry.Text)
	if word == "" {
		return
	}
	if err := e.editor.Add(word); err != nil {
		e.showError(err)
		return
	}
	e.wordEntry.SetText("")
	e.changed()
}

func (e *ListEditor) onEdit() {
	if e.selected < 0 || e.selected >= len(e.rows) {
		return
	}
	pos := e.positions[e.selected]

	entry := widget.NewEntry()
	entry.SetText(e.rows[e.selected].Word)
	items := []*widget.FormItem{widget.NewFormItem("Word", entry)}
	dialog.ShowForm("Edit word", "Save", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		if err := e.editor.EditAt(pos, entry.Text); err != nil {
			e.showError(err)
			return
		}
		e.changed()
	}, e.window)
}

func (e *ListEditor) onDelete() {
	if e.selected < 0 || e.selected >= len(e.rows) {
		return
	}
	if err := e.editor.DeleteAt(e.positions[e.selected]); err != nil {
		e.showError(err)
		return
	}
	e.changed()
}

func (e *ListEditor) onSaveText() {
	if err := e.editor.Replace(strings.Split(e.textEntry.Text, "\n")); err != nil {
		e.showError(err)
		return
	}
	e.textEntry.SetText(strings.Join(e.editor.Words(), "\n"))
	e.changed()
}

// changed refreshes the rows and the drill copy of the list
func (e *ListEditor) changed() {
	e.refresh()
	if err := e.ctrl.Reload(e.editor.Name()); err != nil {
		e.showError(err)
	}
}

func (e *ListEditor) onStoreEvent(ev wordstore.Event) {
	switch {
	case ev.Kind == wordstore.EventDeleted && e.editor.Deleted():
		e.updateButtons()
		e.window.Close()
	case ev.Kind == wordstore.EventRenamed && ev.NewName == e.editor.Name():
		e.window.SetTitle("Edit " + ev.NewName)
	case ev.Kind == wordstore.EventImported && ev.Name == e.editor.Name():
		if err := e.editor.Reload(); err == nil {
			e.refresh()
		}
	}
}

func (e *ListEditor) showError(err error) {
	if errors.Is(err, wordstore.ErrListDeleted) {
		e.updateButtons()
	}
	dialog.ShowError(err, e.window)
}
