package gui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/wordloop/internal/drill"
	"codeberg.org/snonux/wordloop/internal/sampler"
)

// ListsView shows every list with its selection state and range
type ListsView struct {
	widget.BaseWidget

	ctrl *drill.Controller
	app  *Application

	rows      *fyne.Container
	newEntry  *CustomEntry
	addBtn    *ttwidget.Button
	rowByName map[string]*listRow
}

type listRow struct {
	name   string
	check  *widget.Check
	lower  *widget.Slider
	upper  *widget.Slider
	info   *widget.Label
	words  int
	object fyne.CanvasObject
}

// NewListsView creates the view and loads the lists
func NewListsView(ctrl *drill.Controller, app *Application) *ListsView {
	v := &ListsView{
		ctrl:      ctrl,
		app:       app,
		rows:      container.NewVBox(),
		rowByName: make(map[string]*listRow),
	}

	v.newEntry = NewCustomEntry()
	v.newEntry.SetPlaceHolder("New list name...")
	v.newEntry.OnSubmitted = func(string) { v.onCreate() }
	v.newEntry.SetOnEscape(func() { v.newEntry.SetText("") })
	v.addBtn = ttwidget.NewButtonWithIcon("", theme.ContentAddIcon(), v.onCreate)
	v.addBtn.SetToolTip("Create an empty list")
	v.addBtn.Disable()
	v.newEntry.OnChanged = func(text string) {
		// Empty names cannot be created
		if strings.TrimSpace(text) == "" {
			v.addBtn.Disable()
		} else {
			v.addBtn.Enable()
		}
	}

	v.ExtendBaseWidget(v)
	v.Reload()
	return v
}

// CreateRenderer implements fyne.Widget
func (v *ListsView) CreateRenderer() fyne.WidgetRenderer {
	create := container.NewBorder(nil, nil, nil, v.addBtn, v.newEntry)
	return widget.NewSimpleRenderer(container.NewBorder(
		nil,
		create,
		nil, nil,
		container.NewVScroll(v.rows),
	))
}

// Reload rebuilds the rows from the store
func (v *ListsView) Reload() {
	names, err := v.ctrl.Store().Names()
	if err != nil {
		v.rows.Objects = []fyne.CanvasObject{widget.NewLabel(fmt.Sprintf("Failed to read lists: %v", err))}
		v.rows.Refresh()
		return
	}

	v.rowByName = make(map[string]*listRow, len(names))
	objects := make([]fyne.CanvasObject, 0, len(names))
	for _, name := range names {
		row := v.newRow(name)
		v.rowByName[name] = row
		objects = append(objects, row.object)
	}
	if len(objects) == 0 {
		objects = append(objects, widget.NewLabel("No lists, import one or create a new list below."))
	}
	v.rows.Objects = objects
	v.rows.Refresh()
}

func (v *ListsView) newRow(name string) *listRow {
	words, err := v.ctrl.Store().Load(name)
	if err != nil {
		v.app.logViewer.Log("Warning: failed to read %s: %v", name, err)
	}

	row := &listRow{name: name, words: len(words)}
	row.info = widget.NewLabel("")

	row.check = widget.NewCheck(name, nil)
	row.check.SetChecked(v.ctrl.IsSelected(name))
	row.check.OnChanged = func(on bool) { v.onToggle(row, on) }

	r := v.ctrl.Range(name)
	row.lower = widget.NewSlider(0, 1)
	row.lower.Step = 0.01
	row.lower.SetValue(r.Lower)
	row.upper = widget.NewSlider(0, 1)
	row.upper.Step = 0.01
	row.upper.SetValue(r.Upper)

	row.lower.OnChanged = func(val float64) {
		v.setRange(row, v.ctrl.SetLower(name, val))
	}
	row.upper.OnChanged = func(val float64) {
		v.setRange(row, v.ctrl.SetUpper(name, val))
	}
	row.lower.OnChangeEnded = func(float64) { v.app.selectionChanged() }
	row.upper.OnChangeEnded = func(float64) { v.app.selectionChanged() }

	editBtn := ttwidget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() { v.app.openEditor(name) })
	editBtn.SetToolTip("Edit list")
	deleteBtn := ttwidget.NewButtonWithIcon("", theme.DeleteIcon(), func() { v.app.confirmDelete(name) })
	deleteBtn.SetToolTip("Delete list")
	deleteBtn.Importance = widget.DangerImportance

	v.updateInfo(row, r)

	header := container.NewBorder(nil, nil, row.check, container.NewHBox(editBtn, deleteBtn), row.info)
	sliders := container.New(layout.NewFormLayout(),
		widget.NewLabel("From"), row.lower,
		widget.NewLabel("To"), row.upper,
	)
	row.object = container.NewVBox(header, sliders, widget.NewSeparator())
	return row
}

// setRange moves both sliders to the clamped range without feedback loops
func (v *ListsView) setRange(row *listRow, r sampler.Range) {
	if row.lower.Value != r.Lower {
		row.lower.Value = r.Lower
		row.lower.Refresh()
	}
	if row.upper.Value != r.Upper {
		row.upper.Value = r.Upper
		row.upper.Refresh()
	}
	v.updateInfo(row, r)
}

func (v *ListsView) updateInfo(row *listRow, r sampler.Range) {
	start, end := r.Bounds(row.words)
	if end == start {
		row.info.SetText(fmt.Sprintf("%d words, range is empty", row.words))
		return
	}
	row.info.SetText(fmt.Sprintf("%d words, drilling %d-%d (%d)", row.words, start+1, end, end-start))
}

func (v *ListsView) onToggle(row *listRow, on bool) {
	if on {
		if err := v.ctrl.Select(row.name); err != nil {
			row.check.SetChecked(false)
			v.app.showError(err)
			return
		}
	} else {
		v.ctrl.Deselect(row.name)
	}
	v.app.selectionChanged()
}

func (v *ListsView) onCreate() {
	name := strings.TrimSpace(v.newEntry.Text)
	if name == "" {
		return
	}
	if err := v.ctrl.Store().Create(name); err != nil {
		v.app.showError(err)
		return
	}
	v.newEntry.SetText("")
	v.app.openEditor(name)
}
