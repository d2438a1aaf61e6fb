package gui

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/wordloop/internal/drill"
	"codeberg.org/snonux/wordloop/internal/settings"
)

// maxIntervalSeconds is the upper end of the interval slider
const maxIntervalSeconds = 120

// SettingsView edits interval, word count, fair sampling and theme
type SettingsView struct {
	widget.BaseWidget

	ctrl *drill.Controller
	app  *Application

	interval      *widget.Slider
	intervalLabel *widget.Label
	count         *widget.Slider
	countLabel    *widget.Label
	fair          *widget.Check
	theme         *widget.Select

	form *widget.Form
}

// NewSettingsView creates the view with the current settings
func NewSettingsView(ctrl *drill.Controller, app *Application) *SettingsView {
	v := &SettingsView{ctrl: ctrl, app: app}
	s := ctrl.Settings()

	v.intervalLabel = widget.NewLabel("")
	v.interval = widget.NewSlider(0, maxIntervalSeconds)
	v.interval.Step = 1
	v.interval.SetValue(s.Interval.Seconds())
	v.updateIntervalLabel(s.Interval)
	v.interval.OnChanged = func(val float64) {
		v.updateIntervalLabel(time.Duration(val) * time.Second)
	}
	v.interval.OnChangeEnded = func(val float64) {
		v.ctrl.SetInterval(time.Duration(val) * time.Second)
		v.app.settingsChanged()
	}

	v.countLabel = widget.NewLabel(fmt.Sprintf("%d", s.Count))
	v.count = widget.NewSlider(1, settings.MaxCount)
	v.count.Step = 1
	v.count.SetValue(float64(s.Count))
	v.count.OnChanged = func(val float64) {
		v.countLabel.SetText(fmt.Sprintf("%d", int(val)))
	}
	v.count.OnChangeEnded = func(val float64) {
		v.ctrl.SetCount(int(val))
		v.app.settingsChanged()
	}

	v.fair = widget.NewCheck("Same weight for every list", nil)
	v.fair.SetChecked(s.Fair)
	v.fair.OnChanged = func(on bool) {
		v.ctrl.SetFair(on)
		v.app.settingsChanged()
	}

	themes := make([]string, len(settings.Themes))
	for i, t := range settings.Themes {
		themes[i] = string(t)
	}
	v.theme = widget.NewSelect(themes, nil)
	v.theme.SetSelected(string(s.Theme))
	v.theme.OnChanged = func(value string) {
		t := settings.ParseTheme(value)
		v.ctrl.Settings().Theme = t
		applyTheme(v.app.app, t)
		v.app.settingsChanged()
	}

	v.form = widget.NewForm(
		widget.NewFormItem("Interval", container.NewBorder(nil, nil, nil, v.intervalLabel, v.interval)),
		widget.NewFormItem("Words", container.NewBorder(nil, nil, nil, v.countLabel, v.count)),
		widget.NewFormItem("Sampling", v.fair),
		widget.NewFormItem("Theme", v.theme),
	)
	v.form.Items[0].HintText = "0 draws new words only on request"

	v.ExtendBaseWidget(v)
	return v
}

// CreateRenderer implements fyne.Widget
func (v *SettingsView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewVBox(v.form))
}

func (v *SettingsView) updateIntervalLabel(d time.Duration) {
	if d == 0 {
		v.intervalLabel.SetText("manual")
		return
	}
	v.intervalLabel.SetText(d.String())
}
