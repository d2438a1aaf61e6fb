package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/wordloop/internal/sampler"
)

const wordTextSize = 32

// WordDisplay shows the words of the current sample
type WordDisplay struct {
	widget.BaseWidget

	container *fyne.Container
	message   *widget.Label
	tiles     []*WordTile

	onCopy    func(string)
	onHold    func()
	onRelease func()
}

// NewWordDisplay creates the display. onHold and onRelease bracket a press
// on a word, onCopy receives the pressed word.
func NewWordDisplay(onCopy func(string), onHold, onRelease func()) *WordDisplay {
	d := &WordDisplay{
		onCopy:    onCopy,
		onHold:    onHold,
		onRelease: onRelease,
	}

	d.message = widget.NewLabel("No words yet")
	d.message.Alignment = fyne.TextAlignCenter
	d.container = container.NewVBox(d.message)

	d.ExtendBaseWidget(d)
	return d
}

// CreateRenderer implements fyne.Widget
func (d *WordDisplay) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewCenter(d.container))
}

// SetSample replaces the shown words
func (d *WordDisplay) SetSample(s sampler.Sample) {
	if len(s) == 0 {
		d.SetMessage("No words yet")
		return
	}

	d.tiles = d.tiles[:0]
	objects := make([]fyne.CanvasObject, 0, len(s))
	for _, e := range s {
		tile := NewWordTile(e, d.onCopy, d.onHold, d.onRelease)
		d.tiles = append(d.tiles, tile)
		objects = append(objects, tile)
	}
	d.container.Objects = objects
	d.container.Refresh()
}

// SetMessage shows a hint instead of words
func (d *WordDisplay) SetMessage(text string) {
	d.tiles = d.tiles[:0]
	d.message.SetText(text)
	d.container.Objects = []fyne.CanvasObject{d.message}
	d.container.Refresh()
}

// Words returns the words on display
func (d *WordDisplay) Words() []string {
	words := make([]string, len(d.tiles))
	for i, t := range d.tiles {
		words[i] = t.entry.Word
	}
	return words
}

// WordTile is one shown word with its list name. Pressing it holds the
// timer until release, tapping copies the word.
type WordTile struct {
	widget.BaseWidget

	entry sampler.Entry
	word  *canvas.Text
	list  *canvas.Text

	onCopy    func(string)
	onHold    func()
	onRelease func()
	held      bool
}

// NewWordTile creates a tile for e
func NewWordTile(e sampler.Entry, onCopy func(string), onHold, onRelease func()) *WordTile {
	t := &WordTile{
		entry:     e,
		onCopy:    onCopy,
		onHold:    onHold,
		onRelease: onRelease,
	}

	t.word = canvas.NewText(e.Word, theme.Color(theme.ColorNameForeground))
	t.word.TextSize = wordTextSize
	t.word.TextStyle = fyne.TextStyle{Bold: true}
	t.word.Alignment = fyne.TextAlignCenter

	t.list = canvas.NewText(e.List, theme.Color(theme.ColorNamePlaceHolder))
	t.list.TextSize = theme.CaptionTextSize()
	t.list.Alignment = fyne.TextAlignCenter

	t.ExtendBaseWidget(t)
	return t
}

// CreateRenderer implements fyne.Widget
func (t *WordTile) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewVBox(t.word, t.list))
}

// Refresh picks up theme changes
func (t *WordTile) Refresh() {
	t.word.Color = theme.Color(theme.ColorNameForeground)
	t.list.Color = theme.Color(theme.ColorNamePlaceHolder)
	t.BaseWidget.Refresh()
}

// Tapped implements fyne.Tappable
func (t *WordTile) Tapped(*fyne.PointEvent) {
	if t.onCopy != nil {
		t.onCopy(t.entry.Word)
	}
}

// MouseDown implements desktop.Mouseable
func (t *WordTile) MouseDown(*desktop.MouseEvent) {
	if t.held {
		return
	}
	t.held = true
	t.word.Color = theme.Color(theme.ColorNamePrimary)
	t.word.Refresh()
	if t.onHold != nil {
		t.onHold()
	}
}

// MouseUp implements desktop.Mouseable
func (t *WordTile) MouseUp(*desktop.MouseEvent) {
	if !t.held {
		return
	}
	t.held = false
	t.word.Color = theme.Color(theme.ColorNameForeground)
	t.word.Refresh()
	if t.onRelease != nil {
		t.onRelease()
	}
}

// SwipeArea turns horizontal drags over its content into navigation
type SwipeArea struct {
	widget.BaseWidget

	content fyne.CanvasObject
	bg      *canvas.Rectangle
	onLeft  func()
	onRight func()
	dx      float32
}

// swipeThreshold is the drag distance that counts as a swipe
const swipeThreshold = 60

// NewSwipeArea wraps content. onLeft runs after a swipe to the left,
// onRight after one to the right.
func NewSwipeArea(content fyne.CanvasObject, onLeft, onRight func()) *SwipeArea {
	s := &SwipeArea{
		content: content,
		bg:      canvas.NewRectangle(color.Transparent),
		onLeft:  onLeft,
		onRight: onRight,
	}
	s.ExtendBaseWidget(s)
	return s
}

// CreateRenderer implements fyne.Widget
func (s *SwipeArea) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(s.bg, s.content))
}

// Dragged implements fyne.Draggable
func (s *SwipeArea) Dragged(ev *fyne.DragEvent) {
	s.dx += ev.Dragged.DX
}

// DragEnd implements fyne.Draggable
func (s *SwipeArea) DragEnd() {
	dx := s.dx
	s.dx = 0

	switch {
	case dx <= -swipeThreshold && s.onLeft != nil:
		s.onLeft()
	case dx >= swipeThreshold && s.onRight != nil:
		s.onRight()
	}
}
