package gui

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const maxLogMessages = 500

// LogViewer shows warnings and progress output inside the window
type LogViewer struct {
	widget.BaseWidget

	text   *widget.Label
	scroll *container.Scroll

	mu       sync.Mutex
	messages []string
	now      func() time.Time

	// Restored by StopCapture
	stdout *os.File
	stderr *os.File
}

// NewLogViewer creates a new log viewer widget
func NewLogViewer() *LogViewer {
	v := &LogViewer{now: time.Now}

	v.text = widget.NewLabel("")
	v.text.Wrapping = fyne.TextWrapWord
	v.text.TextStyle = fyne.TextStyle{Monospace: true}
	v.scroll = container.NewVScroll(v.text)

	v.ExtendBaseWidget(v)
	return v
}

// CreateRenderer implements fyne.Widget
func (v *LogViewer) CreateRenderer() fyne.WidgetRenderer {
	clear := widget.NewButton("Clear", v.Clear)
	return widget.NewSimpleRenderer(container.NewBorder(
		nil,
		container.NewHBox(clear),
		nil, nil,
		v.scroll,
	))
}

// StartCapture mirrors stdout, stderr and the log package into the viewer
func (v *LogViewer) StartCapture() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.stdout != nil {
		return
	}

	v.stdout, v.stderr = os.Stdout, os.Stderr
	if w, err := v.redirect(v.stdout); err == nil {
		os.Stdout = w
	}
	if w, err := v.redirect(v.stderr); err == nil {
		os.Stderr = w
		log.SetOutput(w)
	}
}

// redirect returns the write end of a pipe whose lines go to original and
// to the viewer
func (v *LogViewer) redirect(original *os.File) (*os.File, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	go v.copyLines(r, original)
	return w, nil
}

func (v *LogViewer) copyLines(r io.Reader, original io.Writer) {
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			original.Write(buf[:n])
			for _, line := range strings.Split(strings.TrimRight(string(buf[:n]), "\n"), "\n") {
				if line != "" {
					v.AddMessage(line)
				}
			}
		}
		if err != nil {
			return
		}
	}
}

// StopCapture restores stdout and stderr
func (v *LogViewer) StopCapture() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.stdout == nil {
		return
	}

	os.Stdout, os.Stderr = v.stdout, v.stderr
	log.SetOutput(os.Stderr)
	v.stdout, v.stderr = nil, nil
}

// AddMessage appends a timestamped message, dropping the oldest beyond
// maxLogMessages
func (v *LogViewer) AddMessage(message string) {
	v.mu.Lock()
	v.messages = append(v.messages, fmt.Sprintf("[%s] %s", v.now().Format("15:04:05"), message))
	if len(v.messages) > maxLogMessages {
		v.messages = v.messages[len(v.messages)-maxLogMessages:]
	}
	text := strings.Join(v.messages, "\n")
	v.mu.Unlock()

	fyne.Do(func() {
		v.text.SetText(text)
		v.scroll.ScrollToBottom()
	})
}

// Messages returns a copy of the messages, oldest first
func (v *LogViewer) Messages() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.messages...)
}

// Clear clears all log messages
func (v *LogViewer) Clear() {
	v.mu.Lock()
	v.messages = nil
	v.mu.Unlock()

	fyne.Do(func() {
		v.text.SetText("")
	})
}

// Log adds a formatted message
func (v *LogViewer) Log(format string, args ...interface{}) {
	v.AddMessage(fmt.Sprintf(format, args...))
}
