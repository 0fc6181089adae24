package ui

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2/widget"
)

// DefaultMaxLogMessages is how many status messages are kept for paging.
const DefaultMaxLogMessages = 100

type logEntry struct {
	at      time.Time
	text    string
	isError bool
}

func (e logEntry) String() string {
	prefix := ""
	if e.isError {
		prefix = "Error: "
	}
	return fmt.Sprintf("%s %s%s", e.at.Format("15:04:05"), prefix, e.text)
}

// LogUIManager keeps recent user-facing messages and pages through them in
// the status bar. Adding a message always shows the newest one.
type LogUIManager struct {
	entries []logEntry
	shown   int // index into entries, -1 when empty
	limit   int
	now     func() time.Time

	label    *widget.Label
	olderBtn *widget.Button
	newerBtn *widget.Button
}

func NewLogUIManager(label *widget.Label, olderBtn, newerBtn *widget.Button, limit int) *LogUIManager {
	if limit <= 0 {
		limit = DefaultMaxLogMessages
	}
	return &LogUIManager{
		shown:    -1,
		limit:    limit,
		now:      time.Now,
		label:    label,
		olderBtn: olderBtn,
		newerBtn: newerBtn,
	}
}

// AddLogMessage records an informational message.
func (lm *LogUIManager) AddLogMessage(message string) { lm.add(message, false) }

// AddErrorMessage records a message shown with an error prefix.
func (lm *LogUIManager) AddErrorMessage(message string) { lm.add(message, true) }

func (lm *LogUIManager) add(text string, isError bool) {
	lm.entries = append(lm.entries, logEntry{at: lm.now(), text: text, isError: isError})
	if over := len(lm.entries) - lm.limit; over > 0 {
		lm.entries = append(lm.entries[:0], lm.entries[over:]...)
	}
	lm.shown = len(lm.entries) - 1
	lm.UpdateLogDisplay()
}

// Messages returns the kept message texts, oldest first.
func (lm *LogUIManager) Messages() []string {
	out := make([]string, len(lm.entries))
	for i, e := range lm.entries {
		out[i] = e.text
	}
	return out
}

// Current returns the text on display, or "" when there is none.
func (lm *LogUIManager) Current() string {
	if lm.shown < 0 || lm.shown >= len(lm.entries) {
		return ""
	}
	return lm.entries[lm.shown].text
}

func (lm *LogUIManager) UpdateLogDisplay() {
	if lm.label == nil || lm.olderBtn == nil || lm.newerBtn == nil {
		return
	}
	n := len(lm.entries)
	if n == 0 {
		lm.label.SetText("")
		lm.olderBtn.Disable()
		lm.newerBtn.Disable()
		return
	}
	lm.label.SetText(fmt.Sprintf("[%d/%d] %s", lm.shown+1, n, lm.entries[lm.shown]))
	setEnabled(lm.olderBtn, lm.shown > 0)
	setEnabled(lm.newerBtn, lm.shown < n-1)
}

func setEnabled(b *widget.Button, enabled bool) {
	if enabled {
		b.Enable()
	} else {
		b.Disable()
	}
}

func (lm *LogUIManager) ShowPreviousLogMessage() { lm.step(-1) }

func (lm *LogUIManager) ShowNextLogMessage() { lm.step(1) }

func (lm *LogUIManager) step(delta int) {
	next := lm.shown + delta
	if next < 0 || next >= len(lm.entries) {
		return
	}
	lm.shown = next
	lm.UpdateLogDisplay()
}
