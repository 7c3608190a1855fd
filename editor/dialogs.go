package editor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/cornish/jotpad/config"
	"github.com/cornish/jotpad/document"
	"github.com/cornish/jotpad/font"
)

// describeError turns a file error into a sentence for a dialog.
func describeError(err error) string {
	var fe *document.FileError
	if !errors.As(err, &fe) {
		return err.Error()
	}
	name := filepath.Base(fe.Path)
	switch fe.Kind {
	case document.KindNotFound:
		return name + " does not exist"
	case document.KindPermission:
		return "permission denied: " + name
	case document.KindDecode:
		return name + " uses an unsupported character set"
	}
	return fe.Err.Error()
}

// messageDialog shows text until any key is pressed.
type messageDialog struct {
	title   string
	lines   []string
	isError bool
}

func (e *Editor) showMessage(title string, isError bool, lines ...string) {
	e.message = &messageDialog{title: title, lines: lines, isError: isError}
	e.mode = ModeMessage
}

// showError reports err in a dialog and stops any close or quit in progress.
func (e *Editor) showError(title string, err error) {
	e.quitting = false
	e.log.Error(title, "error", err)
	e.showMessage(title, true, describeError(err))
}

func (e *Editor) messageDialog() *DialogBuilder {
	width := 30
	for _, l := range e.message.lines {
		width = max(width, len([]rune(l))+6)
	}
	db := e.NewDialogBuilder(width)
	db.AddTitleBorder(e.message.title)
	db.AddEmptyLine()
	for _, l := range e.message.lines {
		if e.message.isError {
			db.AddErrorText("  " + l)
		} else {
			db.AddText("  " + l)
		}
	}
	db.AddEmptyLine()
	db.AddButtons([]string{"OK"}, 0)
	db.AddBottomBorder()
	return db
}

func (e *Editor) showHelp() {
	lines := make([]string, 0, len(config.AllActions())+6)
	for _, action := range config.AllActions() {
		b, ok := e.kb[action]
		if !ok || b.Primary == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%-22s %s", config.ActionNames[action], b.DisplayString()))
	}
	lines = append(lines,
		"",
		fmt.Sprintf("%-22s %s", "Open a menu", "Alt+letter, F10"),
		fmt.Sprintf("%-22s %s", "Select text", "Shift+arrows, drag"),
		fmt.Sprintf("%-22s %s", "Move by word", "Ctrl+Left/Right"),
	)
	e.showMessage("Keyboard Shortcuts", false, lines...)
}

func (e *Editor) showAbout() {
	e.showMessage("About jotpad", false,
		"jotpad "+e.version,
		"A small notepad for the terminal.",
		"",
		"Config: "+configLocation(),
	)
}

func configLocation() string {
	path, err := config.ConfigPath()
	if err != nil {
		return "unavailable"
	}
	return path
}

// confirmDialog asks a yes/no question.
type confirmDialog struct {
	title string
	lines []string
	yes   func() tea.Cmd
	no    func() tea.Cmd
	focus int // 0 yes, 1 no
}

func (e *Editor) askConfirm(title string, lines []string, yes, no func() tea.Cmd) {
	e.confirm = &confirmDialog{title: title, lines: lines, yes: yes, no: no}
	e.mode = ModeConfirm
}

func (e *Editor) answerConfirm(yes bool) tea.Cmd {
	d := e.confirm
	e.confirm = nil
	e.mode = ModeNormal
	next := d.no
	if yes {
		next = d.yes
	}
	if next == nil {
		return nil
	}
	return next()
}

func (e *Editor) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := e.confirm
	switch strings.ToLower(msg.String()) {
	case "y":
		return e, e.answerConfirm(true)
	case "n", "esc":
		return e, e.answerConfirm(false)
	case "left", "right", "tab", "shift+tab":
		d.focus = 1 - d.focus
	case "enter", " ":
		return e, e.answerConfirm(d.focus == 0)
	}
	return e, nil
}

func (e *Editor) confirmDialog() *DialogBuilder {
	d := e.confirm
	width := 36
	for _, l := range d.lines {
		width = max(width, len([]rune(l))+6)
	}
	db := e.NewDialogBuilder(width)
	db.AddTitleBorder(d.title)
	db.AddEmptyLine()
	for _, l := range d.lines {
		db.AddText("  " + l)
	}
	db.AddEmptyLine()
	db.AddButtons([]string{"Yes", "No"}, d.focus)
	db.AddBottomBorder()
	return db
}

// closeDialog is the save-before-close question for one window.
type closeDialog struct {
	w     *window
	focus int
}

var closeChoices = []struct {
	label  string
	choice document.CloseChoice
}{
	{"Save", document.ChoiceSave},
	{"Don't Save", document.ChoiceDiscard},
	{"Cancel", document.ChoiceCancel},
}

func (e *Editor) handleCloseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := e.closing
	switch strings.ToLower(msg.String()) {
	case "s", "y":
		return e, e.resolveClose(document.ChoiceSave)
	case "d", "n":
		return e, e.resolveClose(document.ChoiceDiscard)
	case "c", "esc":
		return e, e.resolveClose(document.ChoiceCancel)
	case "left", "shift+tab":
		d.focus = (d.focus + len(closeChoices) - 1) % len(closeChoices)
	case "right", "tab":
		d.focus = (d.focus + 1) % len(closeChoices)
	case "enter", " ":
		return e, e.resolveClose(closeChoices[d.focus].choice)
	}
	return e, nil
}

func (e *Editor) closeDialog() *DialogBuilder {
	name := e.closing.w.session.Name()
	line := fmt.Sprintf("Do you want to save changes to %s?", name)
	db := e.NewDialogBuilder(max(len([]rune(line))+6, 44))
	db.AddTitleBorder("jotpad")
	db.AddEmptyLine()
	db.AddText("  " + line)
	db.AddEmptyLine()
	labels := make([]string, len(closeChoices))
	for i, c := range closeChoices {
		labels[i] = c.label
	}
	db.AddButtons(labels, e.closing.focus)
	db.AddBottomBorder()
	return db
}

// saveAsDialog asks for a destination path.
type saveAsDialog struct {
	input textinput.Model
	err   string
	then  func() tea.Cmd // after a successful save
}

func (e *Editor) showSaveAs(then func() tea.Cmd) tea.Cmd {
	w := e.active()
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "file name"
	ti.CharLimit = 4096
	switch {
	case !w.session.IsNew():
		ti.SetValue(w.session.Path())
	case w.suggested != "":
		ti.SetValue(w.suggested)
	default:
		if dir := workingDir(); dir != "" {
			ti.SetValue(dir + string(filepath.Separator))
		}
	}
	ti.CursorEnd()
	e.saveAs = &saveAsDialog{input: ti, then: then}
	e.mode = ModeSaveAs
	return e.saveAs.input.Focus()
}

func (e *Editor) cancelSaveAs() {
	e.saveAs = nil
	e.mode = ModeNormal
	e.quitting = false
	e.statusbar.SetMessage("Cancelled", "info")
}

func (e *Editor) handleSaveAsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		e.cancelSaveAs()
		return e, nil
	case "enter":
		return e, e.submitSaveAs()
	}
	var cmd tea.Cmd
	e.saveAs.input, cmd = e.saveAs.input.Update(msg)
	e.saveAs.err = ""
	return e, cmd
}

// expandPath resolves ~ and makes path absolute.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home := homeDir(); home != "" {
			path = filepath.Join(home, path[1:])
		}
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// submitSaveAs saves to the entered path. Replacing an existing file other
// than the document's own needs confirmation; declining returns to the
// path prompt.
func (e *Editor) submitSaveAs() tea.Cmd {
	raw := strings.TrimSpace(e.saveAs.input.Value())
	if raw == "" {
		return e.finishSaveAs("")
	}
	path := expandPath(raw)
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			e.saveAs.err = filepath.Base(path) + " is a folder"
			return nil
		}
		if path != e.active().session.Path() {
			e.mode = ModeNormal
			e.askConfirm("Confirm Save As",
				[]string{filepath.Base(path) + " already exists.", "Do you want to replace it?"},
				func() tea.Cmd { return e.finishSaveAs(path) },
				func() tea.Cmd {
					e.mode = ModeSaveAs
					return nil
				})
			return nil
		}
	}
	return e.finishSaveAs(path)
}

func (e *Editor) finishSaveAs(path string) tea.Cmd {
	w, d := e.active(), e.saveAs
	err := w.session.SaveAs(path)
	switch {
	case errors.Is(err, document.ErrCancelled):
		e.cancelSaveAs()
		return nil
	case err != nil:
		d.err = describeError(err)
		e.mode = ModeSaveAs
		return nil
	}
	e.saveAs = nil
	e.mode = ModeNormal
	w.suggested = ""
	w.highlight.SetFile(path)
	e.rememberFile(path)
	e.statusbar.SetMessage("Saved: "+displayPath(path), "success")
	if d.then != nil {
		return d.then()
	}
	return nil
}

func (e *Editor) saveAsDialog() *DialogBuilder {
	d := e.saveAs
	db := e.NewDialogBuilder(64)
	inner := db.InnerWidth()
	db.AddTitleBorder("Save As")
	db.AddEmptyLine()
	db.AddText("  File name:")
	d.input.Width = inner - 6
	field := e.styles.DialogInput.Width(inner - 4).Render(d.input.View())
	db.AddRaw("  " + field + "  ")
	db.AddEmptyLine()
	if d.err != "" {
		db.AddErrorText("  " + d.err)
	} else {
		db.AddText("  Encoding: " + e.active().session.Charset().Name)
	}
	db.AddCenteredText("Enter: save  Esc: cancel")
	db.AddBottomBorder()
	return db
}

// fontDialog picks family, style and size with a live preview on the
// active window.
type fontDialog struct {
	original font.Font
	families []string
	family   int
	style    int
	size     textinput.Model
	focus    int // 0 family, 1 style, 2 size
}

const (
	fontFocusFamily = iota
	fontFocusStyle
	fontFocusSize
	fontFocusCount
)

func (e *Editor) showFontDialog() tea.Cmd {
	w := e.active()
	d := &fontDialog{original: w.font, families: e.config.FontFamilies()}
	for i, f := range d.families {
		if strings.EqualFold(f, w.font.Family) {
			d.family = i
		}
	}
	if d.families[d.family] != w.font.Family {
		d.families = append([]string{w.font.Family}, d.families...)
		d.family = 0
	}
	for i, s := range font.Styles {
		if s == w.font.Style {
			d.style = i
		}
	}
	d.size = textinput.New()
	d.size.Prompt = ""
	d.size.CharLimit = 4
	d.size.SetValue(strconv.Itoa(w.font.Size))
	e.fontDlg = d
	e.mode = ModeFont
	return nil
}

// preview applies the dialog's current choice to the active window. Size
// text that is not a positive number keeps the last accepted size.
func (e *Editor) preview() {
	d, w := e.fontDlg, e.active()
	f := w.font.WithFamily(d.families[d.family]).WithStyle(font.Styles[d.style]).WithSizeText(d.size.Value())
	e.setWindowFont(w, f)
}

func (e *Editor) handleFontKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := e.fontDlg
	switch msg.String() {
	case "esc":
		e.setWindowFont(e.active(), d.original)
		e.fontDlg = nil
		e.mode = ModeNormal
		return e, nil
	case "enter":
		e.preview()
		e.fontDlg = nil
		e.mode = ModeNormal
		e.fontChanged()
		return e, nil
	case "tab":
		return e, e.focusFontField((d.focus + 1) % fontFocusCount)
	case "shift+tab":
		return e, e.focusFontField((d.focus + fontFocusCount - 1) % fontFocusCount)
	}

	switch d.focus {
	case fontFocusFamily:
		d.family = stepIndex(d.family, len(d.families), msg.String())
	case fontFocusStyle:
		d.style = stepIndex(d.style, len(font.Styles), msg.String())
	case fontFocusSize:
		var cmd tea.Cmd
		d.size, cmd = d.size.Update(msg)
		e.preview()
		return e, cmd
	}
	e.preview()
	return e, nil
}

func (e *Editor) focusFontField(focus int) tea.Cmd {
	d := e.fontDlg
	d.focus = focus
	if focus == fontFocusSize {
		d.size.CursorEnd()
		return d.size.Focus()
	}
	d.size.Blur()
	return nil
}

// stepIndex moves a list selection for up, down, home and end.
func stepIndex(i, n int, key string) int {
	switch key {
	case "up":
		return max(i-1, 0)
	case "down":
		return min(i+1, n-1)
	case "home", "pgup":
		return 0
	case "end", "pgdown":
		return n - 1
	}
	return i
}

const fontListRows = 6

func (e *Editor) fontDialog() *DialogBuilder {
	d, w := e.fontDlg, e.active()
	db := e.NewDialogBuilder(56)
	inner := db.InnerWidth()
	colWidth := (inner - 4) / 2

	label := func(text string, focus int) string {
		if d.focus == focus {
			return "> " + text
		}
		return "  " + text
	}
	cell := func(text string, selected bool) string {
		text = " " + text
		text += strings.Repeat(" ", max(colWidth-runewidth.StringWidth(text), 0))
		if selected {
			return db.colors.selected + text + db.colors.base
		}
		return text
	}

	db.AddTitleBorder("Font")
	db.AddText(label(fmt.Sprintf("%-*s", colWidth, "Family:"), fontFocusFamily) + label("Style:", fontFocusStyle))

	famStart := max(0, min(d.family-fontListRows/2, len(d.families)-fontListRows))
	for i := 0; i < fontListRows; i++ {
		left := strings.Repeat(" ", colWidth)
		if fi := famStart + i; fi < len(d.families) {
			left = cell(truncateTo(d.families[fi], colWidth-2), fi == d.family)
		}
		right := strings.Repeat(" ", colWidth)
		if i < len(font.Styles) {
			right = cell(font.Styles[i].String(), i == d.style)
		}
		db.AddRaw("  " + left + "  " + right + strings.Repeat(" ", inner-4-2*colWidth))
	}
	db.AddEmptyLine()

	d.size.Width = 6
	db.AddRaw(ansiPad(label("Size: ", fontFocusSize)+e.styles.DialogInput.Width(8).Render(d.size.View()), inner))
	db.AddSeparator()

	sample := "AaBbYyZz 0123"
	preview := e.styles.DialogText.Bold(w.font.Style.IsBold()).Italic(w.font.Style.IsItalic()).Render(sample)
	db.AddRaw(ansiPad("  "+preview, inner))
	db.AddText("  " + w.font.String())
	db.AddCenteredText("Tab: next field  Enter: OK  Esc: cancel")
	db.AddBottomBorder()
	return db
}

func truncateTo(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}
