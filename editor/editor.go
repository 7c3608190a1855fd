// Package editor is the Bubble Tea model of jotpad: a list of document
// windows, the menu bar, the status bar and the dialogs around them.
package editor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cornish/jotpad/clipboard"
	"github.com/cornish/jotpad/config"
	"github.com/cornish/jotpad/document"
	"github.com/cornish/jotpad/font"
	"github.com/cornish/jotpad/printing"
	"github.com/cornish/jotpad/syntax"
	"github.com/cornish/jotpad/ui"
)

// Mode represents the editor mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeMenu
	ModeOpen
	ModeSaveAs
	ModeConfirm
	ModeClose
	ModeFont
	ModeMessage
)

// Options wires the editor to its collaborators. Zero fields get defaults.
type Options struct {
	Config      *config.Config
	Keybindings config.Keybindings
	Theme       *config.Theme
	Clipboard   clipboard.Clipboard
	Printer     printing.Printer
	FileIO      document.FileIO
	Logger      *slog.Logger
	ASCII       bool
	Version     string

	// SaveConfig persists settings changed from the menus. It runs on its
	// own goroutine with a copy of the configuration. Nil disables saving.
	SaveConfig func(*config.Config) error
}

// Editor is the main Bubbletea model for the text editor
type Editor struct {
	windows []*window
	current int

	menubar   *ui.MenuBar
	statusbar *ui.StatusBar
	styles    ui.Styles
	box       ui.BoxChars

	mode       Mode
	width      int
	height     int
	lineWrap   bool
	showStatus bool
	quitting   bool // Quit is closing every window in turn
	mouseDown  bool

	// Open dialogs, nil when not shown
	browser *fileBrowser
	saveAs  *saveAsDialog
	confirm *confirmDialog
	closing *closeDialog
	fontDlg *fontDialog
	message *messageDialog

	config     *config.Config
	kb         config.Keybindings
	clip       clipboard.Clipboard
	printer    printing.Printer
	files      document.FileIO
	log        *slog.Logger
	configSave chan *config.Config
	version    string
}

// New creates an editor with one empty window.
func New(opts Options) *Editor {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.Keybindings == nil {
		opts.Keybindings = config.DefaultKeybindings()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Clipboard == nil {
		opts.Clipboard = &clipboard.Memory{}
	}
	if opts.Printer == nil {
		p := printing.NewCommandPrinter(opts.Config.Print.Command, opts.Config.Print.Args)
		p.Logger = opts.Logger
		opts.Printer = p
	}
	if opts.FileIO == nil {
		opts.FileIO = document.OSFileIO{}
	}
	theme := opts.Config.Theme.GetResolved()
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	styles := ui.NewStyles(theme)

	e := &Editor{
		menubar:    ui.NewMenuBar(styles, opts.Keybindings),
		statusbar:  ui.NewStatusBar(styles),
		styles:     styles,
		box:        ui.Box(opts.ASCII),
		width:      80,
		height:     24,
		lineWrap:   opts.Config.Editor.LineWrap,
		showStatus: opts.Config.Editor.StatusBar,
		config:     opts.Config,
		kb:         opts.Keybindings,
		clip:       opts.Clipboard,
		printer:    opts.Printer,
		files:      opts.FileIO,
		log:        opts.Logger,
		version:    opts.Version,
	}
	if opts.SaveConfig != nil {
		e.configSave = make(chan *config.Config, 1)
		go saveConfigLoop(e.configSave, opts.SaveConfig, e.log)
	}
	e.menubar.SetWidth(e.width)
	e.statusbar.SetWidth(e.width)
	e.menubar.SetChecked(ui.ActionLineWrap, e.lineWrap)
	e.menubar.SetChecked(ui.ActionStatusBar, e.showStatus)

	// The first window can always be created.
	e.newWindow()
	return e
}

// newWindow opens an empty window and makes it current.
func (e *Editor) newWindow() (*window, error) {
	if limit := e.config.Editor.MaxWindows; limit > 0 && len(e.windows) >= limit {
		return nil, fmt.Errorf("too many windows: at most %d may be open", limit)
	}
	limit := e.config.Editor.UndoLimit
	if limit <= 0 {
		limit = document.DefaultHistoryLimit
	}

	f := e.config.DefaultFont()
	w := &window{
		viewport:  ui.NewViewport(e.styles.WithFont(f)),
		highlight: syntax.New("", e.styles.Theme.Syntax),
		font:      f,
		anchor:    -1,
	}
	w.highlight.SetEnabled(e.config.Editor.SyntaxHighlight)
	w.viewport.SetWrap(e.lineWrap)
	w.viewport.SetSize(e.width, e.textHeight())
	w.session = document.New(
		document.WithFileIO(e.files),
		document.WithLogger(e.log),
		document.WithHistoryLimit(limit),
		document.WithHistoryListener(e.historyListener(w)),
	)

	e.windows = append(e.windows, w)
	e.activate(len(e.windows) - 1)
	w.session.Logger().Debug("window opened", "windows", len(e.windows))
	return w, nil
}

// historyListener keeps Undo and Redo enabled only while they can act.
func (e *Editor) historyListener(w *window) document.HistoryListener {
	return func(canUndo, canRedo bool) {
		if len(e.windows) > 0 && e.active() == w {
			e.menubar.SetItemDisabled(ui.ActionUndo, !canUndo)
			e.menubar.SetItemDisabled(ui.ActionRedo, !canRedo)
		}
	}
}

func (e *Editor) active() *window { return e.windows[e.current] }

// activate makes window i current and refreshes everything derived from it.
func (e *Editor) activate(i int) {
	e.current = i
	w := e.active()
	e.menubar.SetItemDisabled(ui.ActionUndo, !w.session.CanUndo())
	e.menubar.SetItemDisabled(ui.ActionRedo, !w.session.CanRedo())
	e.updateMenuState()
}

// removeWindow closes w without asking. Closing the last window quits;
// during Quit the next window is asked in turn.
func (e *Editor) removeWindow(w *window) tea.Cmd {
	idx := -1
	for i, other := range e.windows {
		if other == w {
			idx = i
		}
	}
	if idx < 0 {
		return nil
	}
	w.session.Logger().Info("window closed", "file", w.session.Path())
	e.windows = append(e.windows[:idx], e.windows[idx+1:]...)
	if len(e.windows) == 0 {
		e.log.Info("last window closed, exiting")
		return tea.Quit
	}
	if e.current >= len(e.windows) || idx < e.current {
		e.current = max(e.current-1, 0)
	}
	e.activate(e.current)
	if e.quitting {
		return e.closeWindow()
	}
	return nil
}

// closeWindow closes the current window, asking first when unsaved changes
// would be lost.
func (e *Editor) closeWindow() tea.Cmd {
	w := e.active()
	if !w.session.NeedsCloseConfirmation() {
		return e.removeWindow(w)
	}
	e.closing = &closeDialog{w: w}
	e.mode = ModeClose
	return nil
}

// quit closes every window in turn; cancelling any of them stops.
func (e *Editor) quit() tea.Cmd {
	e.quitting = true
	return e.closeWindow()
}

// resolveClose applies the answer to the save-before-close question. Saving
// a document that was never saved goes through Save As first.
func (e *Editor) resolveClose(choice document.CloseChoice) tea.Cmd {
	w := e.closing.w
	e.closing = nil
	e.mode = ModeNormal

	if choice == document.ChoiceSave && w.session.IsNew() {
		return e.showSaveAs(func() tea.Cmd { return e.removeWindow(w) })
	}
	decision, err := w.session.ResolveClose(choice)
	if err != nil {
		e.showError("Save failed", err)
		return nil
	}
	if decision == document.Cancelled {
		e.quitting = false
		e.statusbar.SetMessage("Close cancelled", "info")
		return nil
	}
	return e.removeWindow(w)
}

// Open loads path. A new, blank current window is reused; otherwise the
// file opens in a new window. On failure nothing changes.
func (e *Editor) Open(path string) error {
	path = expandPath(path)
	w := e.active()
	reuse := w.session.IsNew() && w.session.IsBlank()
	prev := e.current
	if !reuse {
		nw, err := e.newWindow()
		if err != nil {
			return err
		}
		w = nw
	}
	if err := w.session.Load(path); err != nil {
		if !reuse {
			e.windows = e.windows[:len(e.windows)-1]
			e.activate(prev)
		}
		return err
	}
	w.caret, w.anchor, w.suggested = 0, -1, ""
	w.viewport.SetWrap(e.lineWrap)
	w.highlight.SetFile(path)
	e.rememberFile(path)
	e.updateMenuState()
	e.statusbar.SetMessage("Opened: "+displayPath(path), "success")
	return nil
}

// StartNew names the empty current window after a file that does not
// exist yet; Save suggests that path.
func (e *Editor) StartNew(path string) {
	e.active().suggested = expandPath(path)
	e.statusbar.SetMessage("New file: "+path, "info")
}

// ShowConfigError reports a configuration that could not be loaded.
func (e *Editor) ShowConfigError(err error) {
	e.log.Warn("config error", "error", err)
	e.showMessage("Configuration Error", true, err.Error(), "Defaults are in use.")
}

// ShowOpenError reports a file that could not be opened at startup. The
// current window stays as it was.
func (e *Editor) ShowOpenError(err error) {
	e.showError("Open", err)
}

func (e *Editor) newDocument() {
	if _, err := e.newWindow(); err != nil {
		e.showError("New", err)
		return
	}
	e.statusbar.SetMessage("New document", "info")
}

// save writes the current document; a document that was never saved goes
// through Save As.
func (e *Editor) save() tea.Cmd {
	w := e.active()
	if w.session.IsNew() {
		return e.showSaveAs(nil)
	}
	if !w.session.IsDirty() {
		e.statusbar.SetMessage("No changes to save", "info")
		return nil
	}
	if err := w.session.Save(); err != nil {
		e.showError("Save failed", err)
		return nil
	}
	e.statusbar.SetMessage("Saved: "+displayPath(w.session.Path()), "success")
	return nil
}

// print sends the document to the printer, confirming first when there is
// nothing to print.
func (e *Editor) print() {
	w := e.active()
	if w.session.IsBlank() {
		e.askConfirm("Print",
			[]string{"The document is empty.", "Print anyway?"},
			func() tea.Cmd {
				e.doPrint(w)
				return nil
			}, nil)
		return
	}
	e.doPrint(w)
}

func (e *Editor) doPrint(w *window) {
	ctx, cancel := context.WithTimeout(context.Background(), printing.DefaultTimeout)
	defer cancel()
	job := printing.Job{Title: w.session.Name(), Text: w.session.Text()}
	if err := e.printer.Print(ctx, job); err != nil {
		w.session.Logger().Warn("print failed", "error", err)
		e.statusbar.SetMessage("Print failed: "+err.Error(), "error")
		return
	}
	e.statusbar.SetMessage("Sent to printer: "+job.Title, "success")
}

func (e *Editor) cut() {
	w := e.active()
	if !w.hasSelection() {
		return
	}
	if err := e.clip.Copy(w.selectedText()); err != nil {
		e.statusbar.SetMessage("Cut failed: "+err.Error(), "error")
		return
	}
	w.deleteSelection()
}

func (e *Editor) copy() {
	w := e.active()
	if !w.hasSelection() {
		return
	}
	if err := e.clip.Copy(w.selectedText()); err != nil {
		e.statusbar.SetMessage("Copy failed: "+err.Error(), "error")
		return
	}
	e.statusbar.SetMessage("Copied", "info")
}

func (e *Editor) paste() {
	text, err := e.clip.Paste()
	if err != nil {
		e.statusbar.SetMessage("Paste failed: "+err.Error(), "error")
		return
	}
	if text == "" {
		return
	}
	e.active().insert(normalizeNewlines(text), false)
}

func (e *Editor) undo() {
	if !e.active().undo() {
		e.statusbar.SetMessage("Nothing to undo", "info")
	}
}

func (e *Editor) redo() {
	if !e.active().redo() {
		e.statusbar.SetMessage("Nothing to redo", "info")
	}
}

// setWindowFont applies f to w's text style.
func (e *Editor) setWindowFont(w *window, f font.Font) {
	w.font = f
	w.viewport.SetStyles(e.styles.WithFont(f))
}

// changeFont applies a font command to the current window.
func (e *Editor) changeFont(f font.Font) {
	e.setWindowFont(e.active(), f)
	e.fontChanged()
}

// fontChanged reports the current window's font and makes it the default
// for new windows.
func (e *Editor) fontChanged() {
	f := e.active().font
	e.statusbar.SetMessage("Font: "+f.String(), "info")
	e.config.Font.Family = f.Family
	e.config.Font.Style = f.Style.String()
	e.config.Font.Size = f.Size
	e.persistConfig()
}

func (e *Editor) toggleLineWrap() {
	e.lineWrap = !e.lineWrap
	for _, w := range e.windows {
		w.viewport.SetWrap(e.lineWrap)
	}
	e.menubar.SetChecked(ui.ActionLineWrap, e.lineWrap)
	if e.lineWrap {
		e.statusbar.SetMessage("Line wrap enabled", "info")
	} else {
		e.statusbar.SetMessage("Line wrap disabled", "info")
	}
	e.config.Editor.LineWrap = e.lineWrap
	e.persistConfig()
}

func (e *Editor) toggleStatusBar() {
	e.showStatus = !e.showStatus
	e.menubar.SetChecked(ui.ActionStatusBar, e.showStatus)
	e.updateViewportSize()
	e.config.Editor.StatusBar = e.showStatus
	e.persistConfig()
}

// switchWindow moves to the next (n=1) or previous (n=-1) window.
func (e *Editor) switchWindow(n int) {
	if len(e.windows) < 2 {
		return
	}
	e.activate((e.current + n + len(e.windows)) % len(e.windows))
	e.statusbar.SetMessage(fmt.Sprintf("Window %d of %d: %s", e.current+1, len(e.windows), e.active().session.Name()), "info")
}

// rememberFile records path in the recent files list.
func (e *Editor) rememberFile(path string) {
	e.config.AddRecentFile(path)
	e.persistConfig()
}

// persistConfig hands a snapshot of the configuration to the saver. A
// snapshot still waiting to be written is replaced by the newer one.
func (e *Editor) persistConfig() {
	if e.configSave == nil {
		return
	}
	snapshot := e.config.Clone()
	select {
	case e.configSave <- snapshot:
	default:
		select {
		case <-e.configSave:
		default:
		}
		e.configSave <- snapshot
	}
}

// saveConfigLoop writes snapshots one at a time, in the order they arrive.
func saveConfigLoop(snapshots <-chan *config.Config, save func(*config.Config) error, log *slog.Logger) {
	for c := range snapshots {
		if err := save(c); err != nil {
			log.Warn("saving config failed", "error", err)
		}
	}
}

// updateMenuState enables menu items that depend on the current window.
func (e *Editor) updateMenuState() {
	w := e.active()
	e.menubar.SetItemDisabled(ui.ActionCut, !w.hasSelection())
	e.menubar.SetItemDisabled(ui.ActionCopy, !w.hasSelection())
	e.menubar.SetItemDisabled(ui.ActionNextWindow, len(e.windows) < 2)
	e.menubar.SetItemDisabled(ui.ActionPrevWindow, len(e.windows) < 2)
}

// executeAction executes a menu action
func (e *Editor) executeAction(action ui.MenuAction) (tea.Model, tea.Cmd) {
	w := e.active()
	if action != ui.ActionUndo && action != ui.ActionRedo {
		w.session.BreakTypingRun()
	}

	var cmd tea.Cmd
	switch action {
	case ui.ActionNew:
		e.newDocument()
	case ui.ActionOpen:
		cmd = e.showOpen()
	case ui.ActionSave:
		cmd = e.save()
	case ui.ActionSaveAs:
		cmd = e.showSaveAs(nil)
	case ui.ActionPrint:
		e.print()
	case ui.ActionClose:
		cmd = e.closeWindow()
	case ui.ActionExit:
		cmd = e.quit()
	case ui.ActionUndo:
		e.undo()
	case ui.ActionRedo:
		e.redo()
	case ui.ActionCut:
		e.cut()
	case ui.ActionCopy:
		e.copy()
	case ui.ActionPaste:
		e.paste()
	case ui.ActionDelete:
		w.deleteForward()
	case ui.ActionSelectAll:
		w.selectAll()
	case ui.ActionLineWrap:
		e.toggleLineWrap()
	case ui.ActionSetFont:
		cmd = e.showFontDialog()
	case ui.ActionFontIncrease:
		e.changeFont(w.font.Increase())
	case ui.ActionFontDecrease:
		e.changeFont(w.font.Decrease())
	case ui.ActionFontReset:
		e.changeFont(w.font.Reset())
	case ui.ActionStatusBar:
		e.toggleStatusBar()
	case ui.ActionNextWindow:
		e.switchWindow(1)
	case ui.ActionPrevWindow:
		e.switchWindow(-1)
	case ui.ActionHelp:
		e.showHelp()
	case ui.ActionAbout:
		e.showAbout()
	}
	e.afterChange()
	return e, cmd
}

// afterChange refreshes derived state once an input has been handled.
func (e *Editor) afterChange() {
	if len(e.windows) == 0 {
		return
	}
	e.updateMenuState()
	e.active().ensureVisible()
}

// Init implements tea.Model
func (e *Editor) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (e *Editor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		e.width = msg.Width
		e.height = msg.Height
		e.menubar.SetWidth(msg.Width)
		e.statusbar.SetWidth(msg.Width)
		e.updateViewportSize()
		return e, nil

	case tea.KeyMsg:
		return e.handleKey(msg)

	case tea.MouseMsg:
		return e.handleMouse(msg)
	}

	// Cursor blink and similar messages belong to the focused input.
	var cmd tea.Cmd
	switch {
	case e.mode == ModeSaveAs && e.saveAs != nil:
		e.saveAs.input, cmd = e.saveAs.input.Update(msg)
	case e.mode == ModeFont && e.fontDlg != nil:
		e.fontDlg.size, cmd = e.fontDlg.size.Update(msg)
	}
	return e, cmd
}

// textHeight is the number of rows left for text.
func (e *Editor) textHeight() int {
	h := e.height - 1
	if e.showStatus {
		h--
	}
	return max(h, 1)
}

// updateViewportSize resizes every window's text area.
func (e *Editor) updateViewportSize() {
	for _, w := range e.windows {
		w.viewport.SetSize(e.width, e.textHeight())
	}
	if len(e.windows) > 0 {
		e.active().ensureVisible()
	}
}

// title is the terminal title for the current window.
func (e *Editor) title() string {
	return e.active().title() + " - jotpad"
}

// View implements tea.Model
func (e *Editor) View() string {
	if len(e.windows) == 0 {
		return ""
	}
	w := e.active()
	var sb strings.Builder

	fmt.Fprintf(&sb, "\033]0;%s\007", e.title())

	sb.WriteString(e.menubar.View())
	sb.WriteString("\n")

	content := w.render()
	if e.menubar.IsOpen() {
		lines, offset := e.menubar.RenderDropdown()
		rows := strings.Split(content, "\n")
		for i, l := range lines {
			if i < len(rows) {
				rows[i] = overlayLineAt(l, rows[i], offset)
			}
		}
		content = strings.Join(rows, "\n")
	}
	if db := e.dialog(); db != nil {
		content = db.Overlay(content, e.width, e.textHeight())
	}
	sb.WriteString(content)

	if e.showStatus {
		lines := w.buf().Lines()
		line, col := w.lineCol(lines)
		e.statusbar.SetPosition(line+1, col+1)
		e.statusbar.SetModified(w.session.IsDirty())
		e.statusbar.SetFont(w.font.String())
		e.statusbar.SetCharset(w.session.Charset().Name)
		label := w.session.Name()
		if len(e.windows) > 1 {
			label = fmt.Sprintf("%s [%d/%d]", label, e.current+1, len(e.windows))
		}
		e.statusbar.SetWindow(label)
		sb.WriteString("\n")
		sb.WriteString(e.statusbar.View())
	}
	return sb.String()
}

// dialog renders the dialog of the current mode, if any.
func (e *Editor) dialog() *DialogBuilder {
	switch {
	case e.mode == ModeOpen && e.browser != nil:
		return e.browserDialog()
	case e.mode == ModeSaveAs && e.saveAs != nil:
		return e.saveAsDialog()
	case e.mode == ModeConfirm && e.confirm != nil:
		return e.confirmDialog()
	case e.mode == ModeClose && e.closing != nil:
		return e.closeDialog()
	case e.mode == ModeFont && e.fontDlg != nil:
		return e.fontDialog()
	case e.mode == ModeMessage && e.message != nil:
		return e.messageDialog()
	}
	return nil
}

// Windows returns the number of open windows.
func (e *Editor) Windows() int { return len(e.windows) }

// Mode returns the current input mode.
func (e *Editor) Mode() Mode { return e.mode }

// Session returns the current window's document.
func (e *Editor) Session() *document.Session { return e.active().session }

// Font returns the current window's font.
func (e *Editor) Font() font.Font { return e.active().font }

// displayPath shortens path for messages.
func displayPath(path string) string {
	if home := homeDir(); home != "" {
		if rel, err := filepath.Rel(home, path); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.Join("~", rel)
		}
	}
	return path
}
