// Package tui provides the Bubble Tea transcript editor.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/cutline/internal/editor"
	"github.com/verte-zerg/cutline/internal/export"
	"github.com/verte-zerg/cutline/internal/ingest"
	"github.com/verte-zerg/cutline/internal/macro"
	"github.com/verte-zerg/cutline/internal/model"
	"github.com/verte-zerg/cutline/internal/undo"
)

const (
	autosaveDelay    = 800 * time.Millisecond
	resourceSave     = "save"
	resourceReload   = "reload"
	minContentWidth  = 20
	editorHeightRows = 4
)

// ProjectStore persists projects edited in the UI.
type ProjectStore interface {
	SaveProject(ctx context.Context, p *model.Project) error
	LoadProject(ctx context.Context, id string) (model.Project, error)
	AppendRegen(ctx context.Context, projectID string, entry model.RegenEntry) error
}

// Config configures the editor UI.
type Config struct {
	Project   model.Project
	Store     ProjectStore
	Editor    editor.Options
	Autosave  bool
	Fillers   []string
	ExportDir string
}

// Model implements the Bubble Tea editor UI.
type Model struct {
	project   model.Project
	store     ProjectStore
	ed        *editor.Editor
	engine    *macro.Engine
	guard     ingest.Guard
	autosave  bool
	exportDir string

	input   textarea.Model
	editing bool

	width  int
	height int
	offset int

	autosaveSeq int
	lastSaved   time.Time
	status      string
	statusErr   bool
}

// NewModel constructs an editor UI over cfg.Project.
func NewModel(cfg Config) *Model {
	ed := editor.New(cfg.Project.Segments, cfg.Project.Speakers, cfg.Editor)
	engine := macro.NewEngine(ed, cfg.Project.TTS)
	if len(cfg.Fillers) > 0 {
		engine.SetFillers(cfg.Fillers)
	}

	input := textarea.New()
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.SetHeight(editorHeightRows)

	m := &Model{
		project:   cfg.Project,
		store:     cfg.Store,
		ed:        ed,
		engine:    engine,
		autosave:  cfg.Autosave,
		exportDir: cfg.ExportDir,
		input:     input,
		lastSaved: cfg.Project.UpdatedAt,
	}
	if segs := ed.Document().Segments; len(segs) > 0 {
		m.report(ed.SelectSegment(segs[0].ID))
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(m.contentWidth() - 2)
		return m, nil
	case tea.KeyMsg:
		if msg.String() == KeyCtrlC {
			return m, m.quit()
		}
		if m.editing {
			return m.handleEditKey(msg)
		}
		return m.handleKey(msg)
	case autosaveTickMsg:
		if msg.seq != m.autosaveSeq || m.ed.Autosave() != model.AutosavePending {
			return m, nil
		}
		return m, m.startSave()
	case savedMsg:
		m.handleSaved(msg)
		return m, nil
	case reloadedMsg:
		m.handleReloaded(msg)
		return m, nil
	case regenLoggedMsg:
		if msg.err != nil {
			m.fail(fmt.Errorf("log regeneration for %s: %w", msg.segmentID, msg.err))
		}
		return m, nil
	case exportedMsg:
		if msg.err != nil {
			m.fail(fmt.Errorf("export: %w", msg.err))
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Exported %d files to %s", len(msg.paths), m.exportDir))
		return m, nil
	}
	if m.editing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// quit flushes pending edits before exiting.
func (m *Model) quit() tea.Cmd {
	if m.store != nil && m.ed.Autosave() == model.AutosavePending {
		return tea.Sequence(m.startSave(), tea.Quit)
	}
	return tea.Quit
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case KeyQuit:
		return m, m.quit()
	case KeyDown, KeyJ:
		m.move(1)
	case KeyUp, KeyK:
		m.move(-1)
	case KeyEdit:
		return m, m.beginEdit()
	case KeyUndo:
		return m, m.mutate(m.ed.UndoSelected())
	case KeyRedo:
		return m, m.mutate(m.ed.RedoSelected())
	case KeySpeaker:
		return m, m.mutate(m.cycleSpeaker())
	case KeyFiller:
		return m, m.mutate(m.runMacro(macro.RemoveFiller))
	case KeyStutter:
		return m, m.mutate(m.runMacro(macro.RemoveStutter))
	case KeyMacros:
		return m, m.mutate(m.applyEnabled())
	case KeyRegenerate:
		return m, m.regenerate()
	case KeyExport:
		return m, m.export()
	case KeySave:
		if m.store == nil {
			return m, nil
		}
		return m, m.startSave()
	case KeyReload:
		return m, m.startReload()
	default:
		for i, k := range macroToggleKeys {
			if key == k && i < len(macro.IDs) {
				id := macro.IDs[i]
				state := "off"
				if m.engine.Toggle(id) {
					state = "on"
				}
				m.setStatus(fmt.Sprintf("%s %s", id, state))
			}
		}
	}
	return m, nil
}

func (m *Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyCancel:
		m.endEdit()
		return m, nil
	case KeyCommit:
		text := strings.Join(strings.Fields(m.input.Value()), " ")
		id := m.ed.Selected()
		m.endEdit()
		seg, ok := m.ed.Segment(id)
		if !ok || seg.Text == text {
			return m, nil
		}
		return m, m.mutate(m.ed.EditSegment(id, text))
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) beginEdit() tea.Cmd {
	seg, ok := m.ed.Segment(m.ed.Selected())
	if !ok || !seg.IsEditable {
		return nil
	}
	m.editing = true
	m.input.SetValue(seg.Text)
	return m.input.Focus()
}

func (m *Model) endEdit() {
	m.editing = false
	m.input.Blur()
	m.input.Reset()
}

// move shifts the selection by delta segments, clamped to the list.
func (m *Model) move(delta int) {
	segs := m.ed.Document().Segments
	if len(segs) == 0 {
		return
	}
	idx := m.selectedIndex() + delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(segs) {
		idx = len(segs) - 1
	}
	m.report(m.ed.SelectSegment(segs[idx].ID))
}

func (m *Model) selectedIndex() int {
	sel := m.ed.Selected()
	for i, seg := range m.ed.Document().Segments {
		if seg.ID == sel {
			return i
		}
	}
	return 0
}

func (m *Model) cycleSpeaker() error {
	seg, ok := m.ed.Segment(m.ed.Selected())
	speakers := m.ed.Speakers()
	if !ok || len(speakers) == 0 {
		return nil
	}
	next := speakers[0]
	for i, sp := range speakers {
		if sp.ID == seg.SpeakerID() {
			next = speakers[(i+1)%len(speakers)]
			break
		}
	}
	return m.ed.AssignSpeaker(seg.ID, next.ID)
}

func (m *Model) runMacro(id string) error {
	segID := m.ed.Selected()
	if segID == "" {
		return nil
	}
	res, err := m.engine.Run(id, segID)
	if err != nil {
		return err
	}
	seg, _ := m.ed.Segment(segID)
	if !res.Changed(seg.Text) {
		m.setStatus(fmt.Sprintf("%s: no changes", id))
		return nil
	}
	return m.engine.Apply(id, segID, res)
}

func (m *Model) applyEnabled() error {
	segID := m.ed.Selected()
	if segID == "" {
		return nil
	}
	changed, err := m.engine.ApplyEnabled(segID)
	if err == nil && !changed {
		m.setStatus("macros: no changes")
	}
	return err
}

// mutate reports err and schedules an autosave when the document changed.
func (m *Model) mutate(err error) tea.Cmd {
	if errors.Is(err, undo.ErrNothingToUndo) || errors.Is(err, undo.ErrNothingToRedo) {
		m.setStatus(err.Error())
		return nil
	}
	if !m.report(err) {
		return nil
	}
	if !m.autosave || m.store == nil || m.ed.Autosave() != model.AutosavePending {
		return nil
	}
	m.autosaveSeq++
	seq := m.autosaveSeq
	return tea.Tick(autosaveDelay, func(time.Time) tea.Msg {
		return autosaveTickMsg{seq: seq}
	})
}

func (m *Model) regenerate() tea.Cmd {
	entry, ok := m.engine.Regenerate(m.ed.Selected())
	if !ok {
		return nil
	}
	m.setStatus(fmt.Sprintf("Regeneration requested for segment %s (%d logged)", entry.SegmentID, m.engine.Log().Len()))
	if m.store == nil || m.project.ID == "" {
		return nil
	}
	store, projectID := m.store, m.project.ID
	return func() tea.Msg {
		err := store.AppendRegen(context.Background(), projectID, entry)
		return regenLoggedMsg{segmentID: entry.SegmentID, err: err}
	}
}

func (m *Model) export() tea.Cmd {
	settings := m.project.Export
	if res := export.ValidateExportSettings(settings); !res.Valid {
		m.fail(errors.New(strings.Join(res.Errors, "; ")))
		return nil
	}
	snap, err := export.BuildSnapshot(m.ed.Segments(), m.ed.Speakers(), settings, time.Now())
	if err != nil {
		m.fail(err)
		return nil
	}
	if m.exportDir == "" {
		m.fail(errors.New("no export directory configured"))
		return nil
	}
	m.setStatus("Exporting…")
	dir := m.exportDir
	return func() tea.Msg {
		paths, err := export.WriteAll(dir, snap)
		return exportedMsg{paths: paths, err: err}
	}
}

// currentProject copies the editor state into a project record that the save
// goroutine can own.
func (m *Model) currentProject() *model.Project {
	p := m.project
	p.Segments = m.ed.Segments()
	p.Speakers = m.ed.Speakers()
	p.TTS = m.engine.TTS()
	return &p
}

func (m *Model) startSave() tea.Cmd {
	tok := m.guard.Begin(resourceSave)
	m.ed.MarkSaving()
	p := m.currentProject()
	store := m.store
	return func() tea.Msg {
		err := store.SaveProject(context.Background(), p)
		return savedMsg{token: tok, projectID: p.ID, at: p.UpdatedAt, err: err}
	}
}

func (m *Model) handleSaved(msg savedMsg) {
	if err := m.guard.Check(resourceSave, msg.token); err != nil {
		logErrf("dropping save result: %v\n", err)
		return
	}
	if msg.err != nil {
		m.ed.MarkPending()
		m.fail(fmt.Errorf("autosave: %w", msg.err))
		return
	}
	m.project.ID = msg.projectID
	m.project.UpdatedAt = msg.at
	if m.project.CreatedAt.IsZero() {
		m.project.CreatedAt = msg.at
	}
	m.lastSaved = msg.at
	// Edits made while the save was in flight leave the document pending.
	if m.ed.Autosave() == model.AutosaveSaving {
		m.ed.MarkSaved()
	}
}

func (m *Model) startReload() tea.Cmd {
	if m.store == nil || m.project.ID == "" {
		return nil
	}
	tok := m.guard.Begin(resourceReload)
	// A reload supersedes any save still in flight.
	m.guard.Begin(resourceSave)
	m.setStatus("Reloading…")
	store, id := m.store, m.project.ID
	return func() tea.Msg {
		p, err := store.LoadProject(context.Background(), id)
		return reloadedMsg{token: tok, project: p, err: err}
	}
}

func (m *Model) handleReloaded(msg reloadedMsg) {
	if err := m.guard.Check(resourceReload, msg.token); err != nil {
		logErrf("dropping reload result: %v\n", err)
		return
	}
	if msg.err != nil {
		m.fail(fmt.Errorf("reload: %w", msg.err))
		return
	}
	m.endEdit()
	m.project = msg.project
	m.lastSaved = msg.project.UpdatedAt
	m.ed.Load(msg.project.Segments, msg.project.Speakers)
	if segs := m.ed.Document().Segments; len(segs) > 0 {
		m.report(m.ed.SelectSegment(segs[0].ID))
	}
	m.offset = 0
	m.setStatus("Reloaded")
}

// report shows err in the footer and reports whether the operation succeeded.
func (m *Model) report(err error) bool {
	if err != nil {
		m.fail(err)
		return false
	}
	return true
}

func (m *Model) fail(err error) {
	logErrf("%v\n", err)
	m.status = err.Error()
	m.statusErr = true
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
