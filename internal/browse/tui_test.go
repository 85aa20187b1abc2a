package browse

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amishk599/joblens/internal/model"
)

func sampleResult() model.SearchResult {
	return model.SearchResult{
		Keywords: "go",
		Sources:  []string{"indeed", "remoteok"},
		Jobs: []model.Job{
			{ID: "indeed-1", Title: "Go Developer", Company: "Acme", Location: "Austin, TX", URL: "https://www.indeed.com/viewjob?jk=1"},
			{ID: "remoteok-1", Title: "Backend Engineer", Company: "Globex", Location: "Worldwide", Remote: true, Description: "Build APIs"},
			{ID: "remoteok-2", Title: "SRE", Company: "Initech", Location: "Remote", Remote: true},
		},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m browseModel, msgs ...tea.Msg) browseModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(browseModel)
	}
	return m
}

func TestBrowse_SplitsRemoteJobs(t *testing.T) {
	m := newBrowseModel(sampleResult())
	if len(m.allJobs) != 3 || len(m.remoteJobs) != 2 {
		t.Fatalf("all=%d remote=%d, want 3/2", len(m.allJobs), len(m.remoteJobs))
	}
}

func TestBrowse_CursorClampsAndOpensDetail(t *testing.T) {
	m := send(newBrowseModel(sampleResult()), tea.WindowSizeMsg{Width: 120, Height: 40})

	m = send(m, key("down"), key("down"), key("down"), key("down"))
	if m.leftCursor != 2 {
		t.Fatalf("leftCursor = %d, want clamped to 2", m.leftCursor)
	}
	m = send(m, key("up"))
	if m.leftCursor != 1 {
		t.Fatalf("leftCursor = %d, want 1", m.leftCursor)
	}

	m = send(m, key("enter"))
	if m.view != viewDetail {
		t.Fatal("expected detail view after enter")
	}
	if m.detailJob.ID != "remoteok-1" {
		t.Errorf("detail job = %s, want remoteok-1", m.detailJob.ID)
	}
	if !strings.Contains(m.renderDetail(), "press r") {
		t.Error("expected description hint in detail view")
	}

	m = send(m, key("r"))
	if !m.showDescription || !strings.Contains(m.renderDetail(), "Build APIs") {
		t.Error("expected description after pressing r")
	}

	m = send(m, key("esc"))
	if m.view != viewList {
		t.Error("expected list view after esc")
	}
}

func TestBrowse_TabSwitchesToRemotePane(t *testing.T) {
	m := send(newBrowseModel(sampleResult()), tea.WindowSizeMsg{Width: 120, Height: 40})
	m = send(m, key("tab"), key("down"), key("enter"))

	if m.detailJob.ID != "remoteok-2" {
		t.Errorf("detail job = %s, want remoteok-2", m.detailJob.ID)
	}
}

func TestBrowse_OpenURL(t *testing.T) {
	var opened string
	m := newBrowseModel(sampleResult())
	m.openURL = func(u string) { opened = u }
	m = send(m, tea.WindowSizeMsg{Width: 120, Height: 40}, key("enter"), key("o"))

	if opened != "https://www.indeed.com/viewjob?jk=1" {
		t.Errorf("opened %q", opened)
	}
}

func TestBrowse_EmptyResult(t *testing.T) {
	m := send(newBrowseModel(model.SearchResult{Keywords: "nothing"}), tea.WindowSizeMsg{Width: 80, Height: 24})
	m = send(m, key("enter"))
	if m.view != viewList {
		t.Error("enter on empty list must not open detail")
	}
	if !strings.Contains(m.View(), "(no jobs)") {
		t.Error("expected empty placeholder")
	}
}

func TestWordWrap(t *testing.T) {
	got := wordWrap("one two three four", 9)
	if got != "one two\nthree\nfour" {
		t.Errorf("wordWrap = %q", got)
	}
	if wordWrap("   ", 10) != "" {
		t.Error("expected empty output for blank text")
	}
}

func TestPicker_ChoosesAndQuits(t *testing.T) {
	var m tea.Model = pickerModel{items: []string{"data", "design"}, chosen: -1}
	m, _ = m.Update(key("down"))
	m, _ = m.Update(key("enter"))
	if got := m.(pickerModel).chosen; got != 1 {
		t.Errorf("chosen = %d, want 1", got)
	}

	m = pickerModel{items: []string{"data"}, chosen: -1}
	m, _ = m.Update(key("q"))
	if got := m.(pickerModel).chosen; got != -2 {
		t.Errorf("chosen = %d, want -2 after quit", got)
	}
}

func TestLoader_DoneAndCancel(t *testing.T) {
	want := model.SearchResult{Keywords: "go", Count: 1}
	m := newLoader(context.Background(), "go", func(context.Context) (model.SearchResult, error) {
		return want, nil
	})

	msg := m.doSearch()()
	next, _ := m.Update(msg)
	lm := next.(loaderModel)
	if !lm.done || lm.err != nil || lm.result.Count != 1 {
		t.Errorf("unexpected loader state %+v", lm)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	lm = next.(loaderModel)
	if !errors.Is(lm.err, ErrCancelled) {
		t.Errorf("err = %v, want ErrCancelled", lm.err)
	}
}
