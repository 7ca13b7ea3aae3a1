package create

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/messages"
	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
)

// mockDocumentService implements driving.DocumentService for create view tests.
type mockDocumentService struct {
	drafts []domain.DocumentDraft
	id     string
	err    *domain.DocumentError
}

func (m *mockDocumentService) Create(_ context.Context, draft domain.DocumentDraft) domain.Outcome[string] {
	m.drafts = append(m.drafts, draft)
	if m.err != nil {
		return domain.Failure[string](m.err)
	}
	return domain.Success(m.id)
}

func (m *mockDocumentService) SearchByQuery(context.Context, string) domain.Outcome[domain.SearchResult] {
	return domain.Success(domain.SearchResult(nil))
}

func (m *mockDocumentService) GetByID(context.Context, string) domain.Outcome[domain.Document] {
	return domain.Success(domain.Document{})
}

func (m *mockDocumentService) ListAll(context.Context) domain.Outcome[[]domain.Document] {
	return domain.Success([]domain.Document(nil))
}

func newReadyView(docs *mockDocumentService) *View {
	v := NewView(nil, nil, docs)
	v.SetDimensions(100, 40)
	return v
}

func typeText(v *View, text string) {
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func fillForm(v *View) {
	typeText(v, "Wudu")
	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(v, "Ibn Baz")
	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(v, "purification")
	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(v, "Does sleep break wudu?")
	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(v, "Deep sleep does.")
}

func TestView_FieldNavigation(t *testing.T) {
	v := newReadyView(&mockDocumentService{})
	assert.Equal(t, "title", v.Focused())

	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "author", v.Focused())

	v.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	v.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, "answer", v.Focused())

	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "title", v.Focused())

	v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "author", v.Focused())
}

func TestView_Submit_Success(t *testing.T) {
	docs := &mockDocumentService{id: "new-1"}
	v := newReadyView(docs)
	fillForm(v)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	assert.True(t, v.Submitting())

	msg := cmd()
	assert.Equal(t, messages.DocumentCreated{ID: "new-1"}, msg)
	require.Len(t, docs.drafts, 1)
	assert.Equal(t, domain.DocumentDraft{
		Title:    "Wudu",
		Author:   "Ibn Baz",
		Topic:    "purification",
		Question: "Does sleep break wudu?",
		Answer:   "Deep sleep does.",
	}, docs.drafts[0])

	v.Update(msg)
	assert.False(t, v.Submitting())
	assert.Equal(t, domain.DocumentDraft{}, v.Draft())
	assert.Contains(t, v.View(), "Created fatwa new-1")
}

func TestView_Submit_ValidationMessageShownVerbatim(t *testing.T) {
	docs := &mockDocumentService{err: domain.NewValidationError("question is required", 400)}
	v := newReadyView(docs)
	typeText(v, "Only a title")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	v.Update(cmd())

	require.Error(t, v.Err())
	assert.True(t, domain.IsValidationError(v.Err()))
	assert.Contains(t, v.View(), "question is required")
	// Input survives a rejected submission.
	assert.Equal(t, "Only a title", v.Draft().Title)
}

func TestView_Submit_IgnoredWhileInFlight(t *testing.T) {
	v := newReadyView(&mockDocumentService{id: "x"})

	_, first := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	_, second := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.NotNil(t, first)
	assert.Nil(t, second)
}

func TestView_Submit_NoService(t *testing.T) {
	v := NewView(nil, nil, nil)
	v.SetDimensions(80, 24)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	v.Update(cmd())

	assert.ErrorIs(t, v.Err(), ErrNoDocumentService)
}

func TestView_EscGoesToMenu(t *testing.T) {
	v := newReadyView(&mockDocumentService{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_Reset(t *testing.T) {
	v := newReadyView(&mockDocumentService{})
	fillForm(v)

	v.Reset()

	assert.Equal(t, domain.DocumentDraft{}, v.Draft())
	assert.Equal(t, "title", v.Focused())
	assert.NoError(t, v.Err())
}
