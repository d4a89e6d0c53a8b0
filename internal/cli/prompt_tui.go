package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"emoji-transfer/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	promptTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	promptMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	promptErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	promptPanelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

type tokenModel struct {
	label     string
	input     textinput.Model
	validate  func(string) error
	value     string
	errMsg    string
	cancelled bool
}

func newTokenModel(label string, validate func(string) error) tokenModel {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "paste token"
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '*'
	input.CharLimit = 512
	input.Width = 60
	input.Focus()
	return tokenModel{label: label, input: input, validate: validate}
}

func (m tokenModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m tokenModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.input.Width = clampInt(msg.Width-8, 20, 120)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			v := strings.TrimSpace(m.input.Value())
			if err := m.validate(v); err != nil {
				m.errMsg = err.Error()
				return m, nil
			}
			m.value = v
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.errMsg = ""
	return m, cmd
}

func (m tokenModel) View() string {
	var b strings.Builder
	b.WriteString(promptTitleStyle.Render(m.label))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(promptErrorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	b.WriteString(promptMutedStyle.Render("enter: confirm | esc: cancel"))
	b.WriteString("\n")
	return b.String()
}

func runTokenProgram(in io.Reader, out io.Writer, label string, validate func(string) error) (string, error) {
	p := tea.NewProgram(newTokenModel(label, validate), tea.WithInput(in), tea.WithOutput(out))
	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}
	fm, ok := finalModel.(tokenModel)
	if !ok {
		return "", errors.New("unexpected prompt state")
	}
	if fm.cancelled {
		return "", errPromptCancelled
	}
	return fm.value, nil
}

// questionModel answers a single y/n question. Enter takes the default.
type questionModel struct {
	question  string
	def       bool
	answer    bool
	decided   bool
	cancelled bool
}

func newQuestionModel(question string, def bool) questionModel {
	return questionModel{question: question, def: def}
}

func (m questionModel) Init() tea.Cmd {
	return nil
}

func (m questionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "esc":
		m.cancelled = true
		return m, tea.Quit
	case "y", "Y":
		m.decided, m.answer = true, true
		return m, tea.Quit
	case "n", "N":
		m.decided, m.answer = true, false
		return m, tea.Quit
	case "enter":
		m.decided, m.answer = true, m.def
		return m, tea.Quit
	}
	return m, nil
}

func (m questionModel) View() string {
	hint := "enter: no"
	if m.def {
		hint = "enter: yes"
	}
	return promptTitleStyle.Render(m.question) + "\n" +
		promptMutedStyle.Render("y/n | "+hint+" | esc: cancel") + "\n"
}

func runQuestionProgram(in io.Reader, out io.Writer, question string, def bool) (bool, error) {
	p := tea.NewProgram(newQuestionModel(question, def), tea.WithInput(in), tea.WithOutput(out))
	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	fm, ok := finalModel.(questionModel)
	if !ok {
		return false, errors.New("unexpected prompt state")
	}
	if fm.cancelled {
		return false, errPromptCancelled
	}
	return fm.answer, nil
}

type previewModel struct {
	view      viewport.Model
	count     int
	skipped   int
	ready     bool
	content   string
	decided   bool
	proceed   bool
	cancelled bool
}

func newPreviewModel(descriptors []model.EmojiDescriptor, skipped []model.SkippedEntry) previewModel {
	content := renderPreviewText(descriptors, skipped)
	return previewModel{
		count:   len(descriptors),
		skipped: len(skipped),
		content: content,
	}
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := maxInt(msg.Height-6, 3)
		width := maxInt(msg.Width-4, 20)
		if !m.ready {
			m.view = viewport.New(width, height)
			m.view.SetContent(m.content)
			m.ready = true
		} else {
			m.view.Width = width
			m.view.Height = height
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "y", "Y", "enter":
			m.decided, m.proceed = true, true
			return m, tea.Quit
		case "n", "N":
			m.decided, m.proceed = true, false
			return m, tea.Quit
		}
	}
	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

func (m previewModel) View() string {
	header := promptTitleStyle.Render(fmt.Sprintf("Preview: %d emoji, %d skipped", m.count, m.skipped))
	hints := promptMutedStyle.Render("up/down/pgup/pgdn: scroll | y/enter: transfer | n: exit")
	if !m.ready {
		return lipgloss.JoinVertical(lipgloss.Left, header, hints)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, promptPanelStyle.Render(m.view.View()), hints)
}

func runPreviewProgram(in io.Reader, out io.Writer, descriptors []model.EmojiDescriptor, skipped []model.SkippedEntry) (bool, error) {
	p := tea.NewProgram(newPreviewModel(descriptors, skipped), tea.WithInput(in), tea.WithOutput(out), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	fm, ok := finalModel.(previewModel)
	if !ok {
		return false, errors.New("unexpected preview state")
	}
	if fm.cancelled {
		return false, nil
	}
	return fm.decided && fm.proceed, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
