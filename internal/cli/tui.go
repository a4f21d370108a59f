package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cardpath/cardpath/pkg/graph"
	"github.com/cardpath/cardpath/pkg/queue"
)

var (
	stepCurrentStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	stepDoneStyle    = lipgloss.NewStyle().Foreground(colorGreen)
	stepSkippedStyle = lipgloss.NewStyle().Foreground(colorDim).Strikethrough(true)
	stepPendingStyle = lipgloss.NewStyle().Foreground(colorWhite)
	stepMetaStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

type stepStatus int

const (
	stepPending stepStatus = iota
	stepDone
	stepSkipped
)

// queueStep is one card in the interactive walkthrough.
type queueStep struct {
	id       string
	title    string
	prereq   bool
	requires []string
	status   stepStatus
}

// queueModel is the bubbletea model for stepping through a study queue in
// order: prerequisites first, then the due cards.
type queueModel struct {
	steps  []queueStep
	cursor int
	quit   bool
}

// newQueueModel flattens a queue result into ordered steps.
func newQueueModel(g *graph.DependencyGraph, result *queue.Result) queueModel {
	var steps []queueStep
	add := func(ids []string, prereq bool) {
		for _, id := range ids {
			steps = append(steps, queueStep{
				id:       id,
				title:    cardTitle(g, id),
				prereq:   prereq,
				requires: g.Prerequisites(id),
			})
		}
	}
	add(result.PrereqQueue, true)
	add(result.MainQueue, false)
	return queueModel{steps: steps}
}

func (m queueModel) Init() tea.Cmd {
	return nil
}

func (m queueModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		m.quit = true
		return m, tea.Quit
	case "enter", " ":
		if m.cursor < len(m.steps) {
			m.steps[m.cursor].status = stepDone
			m.cursor++
		}
	case "s":
		if m.cursor < len(m.steps) {
			m.steps[m.cursor].status = stepSkipped
			m.cursor++
		}
	case "u":
		if m.cursor > 0 {
			m.cursor--
			m.steps[m.cursor].status = stepPending
		}
	}
	if m.cursor >= len(m.steps) {
		return m, tea.Quit
	}
	return m, nil
}

func (m queueModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Study queue"))
	b.WriteString("\n")
	b.WriteString(stepMetaStyle.Render("⏎ done  s skip  u undo  q quit"))
	b.WriteString("\n\n")

	for i, step := range m.steps {
		marker := "  "
		style := stepPendingStyle
		switch {
		case i == m.cursor:
			marker = "▸ "
			style = stepCurrentStyle
		case step.status == stepDone:
			marker = iconSuccess + " "
			style = stepDoneStyle
		case step.status == stepSkipped:
			marker = "- "
			style = stepSkippedStyle
		}

		label := step.title
		if label == "" {
			label = step.id
		}
		b.WriteString(marker + style.Render(label))
		if step.prereq {
			b.WriteString(" " + stepMetaStyle.Render("prerequisite"))
		}
		if i == m.cursor && len(step.requires) > 0 {
			b.WriteString("\n    " + stepMetaStyle.Render("requires: "+strings.Join(step.requires, ", ")))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(stepMetaStyle.Render(fmt.Sprintf("%d of %d reviewed", m.reviewed(), len(m.steps))))
	b.WriteString("\n")
	return b.String()
}

func (m queueModel) reviewed() int {
	n := 0
	for _, step := range m.steps {
		if step.status == stepDone {
			n++
		}
	}
	return n
}

// runQueueTUI steps through the queue interactively and prints a summary
// when the session ends.
func runQueueTUI(g *graph.DependencyGraph, result *queue.Result) error {
	model := newQueueModel(g, result)
	if len(model.steps) == 0 {
		printInfo("Nothing is due")
		return nil
	}

	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(queueModel); ok {
		printSuccess("Reviewed %d of %d cards", m.reviewed(), len(m.steps))
	}
	return nil
}
