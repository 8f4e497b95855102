package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TrialMsg reports that done of total trials have finished.
type TrialMsg struct {
	Done, Total int
}

// FinishedMsg ends the progress view.
type FinishedMsg struct {
	Err error
}

type tickMsg time.Time

// Progress is a Bubble Tea model following an ensemble run.
type Progress struct {
	title   string
	done    int
	total   int
	frame   int
	started time.Time
	err     error
	quit    bool
}

func NewProgress(title string, total int) Progress {
	return Progress{title: title, total: total, started: time.Now()}
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (p Progress) Init() tea.Cmd { return tick() }

func (p Progress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TrialMsg:
		p.done, p.total = msg.Done, msg.Total
		return p, nil
	case FinishedMsg:
		p.err = msg.Err
		p.quit = true
		return p, tea.Quit
	case tickMsg:
		p.frame++
		return p, tick()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			p.quit = true
			return p, tea.Quit
		}
	}
	return p, nil
}

func (p Progress) Fraction() float64 {
	if p.total == 0 {
		return 0
	}
	return float64(p.done) / float64(p.total)
}

func (p Progress) View() string {
	var b strings.Builder
	status := AnimatedSpinner(p.frame)
	switch {
	case p.quit && p.err != nil:
		status = StatusFailed.Render("✗")
	case p.quit:
		status = StatusDone.Render("✓")
	}
	fmt.Fprintf(&b, "%s %s  %s %d/%d trials  %s\n",
		status,
		Title.Render(p.title),
		ProgressBar(p.Fraction(), 30),
		p.done, p.total,
		Subtle.Render(time.Since(p.started).Round(100*time.Millisecond).String()),
	)
	if p.err != nil {
		b.WriteString(StatusFailed.Render(p.err.Error()) + "\n")
	}
	return b.String()
}
