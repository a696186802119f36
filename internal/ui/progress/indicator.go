package progress

import (
	"fmt"
	"os"
	"sync"
	"time"

	"charm.land/bubbles/v2/progress"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/raphi011/ketra/internal/ui"
	"github.com/raphi011/ketra/internal/ui/styles"
)

// update changes what the indicator shows. Zero fields keep their value.
type update struct {
	message string
	total   int
	done    int
}

// Indicator shows a spinner with a message and, once a total is known,
// a progress bar. It does nothing when stderr is not a terminal.
type Indicator struct {
	program  *tea.Program
	updateCh chan update
	finished chan struct{}

	mu      sync.Mutex
	running bool
	state   update
}

type indicatorModel struct {
	spinner  spinner.Model
	bar      progress.Model
	state    update
	updateCh chan update
}

func (m indicatorModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForUpdate())
}

func (m indicatorModel) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		u, ok := <-m.updateCh
		if !ok {
			return tea.Quit()
		}
		return u
	}
}

func (m indicatorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case update:
		m.state = merge(m.state, msg)
		return m, m.waitForUpdate()
	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m indicatorModel) View() tea.View {
	if m.state.message == "" {
		return tea.NewView("")
	}
	if m.state.total <= 0 {
		return tea.NewView(fmt.Sprintf("%s %s", m.spinner.View(), m.state.message))
	}

	percent := float64(m.state.done) / float64(m.state.total)
	return tea.NewView(fmt.Sprintf("%s %s %d/%d %s",
		m.spinner.View(), m.bar.ViewAs(percent), m.state.done, m.state.total, m.state.message))
}

func merge(cur, u update) update {
	if u.message != "" {
		cur.message = u.message
	}
	if u.total > 0 {
		cur.total = u.total
	}
	if u.done > 0 {
		cur.done = u.done
	}
	return cur
}

// New creates an indicator showing message.
func New(message string) *Indicator {
	return &Indicator{
		updateCh: make(chan update, 16),
		finished: make(chan struct{}),
		state:    update{message: message},
	}
}

// Start begins rendering. No-op when stderr is not a terminal.
func (ind *Indicator) Start() {
	ind.mu.Lock()
	defer ind.mu.Unlock()

	if ind.running || !ui.IsTerminal(os.Stderr) {
		return
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	model := indicatorModel{
		spinner: sp,
		bar: progress.New(
			progress.WithWidth(30),
			progress.WithoutPercentage(),
			progress.WithColors(styles.Primary, styles.Accent),
		),
		state:    ind.state,
		updateCh: ind.updateCh,
	}

	ind.program = tea.NewProgram(model,
		tea.WithoutSignalHandler(),
		tea.WithInput(nil),
		tea.WithOutput(os.Stderr),
		tea.WithColorProfile(ui.Profile()),
	)
	ind.running = true

	go func() {
		_, _ = ind.program.Run()
		close(ind.finished)
	}()
}

// SetMessage replaces the message.
func (ind *Indicator) SetMessage(message string) {
	ind.send(update{message: message})
}

// SetProgress switches to a progress bar showing done of total.
func (ind *Indicator) SetProgress(done, total int) {
	ind.send(update{done: done, total: total})
}

func (ind *Indicator) send(u update) {
	ind.mu.Lock()
	defer ind.mu.Unlock()

	if !ind.running {
		ind.state = merge(ind.state, u)
		return
	}

	// Drop updates rather than block the operation; close happens under mu
	select {
	case ind.updateCh <- u:
	default:
	}
}

// State returns the message, done and total last set while not running.
func (ind *Indicator) State() (message string, done, total int) {
	ind.mu.Lock()
	defer ind.mu.Unlock()
	return ind.state.message, ind.state.done, ind.state.total
}

// Stop stops rendering and clears the line.
func (ind *Indicator) Stop() {
	ind.mu.Lock()
	if !ind.running {
		ind.mu.Unlock()
		return
	}
	ind.running = false
	close(ind.updateCh)
	ind.mu.Unlock()

	ind.program.Quit()

	select {
	case <-ind.finished:
	case <-time.After(500 * time.Millisecond):
	}

	fmt.Fprint(os.Stderr, "\r\033[K")
}
