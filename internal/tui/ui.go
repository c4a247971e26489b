package tui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/Paintersrp/reap/internal/engine"
	"github.com/Paintersrp/reap/internal/host"
)

const (
	tableTitle   = "Processes"
	statusHeight = 1
)

// Option configures UI behaviour.
type Option func(*UI)

// WithQueryDebounce adjusts the delay between keystrokes and query
// execution.
func WithQueryDebounce(d time.Duration) Option {
	return func(u *UI) {
		if d > 0 {
			u.debounce = d
		}
	}
}

type resultRow struct {
	id       string
	pid      int32
	title    string
	subtitle string
	tails    []string
}

// UI is an interactive development host: a search field over a live result
// table. The visible rows are the host's updatable results, so the tracker's
// reconciliation drives the table between queries.
type UI struct {
	app    *tview.Application
	input  *tview.InputField
	table  *tview.Table
	status *tview.TextView
	events chan engine.Event

	query  *engine.Query
	killer *engine.Killer

	debounce time.Duration

	mu         sync.Mutex
	generation int64
	order      []string
	byID       map[string]*resultRow

	wg       sync.WaitGroup
	stopOnce sync.Once
	done     chan struct{}

	cancelMu sync.Mutex
	cancel   context.CancelFunc
	runCtx   context.Context
}

// New constructs the UI widgets. Attach must be called with the engine
// handles before Run; the tracker needs the UI as its host, so construction
// happens in two steps.
func New(opts ...Option) *UI {
	app := tview.NewApplication()

	input := tview.NewInputField().SetLabel(" search: ")
	table := tview.NewTable().SetFixed(1, 0).SetSelectable(true, false)
	table.SetBorder(true).SetTitle(tableTitle)
	status := tview.NewTextView().SetDynamicColors(true)

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(input, 1, 0, true).
		AddItem(table, 0, 1, false).
		AddItem(status, statusHeight, 0, false)

	ui := &UI{
		app:      app,
		input:    input,
		table:    table,
		status:   status,
		events:   make(chan engine.Event, 256),
		debounce: 150 * time.Millisecond,
		byID:     make(map[string]*resultRow),
		done:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(ui)
	}

	input.SetChangedFunc(func(text string) {
		ui.scheduleQuery(text)
	})
	input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter || key == tcell.KeyTab || key == tcell.KeyDown {
			app.SetFocus(table)
		}
	})

	table.SetSelectedFunc(func(row, column int) {
		ui.killSelected(row)
	})
	table.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEscape, tcell.KeyTab:
			app.SetFocus(input)
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'q', 'Q':
				go ui.Stop()
				return nil
			case 'k', 'K':
				row, _ := table.GetSelection()
				ui.killSelected(row)
				return nil
			}
		}
		return event
	})

	app.SetRoot(flex, true)

	ui.renderHeader()
	return ui
}

// Attach wires the engine handles into the UI.
func (u *UI) Attach(query *engine.Query, killer *engine.Killer) {
	u.query = query
	u.killer = killer
}

// EventSink exposes the channel where engine events should be delivered.
func (u *UI) EventSink() chan<- engine.Event {
	return u.events
}

// Done is closed once the UI has fully stopped.
func (u *UI) Done() <-chan struct{} {
	return u.done
}

// Run starts the tview application and processes engine events until Stop is
// invoked or the context is cancelled.
func (u *UI) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)

	u.cancelMu.Lock()
	u.cancel = cancel
	u.runCtx = ctx
	u.cancelMu.Unlock()

	u.wg.Add(1)
	go func() {
		defer u.wg.Done()
		u.consumeEvents(ctx)
	}()

	go func() {
		<-ctx.Done()
		u.Stop()
	}()

	// Populate the table before the first keystroke.
	u.runQuery(ctx, "")

	err := u.app.Run()

	u.cancelMu.Lock()
	cancel = u.cancel
	u.cancel = nil
	u.cancelMu.Unlock()
	if cancel != nil {
		cancel()
	}

	u.wg.Wait()
	u.Stop()

	return err
}

// Stop terminates the application loop and releases resources.
func (u *UI) Stop() {
	u.stopOnce.Do(func() {
		u.cancelMu.Lock()
		cancel := u.cancel
		u.cancel = nil
		u.cancelMu.Unlock()
		if cancel != nil {
			cancel()
		}
		u.app.Stop()
		close(u.done)
	})
}

func (u *UI) consumeEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-u.events:
			if !ok {
				return
			}
			u.applyEvent(evt)
		}
	}
}

func (u *UI) applyEvent(evt engine.Event) {
	switch evt.Type {
	case engine.EventTypeReconciled:
		u.setStatus(fmt.Sprintf("%d processes, %d results tracked", evt.Processes, evt.Tracked))
	case engine.EventTypeError:
		u.setStatus(fmt.Sprintf("[red]%s: %v", evt.Message, evt.Err))
	}
}

func (u *UI) scheduleQuery(text string) {
	u.mu.Lock()
	u.generation++
	generation := u.generation
	u.mu.Unlock()

	time.AfterFunc(u.debounce, func() {
		u.mu.Lock()
		stale := generation != u.generation
		u.mu.Unlock()

		u.cancelMu.Lock()
		ctx := u.runCtx
		u.cancelMu.Unlock()
		if stale || ctx == nil || ctx.Err() != nil {
			return
		}
		u.runQuery(ctx, text)
	})
}

func (u *UI) runQuery(ctx context.Context, text string) {
	if u.query == nil {
		return
	}
	results := u.query.Execute(ctx, text)

	rows := make([]*resultRow, 0, len(results))
	for _, view := range results {
		rows = append(rows, &resultRow{
			id:       view.ID,
			pid:      view.KillPID,
			title:    view.Title,
			subtitle: view.Subtitle,
			tails:    append([]string(nil), view.Tails...),
		})
	}

	u.mu.Lock()
	u.order = u.order[:0]
	u.byID = make(map[string]*resultRow, len(rows))
	for _, row := range rows {
		u.order = append(u.order, row.id)
		u.byID[row.id] = row
	}
	u.mu.Unlock()

	u.redraw()
}

func (u *UI) killSelected(row int) {
	u.mu.Lock()
	idx := row - 1
	var target *resultRow
	if idx >= 0 && idx < len(u.order) {
		target = u.byID[u.order[idx]]
	}
	u.mu.Unlock()
	if target == nil || u.killer == nil {
		return
	}
	go func() {
		_ = u.killer.Kill(context.Background(), target.pid)
	}()
}

func (u *UI) renderHeader() {
	headers := []string{"Title", "Path", "PID", "Memory"}
	for col, text := range headers {
		cell := tview.NewTableCell(text).
			SetSelectable(false).
			SetAttributes(tcell.AttrBold)
		u.table.SetCell(0, col, cell)
	}
}

func (u *UI) redraw() {
	u.app.QueueUpdateDraw(func() {
		u.mu.Lock()
		defer u.mu.Unlock()

		u.table.Clear()
		u.renderHeader()
		for i, id := range u.order {
			row, ok := u.byID[id]
			if !ok {
				continue
			}
			u.table.SetCell(i+1, 0, tview.NewTableCell(row.title))
			u.table.SetCell(i+1, 1, tview.NewTableCell(row.subtitle))
			for col, tail := range row.tails {
				u.table.SetCell(i+1, 2+col, tview.NewTableCell(tail))
			}
		}
	})
}

func (u *UI) setStatus(text string) {
	u.app.QueueUpdateDraw(func() {
		u.status.SetText(text)
	})
}

// Notify surfaces a message in the status line.
func (u *UI) Notify(_ context.Context, message string) error {
	u.setStatus(message)
	return nil
}

// UpdatableResult reports whether the result is still displayed.
func (u *UI) UpdatableResult(_ context.Context, resultID string) (bool, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	_, ok := u.byID[resultID]
	return ok, nil
}

// UpdateResult refreshes the displayed fields for a visible row.
func (u *UI) UpdateResult(_ context.Context, update host.ResultUpdate) (bool, error) {
	u.mu.Lock()
	row, ok := u.byID[update.ResultID]
	if ok {
		row.title = update.Title
		row.subtitle = update.Subtitle
		row.tails = append([]string(nil), update.Tails...)
	}
	u.mu.Unlock()
	if !ok {
		return false, nil
	}
	u.redraw()
	return true, nil
}

var _ host.Host = (*UI)(nil)
