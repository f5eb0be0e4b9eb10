package main

import (
	"fmt"
	"strings"

	"github.com/bitfantasy/bws/internal/erp/entity"
	"github.com/bitfantasy/bws/internal/erp/ticket"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	tableStyle  = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
)

// refreshMsg tells the model the search session recomputed its subset.
// It carries no tickets: deliveries can arrive out of order, so the model
// always reads the session's latest subset.
type refreshMsg struct{}

// layout describes how one ticket kind is shown.
type layout[T ticket.Record] struct {
	title    string
	columns  []table.Column
	row      func(T) table.Row
	statuses []string
}

func salesLayout() layout[entity.SalesTicket] {
	return layout[entity.SalesTicket]{
		title: "Sales Tickets",
		columns: []table.Column{
			{Title: "Ticket No", Width: 12},
			{Title: "Date", Width: 10},
			{Title: "Customer", Width: 22},
			{Title: "Truck", Width: 10},
			{Title: "Material", Width: 16},
			{Title: "LPO", Width: 10},
			{Title: "Net (kg)", Width: 10},
		},
		row: func(t entity.SalesTicket) table.Row {
			return table.Row{t.ID, t.Date, t.CustomerName, t.TruckNo, t.MaterialCode, t.LPONo, t.NetWeight.String()}
		},
	}
}

func purchaseLayout() layout[entity.PurchaseTicket] {
	return layout[entity.PurchaseTicket]{
		title: "Purchase Tickets",
		columns: []table.Column{
			{Title: "Ticket No", Width: 12},
			{Title: "Date", Width: 10},
			{Title: "Supplier", Width: 22},
			{Title: "Truck", Width: 10},
			{Title: "Material", Width: 16},
			{Title: "PO", Width: 10},
			{Title: "Status", Width: 10},
			{Title: "Net (kg)", Width: 10},
		},
		row: func(t entity.PurchaseTicket) table.Row {
			return table.Row{t.ID, t.Date, t.CustomerName, t.TruckNo, t.MaterialCode, t.PONo, t.Status, t.NetWeight.String()}
		},
		statuses: append([]string{ticket.StatusAll}, entity.PurchaseStatuses...),
	}
}

type model[T ticket.Record] struct {
	layout  layout[T]
	session *ticket.SearchSession[T]
	search  textinput.Model
	table   table.Model
	total   int
	shown   int
	status  int
}

func newModel[T ticket.Record](l layout[T], session *ticket.SearchSession[T], total int) model[T] {
	ti := textinput.New()
	ti.Placeholder = "search id, customer, material, truck, order no"
	ti.Prompt = "/ "
	ti.CharLimit = 64
	ti.Focus()

	width := 0
	for _, c := range l.columns {
		width += c.Width + 2
	}
	tbl := table.New(
		table.WithColumns(l.columns),
		table.WithFocused(true),
		table.WithHeight(15),
		table.WithWidth(width),
	)

	m := model[T]{
		layout:  l,
		session: session,
		search:  ti,
		table:   tbl,
		total:   total,
	}
	m.setRows(session.Visible())
	return m
}

func (m *model[T]) setRows(tickets []T) {
	rows := make([]table.Row, 0, len(tickets))
	for _, t := range tickets {
		rows = append(rows, m.layout.row(t))
	}
	m.table.SetRows(rows)
	m.shown = len(tickets)
}

func (m model[T]) Init() tea.Cmd {
	return textinput.Blink
}

func (m model[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		m.setRows(m.session.Visible())
		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-8, 3))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			if len(m.layout.statuses) > 0 {
				m.status = (m.status + 1) % len(m.layout.statuses)
				m.session.SetStatus(m.layout.statuses[m.status])
			}
			return m, nil
		case "enter":
			m.session.Flush()
			return m, nil
		case "up", "down", "pgup", "pgdown", "home", "end":
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if after := m.search.Value(); after != before {
		m.session.Type(after)
	}
	return m, cmd
}

func (m model[T]) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.layout.title))
	if len(m.layout.statuses) > 0 {
		b.WriteString("  ")
		b.WriteString(statusStyle.Render("status: " + m.layout.statuses[m.status]))
	}
	q := m.session.Query()
	if q.DateFrom != "" || q.DateTo != "" {
		b.WriteString(footerStyle.Render(fmt.Sprintf("  %s .. %s", q.DateFrom, q.DateTo)))
	}
	b.WriteString("\n\n")
	b.WriteString(m.search.View())
	b.WriteString("\n")
	b.WriteString(tableStyle.Render(m.table.View()))
	b.WriteString("\n")

	help := "enter: apply now  esc: quit"
	if len(m.layout.statuses) > 0 {
		help = "tab: status  " + help
	}
	b.WriteString(footerStyle.Render(fmt.Sprintf("%d of %d tickets  %s", m.shown, m.total, help)))
	b.WriteString("\n")
	return b.String()
}
