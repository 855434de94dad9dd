package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"docchat/internal/domain"
	"docchat/internal/render"
)

const sidebarWidth = 28

var (
	titleStyle        = lipgloss.NewStyle().Bold(true)
	badgeOKStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	badgeDownStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	badgeLoadingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	sidebarStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(sidebarWidth)
	chatBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	dimStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	userStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	boldStyle         = lipgloss.NewStyle().Bold(true)
	linkStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Underline(true)
)

// resize recomputes the viewport dimensions from the window size.
func (m *Model) resize() {
	_, ch := chatBoxStyle.GetFrameSize()
	_, ih := inputBoxStyle.GetFrameSize()
	reserved := 1 + ih + 1 + 1 // header, input frame, input line, status line
	vh := m.height - reserved - ch
	if vh < 3 {
		vh = 3
	}
	vw := m.width - sidebarWidth - 4
	if vw < 20 {
		vw = 20
	}
	m.viewport.Width = vw
	m.viewport.Height = vh
	m.input.Width = m.width - 8
}

func (m *Model) refreshViewport() {
	var sb strings.Builder
	for _, msg := range m.session.Messages() {
		sb.WriteString(m.renderMessage(msg))
		sb.WriteString("\n")
	}
	m.viewport.SetContent(sb.String())
}

// View renders the full layout: header, sidebar beside the chat viewport,
// the input box and a status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := titleStyle.Render("DocChat") + "  " + m.statusBadge()
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(m.renderSidebar()),
		chatBoxStyle.Render(m.viewport.View()),
	)
	input := inputBoxStyle.Render(m.input.View())
	return header + "\n" + body + "\n" + input + "\n" + m.statusLine()
}

func (m Model) statusBadge() string {
	switch m.state {
	case stateConnected:
		return badgeOKStyle.Render("● connected")
	case stateDisconnected:
		return badgeDownStyle.Render("● disconnected (ctrl+r to retry)")
	default:
		return badgeLoadingStyle.Render("● connecting...")
	}
}

func (m Model) statusLine() string {
	if m.session.InFlight() {
		return m.spin.View() + " Thinking..."
	}
	return dimStyle.Render("enter: ask  ctrl+l: clear  ctrl+r: reconnect  ctrl+c: quit")
}

func (m Model) renderSidebar() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("Documents (%d)", len(m.docsList))))
	sb.WriteString("\n")
	if len(m.docsList) == 0 {
		sb.WriteString(dimStyle.Render("none available"))
		return sb.String()
	}
	for _, d := range m.docsList {
		name := d.Name
		if len(name) > sidebarWidth-4 {
			name = name[:sidebarWidth-5] + "…"
		}
		sb.WriteString("• " + name + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (m Model) renderMessage(msg domain.Message) string {
	var sb strings.Builder
	switch msg.Kind {
	case domain.KindUser:
		sb.WriteString(userStyle.Render("You") + dimStyle.Render(" "+msg.Timestamp) + "\n")
		sb.WriteString(msg.Content + "\n")
	case domain.KindError:
		sb.WriteString(errorStyle.Render("Error") + dimStyle.Render(" "+msg.Timestamp) + "\n")
		sb.WriteString(errorStyle.Render(msg.Content) + "\n")
	default:
		sb.WriteString(titleStyle.Render("Assistant") + dimStyle.Render(" "+msg.Timestamp) + "\n")
		for _, b := range render.MessageBlocks(msg) {
			sb.WriteString(renderBlock(b))
		}
	}
	return sb.String()
}

func renderBlock(b render.Block) string {
	switch b.Kind {
	case render.LineBreak:
		return "\n"
	case render.NumberedItem:
		return renderSpans(b.Spans) + "\n"
	case render.SubItem:
		return "  " + renderSpans(b.Spans) + "\n"
	case render.ReferenceRow:
		return dimStyle.Render(b.Label+": ") + renderSpans(b.Spans) + "\n"
	case render.HitCount:
		return dimStyle.Render(b.Text()) + "\n"
	case render.CitationItem:
		return dimStyle.Render(b.Label+": ") + renderSpans(b.Spans) + "\n"
	case render.Confidence:
		return dimStyle.Render(b.Text()) + "\n"
	default:
		return renderSpans(b.Spans) + "\n"
	}
}

func renderSpans(spans []render.Span) string {
	var sb strings.Builder
	for _, s := range spans {
		switch s.Kind {
		case render.SpanBold:
			sb.WriteString(boldStyle.Render(s.Text))
		case render.SpanLink:
			sb.WriteString(linkStyle.Render(s.Text))
		default:
			sb.WriteString(s.Text)
		}
	}
	return sb.String()
}
