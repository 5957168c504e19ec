// Package inspect renders a compiled class table as an interactive
// terminal browser, built on the same Charm stack (bubbletea, bubbles,
// lipgloss) the teacher's REPL uses for its Elm-architecture model and
// styling. Where the REPL evaluates language source interactively and
// renders its result, this package evaluates nothing: it walks a
// classtable.ClassTable already populated by typecheck and codegen and
// lets the user page through classes, fields, and methods.
package inspect

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kongclass/kongc/ast"
	"github.com/kongclass/kongc/classtable"
	"github.com/kongclass/kongc/types"
)

// FieldInfo is one field's layout, projected out of an OffsetTable for
// display.
type FieldInfo struct {
	Name   string
	Offset int
	Size   int
	Type   string
}

// MethodInfo is one method's label and signature (return type and
// parameters); locals are not included.
type MethodInfo struct {
	Name       string
	Label      string
	ReturnType string
	Params     []string
}

// ClassInfo is one class's full browsable record.
type ClassInfo struct {
	Name       string
	Superclass string
	TotalSize  int
	Fields     []FieldInfo
	Methods    []MethodInfo
}

// Collect flattens ct into the ordered, display-ready records the
// browser walks. It assumes ct's OffsetTables have already been
// populated by a codegen.Generate pass -- typecheck alone leaves them
// empty.
func Collect(ct *classtable.ClassTable) []ClassInfo {
	var out []ClassInfo
	for _, name := range ct.Names() {
		node, _ := ct.Lookup(name)
		info := ClassInfo{
			Name:       node.Name,
			Superclass: node.Superclass,
			TotalSize:  node.Offsets.TotalSize(),
		}
		for _, fname := range node.Offsets.Names() {
			info.Fields = append(info.Fields, FieldInfo{
				Name:   fname,
				Offset: node.Offsets.Offset(fname),
				Size:   node.Offsets.Size(fname),
				Type:   classTypeString(node.Offsets.DeclType(fname)),
			})
		}
		for _, m := range node.Body.Methods {
			mi := MethodInfo{
				Name:       m.MethodID,
				Label:      node.Name + "_" + m.MethodID,
				ReturnType: typeAnnotationString(m.ReturnType),
			}
			for _, p := range m.Params {
				mi.Params = append(mi.Params, p.VariableID+": "+typeAnnotationString(p.Type))
			}
			info.Methods = append(info.Methods, mi)
		}
		out = append(out, info)
	}
	return out
}

// classTypeString renders a resolved ClassType (offset-table entries carry
// these, not surface TypeAnnotations) the same way typeAnnotationString
// renders a parsed one.
func classTypeString(ct types.ClassType) string {
	if ct.BaseType == types.Object {
		return ct.ClassID
	}
	return ct.BaseType.String()
}

// typeAnnotationString renders a parsed surface type annotation for
// display: a bare base-type name, or the class name for Object types.
func typeAnnotationString(ta ast.TypeAnnotation) string {
	if ta.Base == types.Object {
		return ta.ClassID
	}
	return ta.Base.String()
}

// --- Styling ---

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#C0C0C0"))

	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// model is the bubbletea Elm-architecture state: which class is
// selected, plus a spinner shown only for the brief moment before the
// first frame renders.
type model struct {
	classes  []ClassInfo
	cursor   int
	spinner  spinner.Model
	ready    bool
}

// Start runs the interactive class-table browser until the user quits.
func Start(classes []ClassInfo) error {
	p := tea.NewProgram(initialModel(classes))
	_, err := p.Run()
	return err
}

func initialModel(classes []ClassInfo) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return model{classes: classes, spinner: s}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.classes)-1 {
				m.cursor++
			}
		}
		return m, nil
	case spinner.TickMsg:
		if m.ready {
			return m, nil
		}
		m.ready = true
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m model) View() string {
	if !m.ready {
		return m.spinner.View() + " resolving class table...\n"
	}
	if len(m.classes) == 0 {
		return "no classes to show\n"
	}

	var left strings.Builder
	left.WriteString(titleStyle.Render("Classes") + "\n\n")
	for i, c := range m.classes {
		line := c.Name
		if c.Superclass != "" {
			line += " : " + c.Superclass
		}
		if i == m.cursor {
			left.WriteString(selectedStyle.Render("> "+line) + "\n")
		} else {
			left.WriteString(normalStyle.Render("  "+line) + "\n")
		}
	}

	selected := m.classes[m.cursor]
	var right strings.Builder
	right.WriteString(titleStyle.Render(selected.Name) + "\n\n")
	right.WriteString(fmt.Sprintf("total size: %d bytes\n\n", selected.TotalSize))

	right.WriteString(headingStyle.Render("Fields") + "\n")
	if len(selected.Fields) == 0 {
		right.WriteString(normalStyle.Render("  (none)") + "\n")
	}
	for _, f := range selected.Fields {
		right.WriteString(fmt.Sprintf("  %-16s +%-4d (%d bytes)\n", f.Name, f.Offset, f.Size))
	}

	right.WriteString("\n" + headingStyle.Render("Methods") + "\n")
	if len(selected.Methods) == 0 {
		right.WriteString(normalStyle.Render("  (none)") + "\n")
	}
	for _, meth := range selected.Methods {
		right.WriteString(fmt.Sprintf("  %s(%s) -> %s  [%s]\n",
			meth.Name, strings.Join(meth.Params, ", "), meth.ReturnType, meth.Label))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, left.String(), "    ", right.String())
	return body + "\n" + helpStyle.Render("↑/↓ select class · q quit") + "\n"
}
