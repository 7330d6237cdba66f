package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gqlforge/gqlforge/internal/registry"
	"github.com/gqlforge/gqlforge/internal/schema"
)

// inspectKindOrder fixes the display order of type groups.
var inspectKindOrder = []string{
	schema.KindObject,
	schema.KindInterface,
	schema.KindUnion,
	schema.KindInputObject,
	schema.KindEnum,
	schema.KindScalar,
}

var kindLabels = map[string]string{
	schema.KindObject:      "Objects",
	schema.KindInterface:   "Interfaces",
	schema.KindUnion:       "Unions",
	schema.KindInputObject: "Input objects",
	schema.KindEnum:        "Enums",
	schema.KindScalar:      "Scalars",
}

// HomeModel is the home view model.
type HomeModel struct {
	keys     KeyMap
	styles   Styles
	width    int
	height   int
	selected int
	items    []string
}

// NewHomeModel creates a new home model.
func NewHomeModel(keys KeyMap, styles Styles) HomeModel {
	return HomeModel{
		keys:     keys,
		styles:   styles,
		selected: 0,
		items: []string{
			"Browse schema registry",
			"Inspect a schema file",
			"Quit",
		},
	}
}

// Init implements tea.Model.
func (m HomeModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m HomeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.selected > 0 {
				m.selected--
			}
		case key.Matches(msg, m.keys.Down):
			if m.selected < len(m.items)-1 {
				m.selected++
			}
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m HomeModel) View() string {
	var b strings.Builder

	// Header
	title := m.styles.Title.Render("GQLFORGE")
	subtitle := m.styles.Subtitle.Render("GraphQL introspection schemas, compiled to Go")

	b.WriteString("\n")
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(subtitle)
	b.WriteString("\n\n")

	// Menu items
	for i, item := range m.items {
		cursor := "  "
		style := m.styles.MenuItem
		if i == m.selected {
			cursor = m.styles.Accent.Render("> ")
			style = m.styles.MenuItemSel
		}
		b.WriteString(cursor + style.Render(item) + "\n")
	}

	// Help
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("Use arrow keys or j/k to navigate, enter to select, q to quit"))

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		lipgloss.NewStyle().Padding(2).Render(b.String()),
	)
}

// BrowseModel is the registry browser view model.
type BrowseModel struct {
	keys       KeyMap
	styles     Styles
	width      int
	height     int
	registry   *registry.Service
	schemas    []*registry.StoredSchema
	selected   int
	err        error
	detail     *registry.StoredSchema
	detailDoc  *schema.Document
	kindCounts []string
}

// NewBrowseModel creates a new browse model.
func NewBrowseModel(keys KeyMap, styles Styles, registryService *registry.Service) BrowseModel {
	return BrowseModel{
		keys:     keys,
		styles:   styles,
		registry: registryService,
	}
}

// LoadSchemas loads schemas from the registry.
func (m BrowseModel) LoadSchemas() BrowseModel {
	if m.registry == nil {
		m.err = fmt.Errorf("no registry connection")
		return m
	}

	schemas, _, err := m.registry.ListSchemas(1, 100)
	if err != nil {
		m.err = err
		return m
	}
	m.schemas = schemas
	m.selected = 0
	m.detail = nil
	m.detailDoc = nil
	return m
}

// Detail returns the schema shown in the detail view, ready for the
// inspector, or a nil document when no detail is open.
func (m BrowseModel) Detail() (string, *schema.Document) {
	if m.detail == nil {
		return "", nil
	}
	return m.detail.Name, m.detailDoc
}

// openDetail parses the stored content so the detail view can show the
// type counts. A schema that no longer parses still shows its metadata.
func (m BrowseModel) openDetail(stored *registry.StoredSchema) BrowseModel {
	m.detail = stored
	m.detailDoc = nil
	m.kindCounts = nil

	doc, err := schema.LoadBytes([]byte(stored.Content))
	if err != nil {
		return m
	}
	m.detailDoc = doc

	counts := make(map[string]int)
	for _, t := range doc.Types {
		if strings.HasPrefix(t.Name, "__") {
			continue
		}
		counts[t.Kind]++
	}
	for _, kind := range inspectKindOrder {
		if counts[kind] > 0 {
			m.kindCounts = append(m.kindCounts, fmt.Sprintf("%-14s %d", kindLabels[kind], counts[kind]))
		}
	}
	return m
}

// Init implements tea.Model.
func (m BrowseModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.detail != nil {
			// In detail view, enter or esc goes back to the list
			if key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.Enter) {
				m.detail = nil
				m.detailDoc = nil
				return m, nil
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Up):
			if m.selected > 0 {
				m.selected--
			}
		case key.Matches(msg, m.keys.Down):
			if m.selected < len(m.schemas)-1 {
				m.selected++
			}
		case key.Matches(msg, m.keys.Enter):
			if len(m.schemas) > 0 && m.selected < len(m.schemas) {
				m = m.openDetail(m.schemas[m.selected])
			}
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m BrowseModel) View() string {
	var b strings.Builder

	// Header
	b.WriteString(m.styles.Title.Render("Browse Schemas"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(m.styles.Error.Render("Error: " + m.err.Error()))
		b.WriteString("\n\n")
		b.WriteString(m.styles.Help.Render("Esc: back to home"))
		return lipgloss.NewStyle().Padding(2).Render(b.String())
	}

	// Show detail view
	if m.detail != nil {
		b.WriteString(m.styles.Accent.Render(m.detail.Name))
		b.WriteString("\n")
		if m.detail.Description != "" {
			b.WriteString(m.styles.Muted.Render(truncate(m.detail.Description, 70)))
			b.WriteString("\n")
		}
		b.WriteString("\n")

		// Show metadata
		if m.detail.QueryType != "" {
			b.WriteString(fmt.Sprintf("Query root: %s\n", m.detail.QueryType))
		}
		if len(m.detail.Tags) > 0 {
			b.WriteString(fmt.Sprintf("Tags: %s\n", strings.Join(m.detail.Tags, ", ")))
		}
		b.WriteString(fmt.Sprintf("Views: %d\n", m.detail.ViewCount))
		b.WriteString("\n")

		if len(m.kindCounts) > 0 {
			b.WriteString(m.styles.Normal.Render("Declared types"))
			b.WriteString("\n")
			for _, line := range m.kindCounts {
				b.WriteString("  " + m.styles.Muted.Render(line) + "\n")
			}
		} else if m.detailDoc == nil {
			b.WriteString(m.styles.Error.Render("Stored content no longer parses."))
			b.WriteString("\n")
		}

		b.WriteString("\n")
		help := "Enter/Esc: back to list"
		if m.detailDoc != nil {
			help = "i: inspect types | " + help
		}
		b.WriteString(m.styles.Help.Render(help))
		return lipgloss.NewStyle().Padding(2).Render(b.String())
	}

	// Show list
	if len(m.schemas) == 0 {
		b.WriteString(m.styles.Muted.Render("No schemas found in registry."))
		b.WriteString("\n\n")
		b.WriteString(m.styles.Help.Render("Esc: back to home"))
		return lipgloss.NewStyle().Padding(2).Render(b.String())
	}

	for i, s := range m.schemas {
		cursor := "  "
		style := m.styles.MenuItem
		if i == m.selected {
			cursor = m.styles.Accent.Render("> ")
			style = m.styles.MenuItemSel
		}

		name := s.Name
		if name == "" {
			name = "(unnamed)"
		}

		meta := fmt.Sprintf(" - %d types", s.TypeCount)
		if s.QueryType != "" {
			meta += ", query " + s.QueryType
		}

		b.WriteString(cursor + style.Render(name) + m.styles.Muted.Render(meta) + "\n")
	}

	// Help
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("j/k: navigate | Enter: view details | Esc: back"))

	return lipgloss.NewStyle().Padding(2).Render(b.String())
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// InspectModel is the type inspector view model. It starts on a path
// prompt; once a document is loaded it shows the declared types grouped
// by kind, and enter opens the fields of the selected type.
type InspectModel struct {
	keys     KeyMap
	styles   Styles
	width    int
	height   int
	input    textinput.Model
	source   string
	doc      *schema.Document
	types    []*schema.Type
	selected int
	detail   *schema.Type
	err      error
}

// NewInspectModel creates a new inspect model.
func NewInspectModel(keys KeyMap, styles Styles) InspectModel {
	ti := textinput.New()
	ti.Placeholder = "Path to an introspection JSON file..."
	ti.Width = 50

	return InspectModel{
		keys:   keys,
		styles: styles,
		input:  ti,
	}
}

// Reset returns the inspector to the path prompt.
func (m InspectModel) Reset() InspectModel {
	m.doc = nil
	m.types = nil
	m.detail = nil
	m.err = nil
	m.source = ""
	m.input.SetValue("")
	m.input.Focus()
	return m
}

// WithDocument opens the inspector directly on a loaded document.
func (m InspectModel) WithDocument(source string, doc *schema.Document) InspectModel {
	m.input.Blur()
	m.source = source
	m.doc = doc
	m.types = inspectTypes(doc)
	m.selected = 0
	m.detail = nil
	m.err = nil
	return m
}

// Typing reports whether the path input owns the keyboard.
func (m InspectModel) Typing() bool {
	return m.doc == nil && m.input.Focused()
}

// Nested reports whether esc should unwind inside the inspector rather
// than leave it.
func (m InspectModel) Nested() bool {
	return m.doc != nil
}

// inspectTypes flattens the declared types into display order, leaving
// out the introspection meta types.
func inspectTypes(doc *schema.Document) []*schema.Type {
	var out []*schema.Type
	for _, kind := range inspectKindOrder {
		for _, t := range doc.Types {
			if t.Kind != kind || strings.HasPrefix(t.Name, "__") {
				continue
			}
			out = append(out, t)
		}
	}
	return out
}

type inspectLoadedMsg struct {
	source string
	doc    *schema.Document
	err    error
}

func loadSchemaFile(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return inspectLoadedMsg{err: err}
		}
		defer f.Close()

		doc, err := schema.Load(f)
		if err != nil {
			return inspectLoadedMsg{err: err}
		}
		return inspectLoadedMsg{source: path, doc: doc}
	}
}

// Init implements tea.Model.
func (m InspectModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case inspectLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		return m.WithDocument(msg.source, msg.doc), nil

	case tea.KeyMsg:
		if m.doc == nil {
			if key.Matches(msg, m.keys.Enter) {
				path := strings.TrimSpace(m.input.Value())
				if path == "" {
					m.err = fmt.Errorf("enter a file path")
					return m, nil
				}
				return m, loadSchemaFile(path)
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		if m.detail != nil {
			if key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.Enter) {
				m.detail = nil
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Up):
			if m.selected > 0 {
				m.selected--
			}
		case key.Matches(msg, m.keys.Down):
			if m.selected < len(m.types)-1 {
				m.selected++
			}
		case key.Matches(msg, m.keys.Enter):
			if len(m.types) > 0 && m.selected < len(m.types) {
				m.detail = m.types[m.selected]
			}
		case key.Matches(msg, m.keys.Back):
			return m.Reset(), textinput.Blink
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m InspectModel) View() string {
	var b strings.Builder

	if m.doc == nil {
		b.WriteString(m.styles.Title.Render("Inspect Schema"))
		b.WriteString("\n\n")
		b.WriteString(m.styles.Normal.Render("File: "))
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		if m.err != nil {
			b.WriteString(m.styles.Error.Render("Error: " + m.err.Error()))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(m.styles.Help.Render("Enter: load | Esc: back"))
		return lipgloss.NewStyle().Padding(2).Render(b.String())
	}

	if m.detail != nil {
		return m.typeDetailView()
	}

	title := "Types"
	if m.source != "" {
		title = "Types - " + m.source
	}
	b.WriteString(m.styles.Title.Render(title))
	b.WriteString("\n\n")

	if len(m.types) == 0 {
		b.WriteString(m.styles.Muted.Render("The document declares no types."))
		b.WriteString("\n\n")
		b.WriteString(m.styles.Help.Render("Esc: back"))
		return lipgloss.NewStyle().Padding(2).Render(b.String())
	}

	lastKind := ""
	for i, t := range m.types {
		if t.Kind != lastKind {
			if lastKind != "" {
				b.WriteString("\n")
			}
			b.WriteString(m.styles.Muted.Render(kindLabels[t.Kind]))
			b.WriteString("\n")
			lastKind = t.Kind
		}

		cursor := "  "
		style := m.styles.MenuItem
		if i == m.selected {
			cursor = m.styles.Accent.Render("> ")
			style = m.styles.MenuItemSel
		}

		marker := ""
		switch t.Name {
		case m.doc.QueryType:
			marker = m.styles.Accent.Render(" (query root)")
		case m.doc.MutationType:
			marker = m.styles.Accent.Render(" (mutation root)")
		case m.doc.SubscriptionType:
			marker = m.styles.Accent.Render(" (subscription root)")
		}

		b.WriteString(cursor + style.Render(t.Name) + marker + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("j/k: navigate | Enter: view fields | Esc: back"))

	return lipgloss.NewStyle().Padding(2).Render(b.String())
}

// typeDetailView renders the members of the selected type.
func (m InspectModel) typeDetailView() string {
	t := m.detail
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(t.Name))
	b.WriteString(m.styles.Muted.Render("  " + strings.ToLower(strings.ReplaceAll(t.Kind, "_", " "))))
	b.WriteString("\n")
	if t.Description != "" {
		b.WriteString(m.styles.Muted.Render(truncate(t.Description, 76)))
		b.WriteString("\n")
	}
	if len(t.Interfaces) > 0 {
		names := make([]string, len(t.Interfaces))
		for i := range t.Interfaces {
			names[i] = t.Interfaces[i].TypeName()
		}
		b.WriteString(m.styles.Normal.Render("implements " + strings.Join(names, " & ")))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch t.Kind {
	case schema.KindObject, schema.KindInterface:
		for i := range t.Fields {
			b.WriteString("  " + m.fieldLine(&t.Fields[i]) + "\n")
		}
	case schema.KindInputObject:
		for i := range t.InputFields {
			b.WriteString("  " + m.inputLine(&t.InputFields[i]) + "\n")
		}
	case schema.KindEnum:
		for _, v := range t.EnumValues {
			line := m.styles.Normal.Render(v.Name)
			if v.IsDeprecated {
				line += m.styles.Error.Render(" (deprecated)")
			}
			b.WriteString("  " + line + "\n")
		}
	case schema.KindUnion:
		for i := range t.PossibleTypes {
			b.WriteString("  " + m.styles.Normal.Render(t.PossibleTypes[i].TypeName()) + "\n")
		}
	default:
		b.WriteString(m.styles.Muted.Render("  No members to show."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("Enter/Esc: back to types"))
	return lipgloss.NewStyle().Padding(2).Render(b.String())
}

// fieldLine renders an output field with its arguments, defaults, and
// result type in GraphQL notation.
func (m InspectModel) fieldLine(f *schema.Field) string {
	s := m.styles.Normal.Render(f.Name)
	if len(f.Args) > 0 {
		args := make([]string, len(f.Args))
		for i := range f.Args {
			args[i] = m.inputLine(&f.Args[i])
		}
		s += m.styles.Muted.Render("(") + strings.Join(args, m.styles.Muted.Render(", ")) + m.styles.Muted.Render(")")
	}
	s += m.styles.Muted.Render(": ") + m.styles.Accent.Render(f.Type.String())
	if f.IsDeprecated {
		s += m.styles.Error.Render(" (deprecated)")
	}
	return s
}

// inputLine renders an argument or input field with its default.
func (m InspectModel) inputLine(v *schema.InputValue) string {
	s := m.styles.Normal.Render(v.Name) + m.styles.Muted.Render(": ") + m.styles.Accent.Render(v.Type.String())
	if v.DefaultValue != nil && *v.DefaultValue != "" {
		s += m.styles.Muted.Render(" = " + *v.DefaultValue)
	}
	return s
}
