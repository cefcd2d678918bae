package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/perch-ai/perch/internal/models"
)

// selector is the model picker. It offers the cloud models, plus the local
// ones when showLocal is set, narrowed by a fuzzy filter.
type selector struct {
	options []models.Descriptor
	visible []models.Descriptor
	query   string
	cursor  int
}

func newSelector(showLocal bool, current models.ChatModel) selector {
	s := selector{options: models.Descriptors(selectorModels(showLocal))}
	s.filter("")
	for i, d := range s.visible {
		if d.Model == current {
			s.cursor = i
			break
		}
	}
	return s
}

// selectorModels lists the models the picker offers, in enum order
func selectorModels(showLocal bool) []models.ChatModel {
	ms := models.CloudModels()
	if showLocal {
		ms = append(ms, models.LocalModels()...)
	}
	return ms
}

// descriptorSource adapts descriptors to fuzzy.Source
type descriptorSource []models.Descriptor

func (d descriptorSource) String(i int) string {
	return d[i].Name + " " + d[i].Description
}

func (d descriptorSource) Len() int { return len(d) }

// filter narrows the options to those fuzzy-matching query, best match first.
// A changed, non-empty query moves the cursor to the best match.
func (s *selector) filter(query string) {
	changed := query != s.query
	s.query = query
	q := strings.TrimSpace(query)
	if q == "" {
		s.visible = s.options
	} else {
		if changed {
			s.cursor = 0
		}
		matches := fuzzy.FindFrom(q, descriptorSource(s.options))
		s.visible = make([]models.Descriptor, 0, len(matches))
		for _, match := range matches {
			s.visible = append(s.visible, s.options[match.Index])
		}
	}
	if s.cursor >= len(s.visible) {
		s.cursor = len(s.visible) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (s *selector) up() {
	if s.cursor > 0 {
		s.cursor--
	}
}

func (s *selector) down() {
	if s.cursor < len(s.visible)-1 {
		s.cursor++
	}
}

// selected returns the descriptor under the cursor
func (s selector) selected() (models.Descriptor, bool) {
	if len(s.visible) == 0 {
		return models.Descriptor{}, false
	}
	return s.visible[s.cursor], true
}

// renderTrigger renders a model's small icon and name, as shown in the footer
// and in the picker
func renderTrigger(d models.Descriptor) string {
	icon := lipgloss.NewStyle().
		Foreground(lipgloss.Color(d.SmallIcon.Color)).
		Render(d.SmallIcon.Glyph)
	return icon + " " + ModelNameStyle.Render(d.Name)
}
