package editor

import (
	"errors"
	"fmt"

	"github.com/yaklabco/plainedit/pkg/document"
)

// Placement addresses the token a click landed on. Character is the cursor
// offset within the token; nil places the cursor after the last character.
type Placement struct {
	Row       int
	Token     int
	Character *int
}

// At returns a placement with an explicit character offset.
func At(row, token, character int) Placement {
	return Placement{Row: row, Token: token, Character: &character}
}

// HandleOnClickEvent moves the cursor to the placement.
func (m *Machine) HandleOnClickEvent(doc *document.Document, placement Placement) (*document.Document, error) {
	if placement.Row < 0 || placement.Row >= doc.RowCount() {
		return nil, fmt.Errorf("row %d: %w", placement.Row, ErrPlacementOutOfRange)
	}
	row := doc.Row(placement.Row)
	if placement.Token < 0 || placement.Token >= row.TokenCount() {
		return nil, fmt.Errorf("row %d token %d: %w", placement.Row, placement.Token, ErrPlacementOutOfRange)
	}

	offset := row.Token(placement.Token).LastIndex()
	if placement.Character != nil {
		offset = *placement.Character
	}

	next, err := doc.MoveCursor(placement.Row, placement.Token, offset)
	if errors.Is(err, document.ErrOutOfRange) {
		return nil, fmt.Errorf("%w: %w", ErrPlacementOutOfRange, err)
	}
	return next, err
}
