package sheet

import (
	sheeterrors "github.com/ishiyama1989/koutuhi/internal/sheet/errors"
)

type Layout string

const (
	LayoutTable Layout = "table"
	LayoutRow   Layout = "row"
)

// Mapping is the user's column choice. Columns are 0-based, StartRow is
// 1-based as typed by the user.
type Mapping struct {
	Layout          Layout `json:"layout"`
	NameColumn      int    `json:"nameColumn"`
	DateStartColumn int    `json:"dateStartColumn"`
	DateEndColumn   *int   `json:"dateEndColumn,omitempty"`
	StartRow        int    `json:"startRow"`
}

// EndColumn defaults to the start column when no end column was chosen.
func (m Mapping) EndColumn() int {
	if m.DateEndColumn == nil {
		return m.DateStartColumn
	}
	return *m.DateEndColumn
}

func (m Mapping) Validate() error {
	switch m.Layout {
	case LayoutTable, LayoutRow:
	default:
		return sheeterrors.ErrInvalidLayout
	}
	if m.NameColumn < 0 {
		return sheeterrors.ErrInvalidNameColumn
	}
	if m.DateStartColumn < 0 {
		return sheeterrors.ErrInvalidDateColumn
	}
	if m.StartRow < 1 {
		return sheeterrors.ErrInvalidStartRow
	}
	if m.Layout == LayoutTable && m.DateStartColumn > m.EndColumn() {
		return sheeterrors.ErrDateRangeReversed
	}
	return nil
}
