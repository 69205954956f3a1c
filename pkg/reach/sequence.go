package reach

import (
	"github.com/matzehuels/revetment/pkg/errors"
	"github.com/matzehuels/revetment/pkg/section"
)

// Sequence is an ordered, caller-owned list of sections.
// It is not safe for concurrent use.
type Sequence struct {
	sections []section.Section
}

// NewSequence returns a sequence holding a copy of sections.
func NewSequence(sections ...section.Section) *Sequence {
	return &Sequence{sections: append([]section.Section(nil), sections...)}
}

// Len returns the number of sections.
func (q *Sequence) Len() int { return len(q.sections) }

// At returns the section at index i.
func (q *Sequence) At(i int) (section.Section, error) {
	if err := q.check(i); err != nil {
		return section.Section{}, err
	}
	return q.sections[i], nil
}

// Sections returns a copy of the ordered sections.
func (q *Sequence) Sections() []section.Section {
	return append([]section.Section(nil), q.sections...)
}

// Append validates in and adds the resulting section at the downstream end.
func (q *Sequence) Append(in section.Inputs) (section.Section, error) {
	s, err := section.New(in)
	if err != nil {
		return section.Section{}, err
	}
	q.sections = append(q.sections, s)
	return s, nil
}

// Replace swaps the whole list for a copy of sections.
func (q *Sequence) Replace(sections ...section.Section) {
	q.sections = append([]section.Section(nil), sections...)
}

// Edit replaces the section at i with one rebuilt from its inputs after edit.
// The sequence is unchanged if the edited inputs are invalid.
func (q *Sequence) Edit(i int, edit func(*section.Inputs)) (section.Section, error) {
	if err := q.check(i); err != nil {
		return section.Section{}, err
	}
	s, err := q.sections[i].With(edit)
	if err != nil {
		return section.Section{}, err
	}
	q.sections[i] = s
	return s, nil
}

// Remove deletes the section at i and returns it.
func (q *Sequence) Remove(i int) (section.Section, error) {
	if err := q.check(i); err != nil {
		return section.Section{}, err
	}
	s := q.sections[i]
	q.sections = append(q.sections[:i], q.sections[i+1:]...)
	return s, nil
}

// Move relocates the section at from so that it ends up at index to.
func (q *Sequence) Move(from, to int) error {
	if err := q.check(from); err != nil {
		return err
	}
	if err := q.check(to); err != nil {
		return err
	}
	if from == to {
		return nil
	}
	s := q.sections[from]
	if from < to {
		copy(q.sections[from:to], q.sections[from+1:to+1])
	} else {
		copy(q.sections[to+1:from+1], q.sections[to:from])
	}
	q.sections[to] = s
	return nil
}

func (q *Sequence) check(i int) error {
	if i < 0 || i >= len(q.sections) {
		return errors.New(errors.ErrCodeNotFound, "no section at position %d (have %d)", i+1, len(q.sections))
	}
	return nil
}
