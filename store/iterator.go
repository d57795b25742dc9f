package store

import (
	"bytes"

	"github.com/iov-one/smartaccount/errors"
)

// NewSliceIterator returns an iterator over given entries. Entries must be
// sorted by key.
func NewSliceIterator(entries []Entry) Iterator {
	return &sliceIterator{entries: entries}
}

type sliceIterator struct {
	entries []Entry
}

func (s *sliceIterator) Valid() bool {
	return len(s.entries) > 0
}

func (s *sliceIterator) Next() error {
	if !s.Valid() {
		return errors.Wrap(errors.ErrDatabase, "iterator exhausted")
	}
	s.entries = s.entries[1:]
	return nil
}

func (s *sliceIterator) Key() []byte {
	return s.entries[0].Key
}

func (s *sliceIterator) Value() []byte {
	return s.entries[0].Value
}

func (s *sliceIterator) Close() {
	s.entries = nil
}

// mergeIterator walks a parent iterator together with the changes of a
// cache wrap. A change wins over a parent value of the same key and removed
// keys are skipped.
type mergeIterator struct {
	parent Iterator
	local  []item

	cur   Entry
	valid bool
}

func (m *mergeIterator) Valid() bool {
	return m.valid
}

func (m *mergeIterator) Next() error {
	if !m.valid {
		return errors.Wrap(errors.ErrDatabase, "iterator exhausted")
	}
	return m.settle()
}

func (m *mergeIterator) Key() []byte {
	if !m.valid {
		panic("iterator exhausted")
	}
	return m.cur.Key
}

func (m *mergeIterator) Value() []byte {
	if !m.valid {
		panic("iterator exhausted")
	}
	return m.cur.Value
}

func (m *mergeIterator) Close() {
	m.parent.Close()
	m.local = nil
	m.valid = false
}

// settle moves to the next visible entry, consuming it from its source.
func (m *mergeIterator) settle() error {
	for {
		if len(m.local) == 0 {
			if !m.parent.Valid() {
				m.valid = false
				return nil
			}
			m.cur = Entry{Key: m.parent.Key(), Value: m.parent.Value()}
			m.valid = true
			return m.parent.Next()
		}

		next := m.local[0]
		if m.parent.Valid() {
			switch cmp := bytes.Compare(m.parent.Key(), next.key); {
			case cmp < 0:
				m.cur = Entry{Key: m.parent.Key(), Value: m.parent.Value()}
				m.valid = true
				return m.parent.Next()
			case cmp == 0:
				// Shadowed by the change.
				if err := m.parent.Next(); err != nil {
					m.valid = false
					return err
				}
			}
		}

		m.local = m.local[1:]
		if next.removed {
			continue
		}
		m.cur = Entry{Key: next.key, Value: next.value}
		m.valid = true
		return nil
	}
}
