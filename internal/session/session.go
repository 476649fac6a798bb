package session

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/tidwall/gjson"

	"github.com/mmynk/splitshare/internal/calculator"
	"github.com/mmynk/splitshare/internal/models"
	"github.com/mmynk/splitshare/internal/normalize"
)

var (
	// ErrItemIndex is returned when an item index does not exist.
	ErrItemIndex = errors.New("item index out of range")

	// ErrUnknownParticipant is returned when assigning a name that is not registered.
	ErrUnknownParticipant = errors.New("unknown participant")

	// ErrInvalidPayload is returned when an extraction payload is not JSON.
	ErrInvalidPayload = errors.New("extraction payload is not valid JSON")
)

// Session is the explicit state of one splitting flow.
type Session struct {
	participants *Registry
	items        []models.Item
	order        models.OrderMeta
	raw          []byte
}

// New creates an empty session.
func New() *Session {
	return &Session{
		participants: NewRegistry(),
		order:        models.OrderMeta{OrderDate: models.NoOrderDate},
	}
}

// AddParticipant registers a participant. See Registry.Add.
func (s *Session) AddParticipant(name string) (bool, error) {
	return s.participants.Add(name)
}

// RemoveParticipant removes the participant at index and drops them from
// every item's assignment set.
func (s *Session) RemoveParticipant(index int) error {
	name, err := s.participants.Remove(index)
	if err != nil {
		return err
	}
	for i := range s.items {
		s.items[i].Assigned = slices.DeleteFunc(s.items[i].Assigned, func(n string) bool {
			return n == name
		})
	}
	slog.Debug("Participant removed", "name", name, "remaining", s.participants.Len())
	return nil
}

// Participants returns the participant names in column order.
func (s *Session) Participants() []string {
	return s.participants.Names()
}

// LoadExtraction replaces the items and order metadata with those found in
// payload and returns the number of items. Assignments are reset. An invalid
// payload leaves the session untouched.
func (s *Session) LoadExtraction(payload []byte) (int, error) {
	if !gjson.ValidBytes(payload) {
		return 0, ErrInvalidPayload
	}
	items, order := normalize.Parse(payload)
	s.items = items
	s.order = order
	s.raw = slices.Clone(payload)
	if len(items) == 0 {
		slog.Warn("No items found in extraction payload", "payload_bytes", len(payload))
	}
	return len(items), nil
}

// SetOrder replaces the items and order metadata directly. Assignments on
// the given items are kept; names that are not registered are dropped.
func (s *Session) SetOrder(items []models.Item, order models.OrderMeta) {
	s.items = make([]models.Item, len(items))
	for i, it := range items {
		it = it.Clone()
		it.Assigned = s.validNames(it.Assigned)
		if it.Quantity < 1 {
			it.Quantity = 1
		}
		s.items[i] = it
	}
	if order.OrderDate == "" {
		order.OrderDate = models.NoOrderDate
	}
	order.TaxAmount = max(order.TaxAmount, 0)
	s.order = order
	s.raw = nil
}

// Assign sets the participants sharing the item at index. An empty list
// returns the item to the default split among everyone.
func (s *Session) Assign(index int, names []string) error {
	if index < 0 || index >= len(s.items) {
		return fmt.Errorf("%w: %d (have %d)", ErrItemIndex, index, len(s.items))
	}
	assigned := make([]string, 0, len(names))
	for _, n := range names {
		if !s.participants.Contains(n) {
			return fmt.Errorf("%w: %q", ErrUnknownParticipant, n)
		}
		if !slices.Contains(assigned, n) {
			assigned = append(assigned, n)
		}
	}
	s.items[index].Assigned = assigned
	return nil
}

// AssignAll applies assignments keyed by item index, in index order. If any
// of them fails, no assignment is changed.
func (s *Session) AssignAll(assignments map[int][]string) error {
	indexes := make([]int, 0, len(assignments))
	for i := range assignments {
		indexes = append(indexes, i)
	}
	slices.Sort(indexes)

	prev := s.Items()
	for _, i := range indexes {
		if err := s.Assign(i, assignments[i]); err != nil {
			s.items = prev
			return err
		}
	}
	return nil
}

// Items returns a copy of the current items.
func (s *Session) Items() []models.Item {
	items := make([]models.Item, len(s.items))
	for i, it := range s.items {
		items[i] = it.Clone()
	}
	return items
}

// Order returns the current order metadata.
func (s *Session) Order() models.OrderMeta {
	return s.order
}

// RawPayload returns the last loaded extraction payload, if any.
func (s *Session) RawPayload() []byte {
	return slices.Clone(s.raw)
}

// Ledger computes the allocation ledger from the current state.
func (s *Session) Ledger() calculator.Ledger {
	return calculator.ComputeLedger(s.items, s.participants.Names(), s.order)
}

// Table computes the ledger and formats it for export.
func (s *Session) Table() calculator.Table {
	return calculator.FormatTable(s.Ledger())
}

func (s *Session) validNames(names []string) []string {
	var out []string
	for _, n := range names {
		if s.participants.Contains(n) && !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}
