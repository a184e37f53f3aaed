package domain

// Card represents a stored-value transit card.
// Balance has no range constraint; it may go negative.
type Card struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Balance int64  `json:"balance"`
}

// CardChanges holds the fields to apply in a partial card update.
// Nil fields are left unchanged.
type CardChanges struct {
	Name    *string
	Balance *int64
}

// NewCard creates a not yet persisted Card with the given name and opening balance.
// Returns an InvalidField error if the name is out of range.
func NewCard(name string, balance int64) (*Card, error) {
	card := &Card{
		Name:    name,
		Balance: balance,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
func (c *Card) Validate() error {
	return validateLength("name", c.Name)
}

// Update applies the present fields of changes.
// If the new name is invalid the card keeps its previous values.
func (c *Card) Update(changes CardChanges) error {
	next := *c
	if changes.Name != nil {
		next.Name = *changes.Name
	}
	if changes.Balance != nil {
		next.Balance = *changes.Balance
	}

	if err := next.Validate(); err != nil {
		return err
	}

	*c = next
	return nil
}

// IsPersisted reports whether a repository has assigned the card an identity.
func (c *Card) IsPersisted() bool {
	return c.ID != 0
}

// Snapshot captures the card's current values for embedding in a Transaction.
func (c *Card) Snapshot() CardSnapshot {
	return CardSnapshot{
		ID:      c.ID,
		Name:    c.Name,
		Balance: c.Balance,
	}
}
