// Package seed loads the demonstration ledger offered to new users.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"cassa/internal/core"
)

//go:embed sample.yaml
var sampleYAML []byte

type fixture struct {
	Transactions []entry `yaml:"transactions"`
}

type entry struct {
	Description string `yaml:"description"`
	Amount      string `yaml:"amount"`
	Type        string `yaml:"type"`
	Method      string `yaml:"method"`
	Category    string `yaml:"category"`
	Month       int    `yaml:"month"`
	Day         int    `yaml:"day"`
}

// Adder is the slice of the ledger store that seeding needs.
type Adder interface {
	Add(ctx context.Context, ownerID string, d core.Draft) (core.Transaction, error)
}

// Drafts returns the sample ledger with dates anchored on now's month.
// Days past the end of a month roll over the way time.Date does.
func Drafts(now time.Time) ([]core.Draft, error) {
	var f fixture
	if err := yaml.Unmarshal(sampleYAML, &f); err != nil {
		return nil, fmt.Errorf("decode sample fixture: %w", err)
	}

	drafts := make([]core.Draft, 0, len(f.Transactions))
	for i, e := range f.Transactions {
		amount, err := core.ParseMoney(e.Amount)
		if err != nil {
			return nil, fmt.Errorf("sample entry %d: %w", i, err)
		}
		d := core.Draft{
			Description: e.Description,
			Amount:      amount,
			Type:        core.TxType(e.Type),
			Method:      core.Method(e.Method),
			Category:    core.Category(e.Category),
			Date:        core.NewDate(now.Year(), int(now.Month())+e.Month, e.Day),
		}
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("sample entry %d: %w", i, err)
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

// Load adds the sample ledger for ownerID and returns the stored entries.
// It stops at the first failed write.
func Load(ctx context.Context, store Adder, ownerID string, now time.Time) ([]core.Transaction, error) {
	drafts, err := Drafts(now)
	if err != nil {
		return nil, err
	}
	out := make([]core.Transaction, 0, len(drafts))
	for _, d := range drafts {
		tx, err := store.Add(ctx, ownerID, d)
		if err != nil {
			return out, fmt.Errorf("add sample %q: %w", d.Description, err)
		}
		out = append(out, tx)
	}
	return out, nil
}
