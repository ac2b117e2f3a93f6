package chain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dtroode/recoveryd/internal/model"
)

// Genesis describes the initial state of a chain.
type Genesis struct {
	ChainID          string           `json:"chain_id"`
	InitialTimestamp time.Time        `json:"initial_timestamp"`
	Accounts         []GenesisAccount `json:"accounts"`
}

// GenesisAccount is an account created at genesis.
type GenesisAccount struct {
	Name    model.AccountName `json:"name"`
	Creator model.AccountName `json:"creator,omitempty"`
	Owner   model.Authority   `json:"owner"`
	Active  model.Authority   `json:"active"`
}

// LoadGenesis reads a genesis file.
func LoadGenesis(path string) (Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, fmt.Errorf("failed to read genesis file: %w", err)
	}

	var g Genesis
	if err := json.Unmarshal(data, &g); err != nil {
		return Genesis{}, fmt.Errorf("failed to parse genesis file: %w", err)
	}
	return g, nil
}

// ApplyGenesis creates the genesis accounts in order. Accounts that already
// exist are kept as they are, so a durable store can be reopened.
func (l *Ledger) ApplyGenesis(ctx context.Context, g Genesis) (int, error) {
	if g.ChainID != "" && g.ChainID != l.cfg.ChainID {
		return 0, fmt.Errorf("genesis is for chain %q, ledger runs %q", g.ChainID, l.cfg.ChainID)
	}

	created := 0
	for _, a := range g.Accounts {
		_, err := l.CreateAccount(ctx, model.CreateAccountParams{
			Name:    a.Name,
			Creator: a.Creator,
			Owner:   a.Owner,
			Active:  a.Active,
		})
		if errors.Is(err, model.ErrAccountExists) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("genesis account %s: %w", a.Name, err)
		}
		created++
	}

	l.logger.Info("Ledger: genesis applied",
		"accounts", len(g.Accounts),
		"created", created)
	return created, nil
}
