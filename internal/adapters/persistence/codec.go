package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/protecthire/protecthire/internal/domain/guard"
)

func encodeProfile(p guard.Profile) ([]byte, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode profile %s: %w", p.ID, err)
	}
	return b, nil
}

func decodeProfile(b []byte) (guard.Profile, error) {
	var p guard.Profile
	if err := json.Unmarshal(b, &p); err != nil {
		return guard.Profile{}, fmt.Errorf("%w: %w", ErrCorruptData, err)
	}
	return p, nil
}

func decodeSnapshot(b []byte) ([]guard.Profile, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var ps []guard.Profile
	if err := json.Unmarshal(b, &ps); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptData, err)
	}
	return ps, nil
}
