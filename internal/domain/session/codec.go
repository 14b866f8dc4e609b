package session

import (
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/wcar/internal/shared/types"
)

// Encode renders a snapshot as indented JSON.
func Encode(snap *types.SessionSnapshot) ([]byte, error) {
	data, err := sonic.ConfigStd.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a snapshot. Absent window or monitor lists decode as empty.
func Decode(data []byte) (*types.SessionSnapshot, error) {
	var snap types.SessionSnapshot
	if err := sonic.ConfigStd.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	snap.Normalize()
	return &snap, nil
}
