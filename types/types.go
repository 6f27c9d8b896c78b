package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// HexBytes is a byte slice that marshals as a 0x-prefixed hex string in JSON.
// It is used by the API and by payload types for keys, points and proofs.
type HexBytes []byte

// String returns the 0x-prefixed hex representation of the bytes.
func (b HexBytes) String() string {
	return hexutil.Encode(b)
}

// MarshalJSON serializes the bytes as a 0x-prefixed hex string.
func (b HexBytes) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", hexutil.Encode(b))), nil
}

// UnmarshalJSON deserializes a hex string, with or without 0x prefix.
func (b *HexBytes) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid hex string %q", data)
	}
	s := string(data[1 : len(data)-1])
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		decoded, err := hexutil.Decode(s)
		if err != nil {
			return err
		}
		*b = decoded
		return nil
	}
	decoded, err := hexutil.Decode("0x" + s)
	if err != nil {
		return err
	}
	*b = decoded
	return nil
}
