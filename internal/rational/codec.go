package rational

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
)

// cborTagRational is CBOR tag 30, the registered tag for rational numbers:
// 30([numerator, denominator]).
const cborTagRational = 30

// MarshalCBOR encodes n as a tag-30 rational. Components that fit in a CBOR
// integer are encoded directly; larger ones become bignums.
func (n Number) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(cbor.Tag{
		Number:  cborTagRational,
		Content: []*big.Int{n.numRef(), n.denRef()},
	})
}

// UnmarshalCBOR decodes a tag-30 rational, normalizing it through New so the
// lowest-terms and positive-denominator invariants hold regardless of how the
// peer encoded the pair.
func (n *Number) UnmarshalCBOR(data []byte) error {
	var raw cbor.RawTag
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if raw.Number != cborTagRational {
		return fmt.Errorf("%w: unexpected CBOR tag %d", ErrFormat, raw.Number)
	}
	var parts []big.Int
	if err := cbor.Unmarshal(raw.Content, &parts); err != nil {
		return fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if len(parts) != 2 {
		return fmt.Errorf("%w: rational needs 2 components, got %d", ErrFormat, len(parts))
	}
	v, err := New(&parts[0], &parts[1])
	if err != nil {
		return err
	}
	*n = v
	return nil
}

// MarshalJSON emits {"numerator":N,"denominator":D} with both components as
// bare JSON numbers, which keeps arbitrary precision intact.
func (n Number) MarshalJSON() ([]byte, error) {
	return fmt.Appendf(nil, `{"numerator":%s,"denominator":%s}`,
		n.numRef().String(), n.denRef().String()), nil
}

// UnmarshalJSON accepts three shapes: an object with numerator/denominator
// fields, a bare decimal or scientific-notation number, or the same as a
// quoted string.
func (n *Number) UnmarshalJSON(data []byte) error {
	text := bytes.TrimSpace(data)
	if len(text) == 0 {
		return fmt.Errorf("%w: empty JSON value", ErrFormat)
	}

	switch text[0] {
	case '{':
		var obj struct {
			Num json.RawMessage `json:"numerator"`
			Den json.RawMessage `json:"denominator"`
		}
		if err := json.Unmarshal(text, &obj); err != nil {
			return fmt.Errorf("%w: %v", ErrFormat, err)
		}
		num, err := jsonBigInt(obj.Num, "numerator")
		if err != nil {
			return err
		}
		den, err := jsonBigInt(obj.Den, "denominator")
		if err != nil {
			return err
		}
		v, err := New(num, den)
		if err != nil {
			return err
		}
		*n = v
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(text, &s); err != nil {
			return fmt.Errorf("%w: %v", ErrFormat, err)
		}
		v, err := Parse(s)
		if err != nil {
			return err
		}
		*n = v
		return nil
	default:
		v, err := Parse(string(text))
		if err != nil {
			return err
		}
		*n = v
		return nil
	}
}

// jsonBigInt reads a JSON number (quoted or bare) into a big.Int without a
// float64 detour, so precision beyond 53 bits survives.
func jsonBigInt(raw json.RawMessage, field string) (*big.Int, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrFormat, field)
	}
	text := bytes.Trim(bytes.TrimSpace(raw), `"`)
	v, ok := new(big.Int).SetString(string(text), 10)
	if !ok {
		return nil, fmt.Errorf("%w: bad %s %q", ErrFormat, field, raw)
	}
	return v, nil
}
