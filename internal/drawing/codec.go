package drawing

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMalformedEntity = errors.New("malformed entity")

// Stored drawings keep the browser's historical layout: a stroke is a JSON
// array of points and a shape is a one-element array holding an object with a
// "type" field. The variant is resolved here, once.

// MarshalEntity encodes e in the stored layout.
func MarshalEntity(e Entity) ([]byte, error) {
	switch v := e.(type) {
	case Stroke:
		if v.Points == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.Points)
	case Shape:
		return json.Marshal([]Shape{v})
	default:
		return nil, fmt.Errorf("marshal %T: %w", e, ErrMalformedEntity)
	}
}

// UnmarshalEntity decodes one stored entity and validates it.
func UnmarshalEntity(data []byte) (Entity, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEntity, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrMalformedEntity)
	}

	var probe struct {
		Type *string `json:"type"`
	}
	if err := json.Unmarshal(items[0], &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEntity, err)
	}

	var e Entity
	if probe.Type != nil {
		var s Shape
		if err := json.Unmarshal(items[0], &s); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEntity, err)
		}
		e = s
	} else {
		var pts []Point
		if err := json.Unmarshal(data, &pts); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEntity, err)
		}
		e = Stroke{Points: pts}
	}

	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEntity, err)
	}
	return e, nil
}

// Entities is an ordered entity list with the stored JSON layout.
type Entities []Entity

func (es Entities) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, e := range es {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := MarshalEntity(e)
		if err != nil {
			return nil, fmt.Errorf("entity %d: %w", i, err)
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a stored entity list. Older saves interleave history
// records (plain objects) with the entities; those are skipped.
func (es *Entities) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEntity, err)
	}

	out := make(Entities, 0, len(raw))
	for i, item := range raw {
		if first := firstByte(item); first != '[' {
			if first == '{' {
				continue
			}
			return fmt.Errorf("entity %d: %w", i, ErrMalformedEntity)
		}
		e, err := UnmarshalEntity(item)
		if err != nil {
			return fmt.Errorf("entity %d: %w", i, err)
		}
		out = append(out, e)
	}
	*es = out
	return nil
}

func firstByte(b []byte) byte {
	b = bytes.TrimLeft(b, " \t\r\n")
	if len(b) == 0 {
		return 0
	}
	return b[0]
}
