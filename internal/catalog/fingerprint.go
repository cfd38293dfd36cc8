package catalog

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// Fingerprint computes a deterministic identity hash for a definition.
//
// The hash is sha256 over a canonical JSON rendering: object keys sorted,
// strings NFC-normalized, floats in shortest round-trip form. Two loads
// of the same entry always produce the same fingerprint, which is what
// makes reload idempotence observable in the invocation log.
func Fingerprint(def *Definition) (string, error) {
	// Round-trip through encoding/json so the canonical walk sees plain
	// maps and slices rather than struct internals.
	data, err := json.Marshal(def)
	if err != nil {
		return "", fmt.Errorf("marshal definition %q: %w", def.Name, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return "", fmt.Errorf("decode definition %q: %w", def.Name, err)
	}

	canonical, err := marshalCanonical(raw)
	if err != nil {
		return "", fmt.Errorf("canonicalize definition %q: %w", def.Name, err)
	}

	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// marshalCanonical renders a decoded JSON value deterministically:
// sorted object keys, NFC-normalized strings, shortest-form numbers.
func marshalCanonical(v any) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return []byte("null"), nil
	case bool:
		if val {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case string:
		return json.Marshal(norm.NFC.String(val))
	case json.Number:
		return canonicalNumber(val)
	case []any:
		return canonicalArray(val)
	case map[string]any:
		return canonicalObject(val)
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

// canonicalNumber renders integers without a fraction and other numbers
// in shortest round-trip form, so 27 and 27.0 hash identically.
func canonicalNumber(n json.Number) ([]byte, error) {
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("number %q out of range: %w", n, err)
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, fmt.Errorf("non-finite number %q", n)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return []byte(strconv.FormatInt(int64(f), 10)), nil
	}
	return []byte(strconv.FormatFloat(f, 'g', -1, 64)), nil
}

func canonicalArray(arr []any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := marshalCanonical(elem)
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", i, err)
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func canonicalObject(obj map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(norm.NFC.String(k))
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := marshalCanonical(obj[k])
		if err != nil {
			return nil, fmt.Errorf("value for key %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
