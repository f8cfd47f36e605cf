package hmacauth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/gunjan1sharma/hmac-auth-builder/pkg/apperror"
)

// Canonicalize reduces payload plus auxiliary fields to the one deterministic
// string that gets signed. It is a pure function: for identical inputs every
// conforming implementation must return byte-identical output.
//
// timestamp accepts an integer epoch value, a json.Number, or a pre-rendered
// string; rendering treats numbers and numeric strings identically so that
// generation and verification agree.
func Canonicalize(payload Payload, timestamp any, nonce string, cfg SigningConfig) (string, error) {
	switch cfg.SignatureMethod {
	case SignatureMethodCanonical:
		return canonicalFieldString(payload, timestamp, nonce, cfg)
	case SignatureMethodJSON:
		return canonicalJSONString(payload, timestamp, nonce, cfg)
	default:
		return "", apperror.ErrUnsupportedOption("signature method", string(cfg.SignatureMethod))
	}
}

// canonicalFieldString joins timestamp, nonce and the coerced field values
// with the configured separator. Separator characters inside values are not
// escaped.
func canonicalFieldString(payload Payload, timestamp any, nonce string, cfg SigningConfig) (string, error) {
	parts := make([]string, 0, len(payload)+2)

	if cfg.IncludeTimestamp {
		parts = append(parts, renderTimestamp(timestamp))
	}
	if cfg.IncludeNonce {
		parts = append(parts, nonce)
	}

	fields := cfg.CanonicalFields
	if len(fields) == 0 {
		fields = sortedKeys(payload)
	} else if missing := missingFields(payload, fields); len(missing) > 0 {
		return "", apperror.ErrUnknownCanonicalFields(missing)
	}

	for _, name := range fields {
		s, err := coerceValue(name, payload[name])
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}

	return strings.Join(parts, cfg.Separator), nil
}

// canonicalJSONString serializes timestamp, nonce and the payload as one
// compact JSON object. A payload field named "timestamp" or "nonce" wins
// over the auxiliary value. Without SortJSONKeys the order is timestamp,
// nonce, then payload keys sorted ascending; with it, all top-level keys are
// sorted.
func canonicalJSONString(payload Payload, timestamp any, nonce string, cfg SigningConfig) (string, error) {
	type entry struct {
		key string
		val any
	}

	entries := make([]entry, 0, len(payload)+2)
	index := make(map[string]int, len(payload)+2)

	add := func(key string, val any) {
		if i, ok := index[key]; ok {
			entries[i].val = val
			return
		}
		index[key] = len(entries)
		entries = append(entries, entry{key: key, val: val})
	}

	if cfg.IncludeTimestamp {
		add("timestamp", jsonTimestampValue(timestamp))
	}
	if cfg.IncludeNonce {
		add("nonce", nonce)
	}
	for _, key := range sortedKeys(payload) {
		add(key, payload[key])
	}

	if cfg.SortJSONKeys {
		sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := marshalCompact(e.key)
		if err != nil {
			return "", apperror.ErrGeneration("canonicalize", err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := marshalCompact(e.val)
		if err != nil {
			return "", apperror.ErrGeneration("canonicalize", err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')

	return buf.String(), nil
}

// coerceValue maps a payload value to its canonical string form: null -> "",
// true -> "1", false -> "0", nested structures -> compact JSON, scalars ->
// their natural decimal/string representation.
func coerceValue(field string, v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case bool:
		if x {
			return "1", nil
		}
		return "0", nil
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case int:
		return strconv.Itoa(x), nil
	case int8:
		return strconv.FormatInt(int64(x), 10), nil
	case int16:
		return strconv.FormatInt(int64(x), 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float32:
		return formatFloat(float64(x)), nil
	case float64:
		return formatFloat(x), nil
	case map[string]any, []any:
		b, err := marshalCompact(x)
		if err != nil {
			return "", apperror.ErrGeneration("canonicalize", err)
		}
		return string(b), nil
	default:
		return "", apperror.ErrUnsupportedValue(field, fmt.Sprintf("%T", v))
	}
}

// renderTimestamp renders the timestamp part for canonical mode: integers in
// base 10, strings verbatim.
func renderTimestamp(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return formatFloat(x)
	default:
		return fmt.Sprint(v)
	}
}

// jsonTimestampValue keeps numeric timestamps as JSON numbers even when they
// arrive as strings (the header transport form), so verification re-derives
// the exact bytes generation produced.
func jsonTimestampValue(v any) any {
	if s, ok := v.(string); ok {
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			return json.Number(s)
		}
	}
	return v
}

// formatFloat prints whole values without a fractional part (5000.0 ->
// "5000"), matching how dynamically-typed implementations print numbers.
func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// marshalCompact is compact JSON without HTML escaping, so "<", ">" and "&"
// survive byte-identical across implementations. Nested map keys come out
// sorted (encoding/json behavior).
func marshalCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func sortedKeys(payload Payload) []string {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func missingFields(payload Payload, fields []string) []string {
	var missing []string
	for _, f := range fields {
		if _, ok := payload[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}
