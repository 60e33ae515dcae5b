package wire

import "sort"

// encodeSlice writes a Sequence<T>: a u32 length followed by each element
// encoded by enc, in slice order.
func encodeSlice[T any](items []T, buf []byte, enc func(T, []byte) ([]byte, error)) ([]byte, error) {
	buf = encodeU32(uint32(len(items)), buf)
	var err error
	for _, item := range items {
		buf, err = enc(item, buf)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// decodeSlice reads a Sequence<T> produced by encodeSlice.
func decodeSlice[T any](b []byte, dec func([]byte) (T, []byte, error)) ([]T, []byte, error) {
	n, rest, err := decodeU32(b)
	if err != nil {
		return nil, nil, err
	}
	// n comes straight off the wire and is not yet validated against what's
	// actually in rest, so the capacity hint must not be trusted outright:
	// every element needs at least one byte, so len(rest) is a safe cap
	// against a hostile length prefix (e.g. 0xFFFFFFFF) driving a
	// multi-gigabyte allocation before a single byte has been checked.
	items := make([]T, 0, minCap(n, len(rest)))
	for i := uint32(0); i < n; i++ {
		var item T
		item, rest, err = dec(rest)
		if err != nil {
			return nil, nil, err
		}
		items = append(items, item)
	}
	return items, rest, nil
}

// encodeMap writes a Mapping<K,V>: a u32 length followed by (K,V) pairs.
// Key order on the wire is unspecified by the protocol, but callers that
// need byte-identical output across runs (see testable property P4) must
// supply keys already in a stable order; sortedUint8Keys below does that for
// the ordered key types this protocol actually uses.
func encodeMap[K comparable, V any](m map[K]V, keys []K, buf []byte, encKey func(K, []byte) ([]byte, error), encVal func(V, []byte) ([]byte, error)) ([]byte, error) {
	buf = encodeU32(uint32(len(keys)), buf)
	var err error
	for _, k := range keys {
		buf, err = encKey(k, buf)
		if err != nil {
			return nil, err
		}
		buf, err = encVal(m[k], buf)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// decodeMap reads a Mapping<K,V> produced by encodeMap. Decoding is
// permissive about wire order: entries are inserted as they're read, so
// any order the encoder chose is accepted.
func decodeMap[K comparable, V any](b []byte, decKey func([]byte) (K, []byte, error), decVal func([]byte) (V, []byte, error)) (map[K]V, []byte, error) {
	n, rest, err := decodeU32(b)
	if err != nil {
		return nil, nil, err
	}
	m := make(map[K]V, minCap(n, len(rest)))
	for i := uint32(0); i < n; i++ {
		var k K
		var v V
		k, rest, err = decKey(rest)
		if err != nil {
			return nil, nil, err
		}
		v, rest, err = decVal(rest)
		if err != nil {
			return nil, nil, err
		}
		m[k] = v
	}
	return m, rest, nil
}

// minCap bounds a wire-supplied element count by the bytes actually
// available to decode from, so a pre-sizing hint never allocates further
// ahead than the input could possibly sustain.
func minCap(n uint32, available int) int {
	if available < 0 {
		available = 0
	}
	if uint64(n) < uint64(available) {
		return int(n)
	}
	return available
}

// sortedUint8Keys returns the keys of m sorted ascending, for deterministic
// Mapping<PlayerId, *> encoding.
func sortedUint8Keys[V any](m map[uint8]V) []uint8 {
	keys := make([]uint8, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
