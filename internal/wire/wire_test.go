package wire

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
)

func TestHelloRoundTrip(t *testing.T) {
	msg := NewHelloMessage(GameParams{
		ServerName: "abc", PlayersCount: 2, SizeX: 16, SizeY: 16,
		GameLength: 10, ExplosionRadius: 3, BombTimer: 5,
	})
	encoded, err := EncodeServerMessage(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	want := []byte{0x00, 0x03, 0x61, 0x62, 0x63, 0x02, 0x00, 0x10, 0x00, 0x10}
	if !bytes.Equal(encoded[:len(want)], want) {
		t.Fatalf("first %d bytes = % x, want % x", len(want), encoded[:len(want)], want)
	}

	decoded, rest, err := DecodeServerMessage(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("residue after decode: % x", rest)
	}
	if !reflect.DeepEqual(decoded, msg) {
		t.Fatalf("decoded = %+v, want %+v", decoded, msg)
	}
}

func TestDecodePrefixIsIncomplete(t *testing.T) {
	msg := NewHelloMessage(GameParams{
		ServerName: "abc", PlayersCount: 2, SizeX: 16, SizeY: 16,
		GameLength: 10, ExplosionRadius: 3, BombTimer: 5,
	})
	encoded, err := EncodeServerMessage(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	for n := 0; n < len(encoded); n++ {
		_, _, err := DecodeServerMessage(encoded[:n])
		if !errors.Is(err, ErrIncomplete) {
			t.Fatalf("prefix of length %d: got err=%v, want ErrIncomplete", n, err)
		}
	}
}

func TestDecodeConsumesExactlyAndLeavesResidue(t *testing.T) {
	msg := NewAcceptedPlayerMessage(3, Player{Name: "x", Address: "[127.0.0.1]:1234"})
	encoded, err := EncodeServerMessage(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	residue := []byte{0xde, 0xad, 0xbe, 0xef}
	buf := append(append([]byte{}, encoded...), residue...)

	decoded, rest, err := DecodeServerMessage(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(decoded, msg) {
		t.Fatalf("decoded = %+v, want %+v", decoded, msg)
	}
	if !bytes.Equal(rest, residue) {
		t.Fatalf("rest = % x, want % x", rest, residue)
	}
}

func TestEventRoundTrip(t *testing.T) {
	cases := []Event{
		NewBombPlacedEvent(7, Position{X: 1, Y: 2}),
		NewBombExplodedEvent(7, []PlayerId{0, 2}, []Position{{X: 1, Y: 1}, {X: 2, Y: 2}}),
		NewPlayerMovedEvent(1, Position{X: 3, Y: 4}),
		NewBlockPlacedEvent(Position{X: 5, Y: 6}),
	}
	for _, e := range cases {
		encoded, err := EncodeEvent(e, nil)
		if err != nil {
			t.Fatalf("encode %+v: %v", e, err)
		}
		decoded, rest, err := DecodeEvent(encoded)
		if err != nil {
			t.Fatalf("decode %+v: %v", e, err)
		}
		if len(rest) != 0 {
			t.Fatalf("residue decoding %+v: % x", e, rest)
		}
		if decoded.Type != e.Type {
			t.Fatalf("decoded type = %v, want %v", decoded.Type, e.Type)
		}
		if !reflect.DeepEqual(decoded, e) {
			t.Fatalf("decoded = %+v, want %+v", decoded, e)
		}
	}
}

func TestInvalidDiscriminantIsInvalid(t *testing.T) {
	_, _, err := DecodeServerMessage([]byte{0xff})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("got err=%v, want ErrInvalid", err)
	}
	_, _, err = DecodeClientMessage([]byte{0x09})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("got err=%v, want ErrInvalid", err)
	}
}

func TestFramerStreamingSplitsAcrossFeeds(t *testing.T) {
	msg := NewHelloMessage(GameParams{
		ServerName: "abc", PlayersCount: 2, SizeX: 16, SizeY: 16,
		GameLength: 10, ExplosionRadius: 3, BombTimer: 5,
	})
	encoded, err := EncodeServerMessage(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	framer := NewServerMessageFramer()

	first, err := framer.Feed(encoded[:5])
	if err != nil {
		t.Fatalf("first feed: %v", err)
	}
	if len(first) != 0 {
		t.Fatalf("first feed produced %d messages, want 0", len(first))
	}

	second, err := framer.Feed(encoded[5:])
	if err != nil {
		t.Fatalf("second feed: %v", err)
	}
	if len(second) != 1 {
		t.Fatalf("second feed produced %d messages, want 1", len(second))
	}
	if !reflect.DeepEqual(second[0], msg) {
		t.Fatalf("decoded = %+v, want %+v", second[0], msg)
	}
}

func TestFramerSurfacesInvalidAsFatal(t *testing.T) {
	framer := NewClientMessageFramer()
	_, err := framer.Feed([]byte{0xff})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("got err=%v, want ErrInvalid", err)
	}
}

// TestDecodeSliceRejectsHostileLengthPrefixWithoutOversizedAlloc exercises
// decodeSlice/decodeMap's defense against a wire length prefix far larger
// than the bytes actually available: a u32 of 0xFFFFFFFF must fail cleanly
// with ErrIncomplete instead of driving make([]T, 0, n) /make(map[K]V, n)
// to attempt a multi-gigabyte allocation before a single element is read.
func TestDecodeSliceRejectsHostileLengthPrefixWithoutOversizedAlloc(t *testing.T) {
	turn := []byte{0x03, 0x00, 0x00, 0xff, 0xff, 0xff, 0xff} // ServerTurn, turn=0, n=0xFFFFFFFF, no element bytes follow
	_, _, err := DecodeServerMessage(turn)
	if !errors.Is(err, ErrIncomplete) {
		t.Fatalf("got err=%v, want ErrIncomplete", err)
	}

	started := []byte{0x02, 0xff, 0xff, 0xff, 0xff} // ServerGameStarted, n=0xFFFFFFFF, no pairs follow
	_, _, err = DecodeServerMessage(started)
	if !errors.Is(err, ErrIncomplete) {
		t.Fatalf("got err=%v, want ErrIncomplete", err)
	}
}

func TestDecodeDatagramDropsResidueOnly(t *testing.T) {
	encoded, err := EncodeInputMessage(InputMessage{Type: InputPlaceBomb})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	msg, ok := DecodeDatagram(encoded, DecodeInputMessage)
	if !ok || msg.Type != InputPlaceBomb {
		t.Fatalf("expected clean decode, got ok=%v msg=%+v", ok, msg)
	}

	withResidue := append(append([]byte{}, encoded...), 0x00)
	_, ok = DecodeDatagram(withResidue, DecodeInputMessage)
	if ok {
		t.Fatalf("expected residue to fail datagram decode")
	}

	_, ok = DecodeDatagram([]byte{0xff}, DecodeInputMessage)
	if ok {
		t.Fatalf("expected invalid discriminant to fail datagram decode")
	}
}
