// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"
)

// sampleEntry mirrors the shape of a cache entry: CBOR-only tags.
type sampleEntry struct {
	Title string `cbor:"title"`
	Body  string `cbor:"body,omitempty"`
	Count int    `cbor:"count"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := sampleEntry{Title: "election result", Body: "vote count", Count: 3}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Marshal produced empty output")
	}

	var decoded sampleEntry
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != original {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestMarshalDeterministicMapOrder(t *testing.T) {
	// Go map iteration order is random; deterministic encoding must
	// sort keys so repeated encodings are byte-identical.
	value := map[string]string{"zebra": "z", "apple": "a", "mango": "m", "kiwi": "k"}

	first, err := Marshal(value)
	if err != nil {
		t.Fatalf("first Marshal: %v", err)
	}
	for range 20 {
		again, err := Marshal(value)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("deterministic encoding violated: %x != %x", first, again)
		}
	}
}

func TestCompressedRoundtrip(t *testing.T) {
	original := sampleEntry{
		Title: "climate",
		Body:  strings.Repeat("climate change scientist warn ", 200),
		Count: 200,
	}

	data, err := MarshalCompressed(original)
	if err != nil {
		t.Fatalf("MarshalCompressed: %v", err)
	}

	plain, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if len(data) >= len(plain) {
		t.Errorf("compressed size %d not smaller than plain size %d", len(data), len(plain))
	}

	var decoded sampleEntry
	if err := UnmarshalCompressed(data, &decoded); err != nil {
		t.Fatalf("UnmarshalCompressed: %v", err)
	}
	if decoded != original {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestUnmarshalCompressedRejectsGarbage(t *testing.T) {
	var decoded sampleEntry
	if err := UnmarshalCompressed([]byte("not a zstd frame"), &decoded); err == nil {
		t.Fatal("expected error for non-zstd input")
	}
}

func TestEncoderDecoderStream(t *testing.T) {
	entries := []sampleEntry{
		{Title: "a", Count: 1},
		{Title: "b", Body: "second", Count: 2},
	}

	var buffer bytes.Buffer
	encoder := NewEncoder(&buffer)
	for _, entry := range entries {
		if err := encoder.Encode(entry); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}

	decoder := NewDecoder(&buffer)
	for i, want := range entries {
		var got sampleEntry
		if err := decoder.Decode(&got); err != nil {
			t.Fatalf("Decode[%d]: %v", i, err)
		}
		if got != want {
			t.Errorf("entry %d = %+v, want %+v", i, got, want)
		}
	}
}

func TestUnmarshalAnyUsesStringKeys(t *testing.T) {
	data, err := Marshal(map[string]any{"name": "en_core_web"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	asMap, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("decoded type = %T, want map[string]any", decoded)
	}
	if asMap["name"] != "en_core_web" {
		t.Errorf("name = %v, want en_core_web", asMap["name"])
	}
}
