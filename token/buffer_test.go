package token

import (
	"bytes"
	"testing"
)

func TestBufferReadWrite(t *testing.T) {
	buf := NewBuffer()
	if _, err := buf.ReadByte(); err != ErrAwaitingData {
		t.Fatalf("expected ErrAwaitingData, got %v", err)
	}
	buf.Write([]byte("ab"))
	b, err := buf.ReadByte()
	if err != nil || b != 'a' {
		t.Fatalf("expected 'a', got %q, %v", b, err)
	}
	buf.Write([]byte("c"))
	b, err = buf.PeekByte()
	if err != nil || b != 'b' {
		t.Fatalf("expected peek 'b', got %q, %v", b, err)
	}
	buf.ReadByte()
	b, err = buf.ReadByte()
	if err != nil || b != 'c' {
		t.Fatalf("expected 'c', got %q, %v", b, err)
	}
	buf.End()
	if _, err := buf.ReadByte(); err != ErrEndOfStream {
		t.Fatalf("expected ErrEndOfStream, got %v", err)
	}
	if err := buf.Write([]byte("d")); err != ErrStreamClosed {
		t.Fatalf("expected ErrStreamClosed, got %v", err)
	}
}

func TestBufferMarkRewind(t *testing.T) {
	buf := NewBuffer()
	buf.Write([]byte("hello"))
	buf.ReadByte()
	mark := buf.Mark()
	buf.ReadByte()
	buf.ReadByte()
	buf.Rewind(mark)
	b, _ := buf.ReadByte()
	if b != 'e' {
		t.Fatalf("expected 'e' after rewind, got %q", b)
	}
}

func TestBufferRewindCancelsRecording(t *testing.T) {
	buf := NewBuffer()
	buf.Write([]byte("abcdef"))
	mark := buf.Mark()
	buf.StartToken()
	buf.ReadByte()
	buf.ReadByte()
	buf.Rewind(mark)
	// Recording was cancelled, so a new one can start.
	buf.StartToken()
	buf.ReadByte()
	if got := buf.EndToken(); !bytes.Equal(got, []byte("a")) {
		t.Fatalf("expected %q, got %q", "a", got)
	}
}

func TestBufferSkipSpace(t *testing.T) {
	buf := NewBuffer()
	buf.Write([]byte(" \t\r\n x"))
	buf.SkipSpace()
	b, _ := buf.ReadByte()
	if b != 'x' {
		t.Fatalf("expected 'x', got %q", b)
	}
}

func TestBufferTokenRecording(t *testing.T) {
	buf := NewBuffer()
	buf.Write([]byte(`"foo" 12`))
	buf.StartToken()
	for i := 0; i < 5; i++ {
		buf.ReadByte()
	}
	tok := buf.EndToken()
	if !bytes.Equal(tok, []byte(`"foo"`)) {
		t.Fatalf("expected %q, got %q", `"foo"`, tok)
	}
	// The recorded bytes must be a copy, not a window on the buffer.
	buf.Write([]byte("34"))
	if !bytes.Equal(tok, []byte(`"foo"`)) {
		t.Fatalf("recorded token changed after Write: %q", tok)
	}
}

func TestBufferBack(t *testing.T) {
	buf := NewBuffer()
	buf.Write([]byte("xy"))
	buf.ReadByte()
	buf.Back()
	b, _ := buf.ReadByte()
	if b != 'x' {
		t.Fatalf("expected 'x' after Back, got %q", b)
	}
	buf.StartToken()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic going back past token start")
		}
	}()
	buf.Back()
}

func TestBufferRelease(t *testing.T) {
	buf := NewBuffer()
	chunk := bytes.Repeat([]byte("0 "), minReleaseSize)
	buf.Write(chunk)
	for i := 0; i < minReleaseSize; i++ {
		buf.SkipSpace()
		buf.ReadByte()
	}
	buf.SkipSpace()
	buf.Release()
	buf.Write([]byte("1"))
	b, err := buf.ReadByte()
	if err != nil || b != '1' {
		t.Fatalf("expected '1' after release, got %q, %v", b, err)
	}
}
