package mcuconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "port.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadAppliesDefaultCapacity(t *testing.T) {
	path := writeConfig(t, "path: /dev/ttyUSB0\nbaud: 115200\nhead: MSG_HEADER\ntail: MSG_TAIL\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BufferCapacity != defaultCapacity {
		t.Fatalf("BufferCapacity = %d, want %d", cfg.BufferCapacity, defaultCapacity)
	}
}

func TestLoadRejectsEqualHeadTail(t *testing.T) {
	path := writeConfig(t, "path: /dev/ttyUSB0\nbaud: 9600\nhead: X\ntail: X\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for head == tail")
	}
}

func TestLoadRejectsPrefixCollision(t *testing.T) {
	path := writeConfig(t, "path: /dev/ttyUSB0\nbaud: 9600\nhead: MSG\ntail: MSG_TAIL\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for head being a prefix of tail")
	}
}

func TestBaudResolution(t *testing.T) {
	cfg := PortConfig{Path: "/dev/ttyUSB0", BaudRate: 9600, Head: "H", Tail: "T"}
	if _, err := cfg.Baud(); err != nil {
		t.Fatalf("Baud: %v", err)
	}
	cfg.BaudRate = 4800
	if _, err := cfg.Baud(); err == nil {
		t.Fatal("expected error for unsupported baud")
	}
}
