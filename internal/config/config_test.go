package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileIsError(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(dir); err == nil {
		t.Fatal("Load on a directory with no loaf.toml should error")
	}
}

func TestFindAndLoadWithNoManifestReturnsDefault(t *testing.T) {
	dir := t.TempDir()
	c, err := FindAndLoad(dir)
	if err != nil {
		t.Fatalf("FindAndLoad error: %v", err)
	}
	if c.VM.MaxFrames != defaultMaxFrames {
		t.Errorf("MaxFrames = %d, want default %d", c.VM.MaxFrames, defaultMaxFrames)
	}
}

func TestLoadParsesVMSection(t *testing.T) {
	dir := t.TempDir()
	content := "[vm]\nmax-frames = 256\ntrace-on-start = true\nlambda-ptr-len = 8\n"
	if err := os.WriteFile(filepath.Join(dir, "loaf.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if c.VM.MaxFrames != 256 || !c.VM.TraceOnStart || c.VM.LambdaPtrLen != 8 {
		t.Errorf("got %+v, want MaxFrames=256 TraceOnStart=true LambdaPtrLen=8", c.VM)
	}
}

func TestLoadDefaultsLambdaPtrLenWhenOmitted(t *testing.T) {
	dir := t.TempDir()
	content := "[vm]\nmax-frames = 256\n"
	if err := os.WriteFile(filepath.Join(dir, "loaf.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if c.VM.LambdaPtrLen != defaultLambdaPtrLen {
		t.Errorf("LambdaPtrLen = %d, want default %d", c.VM.LambdaPtrLen, defaultLambdaPtrLen)
	}
}
