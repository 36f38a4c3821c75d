// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"strings"
	"testing"
)

// skipKnownLimitation skips when naga reports a feature it does not
// implement yet rather than a problem in the shader.
func skipKnownLimitation(t *testing.T, err error) {
	t.Helper()
	msg := err.Error()
	for _, known := range []string{"not yet implemented", "not supported", "lowering error", "validation failed"} {
		if strings.Contains(msg, known) {
			t.Skipf("naga limitation: %v", err)
		}
	}
}

func TestSourceEntryPoints(t *testing.T) {
	for _, want := range []string{
		"fn " + VertexEntry + "(",
		"fn " + FragmentEntry + "(",
		"@binding(1) var tiles: texture_2d<u32>",
		"struct Params",
	} {
		if !strings.Contains(Source, want) {
			t.Errorf("Source does not contain %q", want)
		}
	}
}

func TestCompile(t *testing.T) {
	words, err := Compile()
	if err != nil {
		skipKnownLimitation(t, err)
		t.Fatalf("Compile: %v", err)
	}
	if len(words) == 0 {
		t.Fatal("Compile returned no SPIR-V")
	}
	const spirvMagic = 0x07230203
	if words[0] != spirvMagic {
		t.Errorf("first word = %#x, want SPIR-V magic %#x", words[0], spirvMagic)
	}
}

func TestCompileSPIRVInvalid(t *testing.T) {
	if _, err := CompileSPIRV("fn broken( {"); err == nil {
		t.Error("CompileSPIRV accepted invalid WGSL")
	}
}
