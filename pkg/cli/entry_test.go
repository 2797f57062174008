package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeScript(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.matrix")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunFile(t *testing.T) {
	path := writeScript(t, `
let greet = (name: String) => "hello, " + name
println(greet("world"))
`)
	var stdout, stderr bytes.Buffer
	code := Run([]string{"run", path}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}
	if stdout.String() != "hello, world\n" {
		t.Errorf("stdout = %q, want %q", stdout.String(), "hello, world\n")
	}
}

func TestRunFileDirectly(t *testing.T) {
	path := writeScript(t, "println(6 * 7)")
	var stdout, stderr bytes.Buffer
	if code := Run([]string{path}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}
	if stdout.String() != "42\n" {
		t.Errorf("stdout = %q, want %q", stdout.String(), "42\n")
	}
}

func TestRunReportsTypeError(t *testing.T) {
	path := writeScript(t, `let x = 1 + "no"`)
	var stdout, stderr bytes.Buffer
	code := Run([]string{"run", path}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "TypeError::Mismatch") {
		t.Errorf("stderr = %q, want a TypeError diagnostic", stderr.String())
	}
}

func TestRunReportsRuntimeError(t *testing.T) {
	path := writeScript(t, "let x = 10\nprintln(x / 0)")
	var stdout, stderr bytes.Buffer
	code := Run([]string{"run", path}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "RuntimeError::DivisionByZero") {
		t.Errorf("stderr = %q, want a DivisionByZero diagnostic", stderr.String())
	}
	if !strings.Contains(stderr.String(), "line 2") {
		t.Errorf("stderr = %q, want the failing line number", stderr.String())
	}
}

func TestCheckDoesNotEvaluate(t *testing.T) {
	// The program would divide by zero; check must still pass.
	path := writeScript(t, "let boom = 1 / 0")
	var stdout, stderr bytes.Buffer
	code := Run([]string{"check", path}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "ok") {
		t.Errorf("stdout = %q, want an ok line", stdout.String())
	}
}

func TestCheckRejectsBadProgram(t *testing.T) {
	path := writeScript(t, "let f = (x) => x(x)")
	var stdout, stderr bytes.Buffer
	if code := Run([]string{"check", path}, &stdout, &stderr); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "TypeError::InfiniteType") {
		t.Errorf("stderr = %q, want an InfiniteType diagnostic", stderr.String())
	}
}

// With jit_debug on, the run is traced under a session id and the JIT
// reports its compile decisions.
func TestJITDebugTracesSession(t *testing.T) {
	dir := t.TempDir()
	yaml := "jit: true\njit_debug: true\n"
	if err := os.WriteFile(filepath.Join(dir, "matrixlang.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "main.matrix")
	script := `
let fact = (n: Int) => if n <= 1 { 1 } else { n * fact(n - 1) }
println(fact(10))
`
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if code := Run([]string{"run", path}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}
	if stdout.String() != "3628800\n" {
		t.Errorf("stdout = %q, want %q", stdout.String(), "3628800\n")
	}
	if !strings.Contains(stderr.String(), "session ") {
		t.Errorf("stderr = %q, want a session trace line", stderr.String())
	}
	if !strings.Contains(stderr.String(), "jit: compiled fact") {
		t.Errorf("stderr = %q, want the jit compile line", stderr.String())
	}
}

func TestUsageErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := Run([]string{"run"}, &stdout, &stderr); code != 2 {
		t.Errorf("run without file: exit code = %d, want 2", code)
	}
	if code := Run([]string{"frobnicate"}, &stdout, &stderr); code != 2 {
		t.Errorf("unknown command: exit code = %d, want 2", code)
	}
	if code := Run([]string{"run", filepath.Join(t.TempDir(), "missing.matrix")}, &stdout, &stderr); code != 2 {
		t.Errorf("missing file: exit code = %d, want 2", code)
	}
}
