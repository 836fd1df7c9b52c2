package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

const videoNote = `{"update_id":7,"message":{"message_id":1,"chat":{"id":1,"type":"private"},"video_note":{"file_id":"v"},"text":"hi"}}`

func TestClassify_JSONFromFiles(t *testing.T) {
	a := writeFile(t, "a.json", videoNote)
	b := writeFile(t, "b.json", `{"update_id":8,"callback_query":{"id":"q","data":"x"}}`)

	out, err := run(t, "", "classify", "-o", "json", a, b)
	if err != nil {
		t.Fatalf("classify: %v\n%s", err, out)
	}
	var got []classifyResult
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 results, got %d", len(got))
	}
	if got[0].Kind != "message" || got[0].Subkind != "video_note" {
		t.Fatalf("first = %+v", got[0])
	}
	if len(got[0].MatchingSubkinds) != 2 || got[0].MatchingSubkinds[1] != "text" {
		t.Fatalf("matching = %v", got[0].MatchingSubkinds)
	}
	if got[1].Kind != "callback_query" || got[1].Subkind != "" || got[1].Error != "" {
		t.Fatalf("second = %+v", got[1])
	}
}

func TestClassify_StdinText(t *testing.T) {
	out, err := run(t, videoNote, "classify")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	for _, want := range []string{"message", "video_note", "text"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestClassify_ViaSDK(t *testing.T) {
	body := `{"update_id":5,"message":{"message_id":1,"date":1,"chat":{"id":2,"type":"group"},"dice":{"emoji":"🎲","value":3}}}`
	for _, via := range []string{"botapi", "telego", "go-telegram"} {
		out, err := run(t, body, "classify", "--via", via, "-o", "json")
		if err != nil {
			t.Fatalf("--via %s: %v\n%s", via, err, out)
		}
		if !strings.Contains(out, `"subkind": "dice"`) {
			t.Fatalf("--via %s output:\n%s", via, out)
		}
	}

	if _, err := run(t, body, "classify", "--via", "nope"); err == nil {
		t.Fatal("unknown sdk should fail")
	}
}

func TestClassify_FailuresExitNonZero(t *testing.T) {
	good := writeFile(t, "good.json", videoNote)
	unknown := writeFile(t, "unknown.json", `{"update_id":9,"business_message":{}}`)
	missing := filepath.Join(t.TempDir(), "missing.json")

	out, err := run(t, "", "classify", "--output", "json", good, unknown, missing)
	if err == nil || !strings.Contains(err.Error(), "2 of 3") {
		t.Fatalf("want 2 of 3 failures, got %v", err)
	}
	var got []classifyResult
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if got[0].Error != "" || !strings.Contains(got[1].Error, "business_message") || got[2].Error == "" {
		t.Fatalf("results = %+v", got)
	}
}

func TestOutputFlag_Validated(t *testing.T) {
	if _, err := run(t, "", "kinds", "-o", "yaml"); err == nil || !strings.Contains(err.Error(), "--output") {
		t.Fatalf("want output validation error, got %v", err)
	}
}

func TestKindsAndSubkinds_Tables(t *testing.T) {
	out, err := run(t, "", "kinds")
	if err != nil {
		t.Fatalf("kinds: %v", err)
	}
	if !strings.Contains(out, "chat_join_request") || !strings.Contains(out, "callbackQuery") {
		t.Fatalf("kinds table:\n%s", out)
	}
	if strings.Index(out, "edited_message") > strings.Index(out, "inline_query") {
		t.Fatalf("kinds out of registry order:\n%s", out)
	}

	out, err = run(t, "", "subkinds")
	if err != nil {
		t.Fatalf("subkinds: %v", err)
	}
	if !strings.Contains(out, "forward_date") || strings.Index(out, "voice") > strings.Index(out, "passport_data") {
		t.Fatalf("subkinds table:\n%s", out)
	}
}

func TestSubkinds_JSON(t *testing.T) {
	out, err := run(t, "", "sub-kinds", "-o", "json")
	if err != nil {
		t.Fatalf("subkinds: %v", err)
	}
	var rows []struct {
		Subkind string `json:"subkind"`
		Field   string `json:"field"`
		Renamed bool   `json:"renamed"`
	}
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 31 || rows[0].Subkind != "voice" {
		t.Fatalf("rows = %d first=%+v", len(rows), rows[0])
	}
	last := rows[len(rows)-1]
	if last.Subkind != "forward" || last.Field != "forward_date" || !last.Renamed {
		t.Fatalf("last = %+v", last)
	}
}

func TestLoadEnvFile(t *testing.T) {
	if err := loadEnvFile(""); err != nil {
		t.Fatalf("empty path: %v", err)
	}
	if err := loadEnvFile(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("missing file should be ignored: %v", err)
	}

	t.Setenv("TGU_TEST_PRESET", "kept")
	p := writeFile(t, "test.env", "TGU_TEST_FROM_FILE=loaded\nTGU_TEST_PRESET=overridden\n")
	t.Cleanup(func() { _ = os.Unsetenv("TGU_TEST_FROM_FILE") })
	if err := loadEnvFile(p); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := os.Getenv("TGU_TEST_FROM_FILE"); got != "loaded" {
		t.Fatalf("TGU_TEST_FROM_FILE = %q", got)
	}
	if got := os.Getenv("TGU_TEST_PRESET"); got != "kept" {
		t.Fatalf("existing env must win, got %q", got)
	}
}

type fakePurger struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakePurger) PurgeReceipts(context.Context, time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return 1, f.err
}

func (f *fakePurger) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestRunPurger_TicksUntilCanceled(t *testing.T) {
	for _, perr := range []error{nil, errors.New("db locked")} {
		p := &fakePurger{err: perr}
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			runPurger(ctx, p, 5*time.Millisecond)
			close(done)
		}()

		deadline := time.Now().Add(2 * time.Second)
		for p.count() < 2 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("purger did not stop after cancel")
		}
		if p.count() < 2 {
			t.Fatalf("purger ran %d times, want >= 2 (err=%v)", p.count(), perr)
		}
	}
}
