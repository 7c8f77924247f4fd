// Package main runs end-to-end chat scenarios against a running API server.
//
// Usage:
//
//	API_BASE_URL=... ADMIN_JWT_SECRET=... go run scripts/e2e/run_e2e.go [scenario-name]
//
// ADMIN_JWT_SECRET is optional; the admin scenario is skipped without it.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/wolfman30/elitecuts-assistant/internal/chat"
	"github.com/wolfman30/elitecuts-assistant/internal/dialogue"
	httpmiddleware "github.com/wolfman30/elitecuts-assistant/internal/http/middleware"
)

var (
	apiBase string
	token   string
	client  = &http.Client{Timeout: 15 * time.Second}
)

type scenario struct {
	Name string
	Fn   func(t *T)
}

// T is a lightweight test context for a single scenario.
type T struct {
	passed int
	failed int
	name   string
}

func (t *T) check(name string, ok bool) {
	if ok {
		fmt.Printf("    PASS: %s\n", name)
		t.passed++
	} else {
		fmt.Printf("    FAIL: %s\n", name)
		t.failed++
	}
}

func (t *T) fatalf(format string, args ...any) {
	fmt.Printf("    FATAL: "+format+"\n", args...)
	t.failed++
}

func do(method, path string, body any, out any) (int, error) {
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		r = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, apiBase+path, r)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" && strings.HasPrefix(path, "/admin") {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return resp.StatusCode, nil
}

func openSession(t *T) string {
	var view chat.View
	status, err := do(http.MethodPost, "/chat/sessions", nil, &view)
	if err != nil || status != http.StatusCreated {
		t.fatalf("create session: status=%d err=%v", status, err)
		return ""
	}
	return view.ID
}

func say(t *T, id, text string) (chat.TurnResponse, bool) {
	var turn chat.TurnResponse
	status, err := do(http.MethodPost, "/chat/sessions/"+id+"/messages", map[string]string{"text": text}, &turn)
	if err != nil || status != http.StatusOK {
		t.fatalf("send %q: status=%d err=%v", text, status, err)
		return turn, false
	}
	fmt.Printf("    you> %s\n    bot> %s\n", text, turn.Message.Text)
	return turn, true
}

func containsAny(s string, substrs ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrs {
		if strings.Contains(lower, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

func scenarioServiceInfo(t *T) {
	id := openSession(t)
	if id == "" {
		return
	}
	turn, ok := say(t, id, "what services do you offer?")
	if !ok {
		return
	}
	t.check("classified as service info", turn.Intent == dialogue.IntentServiceInfo)
	t.check("lists a price", strings.Contains(turn.Message.Text, "$"))

	turn, ok = say(t, id, "tell me more about that")
	if ok {
		t.check("follow-up stays on services", turn.Intent == dialogue.IntentServiceInfo)
	}
}

func scenarioHoursAndLocation(t *T) {
	id := openSession(t)
	if id == "" {
		return
	}
	if turn, ok := say(t, id, "what are your hours?"); ok {
		t.check("classified as hours", turn.Intent == dialogue.IntentHours)
	}
	if turn, ok := say(t, id, "where are you located?"); ok {
		t.check("classified as location", turn.Intent == dialogue.IntentLocation)
	}
}

func scenarioBookingFlow(t *T) {
	id := openSession(t)
	if id == "" {
		return
	}
	steps := []struct {
		text string
		want dialogue.Step
	}{
		{"I'd like to book a classic haircut", dialogue.StepBarber},
		{"James", dialogue.StepDate},
		{"next monday", dialogue.StepTime},
		{"morning", dialogue.StepName},
		{"E2E Tester", dialogue.StepEmail},
		{"e2e@example.com", dialogue.StepPhone},
		{"555-123-4567", dialogue.StepNotes},
		{"none", dialogue.StepConfirm},
	}
	for _, s := range steps {
		turn, ok := say(t, id, s.text)
		if !ok {
			return
		}
		if turn.Step != s.want {
			t.fatalf("after %q expected step %s, got %s", s.text, s.want, turn.Step)
			return
		}
	}
	turn, ok := say(t, id, "yes")
	if !ok {
		return
	}
	t.check("appointment booked", turn.Booked)
	t.check("confirmation number in reply", containsAny(turn.Message.Text, "confirmation"))
}

func scenarioCancelMidFlow(t *T) {
	id := openSession(t)
	if id == "" {
		return
	}
	if _, ok := say(t, id, "book a beard trim"); !ok {
		return
	}
	if turn, ok := say(t, id, "cancel"); ok {
		t.check("booking reset to idle", turn.Step == dialogue.StepIdle)
	}
}

func scenarioAdmin(t *T) {
	if token == "" {
		fmt.Println("    SKIP: ADMIN_JWT_SECRET not set")
		return
	}
	var stats map[string]any
	status, err := do(http.MethodGet, "/admin/stats", nil, &stats)
	t.check("stats reachable", err == nil && status == http.StatusOK)
	status, err = do(http.MethodPost, "/admin/knowledge/reload", nil, nil)
	t.check("knowledge reload accepted", err == nil && status == http.StatusOK)
}

func main() {
	apiBase = strings.TrimRight(os.Getenv("API_BASE_URL"), "/")
	if apiBase == "" {
		fmt.Fprintln(os.Stderr, "ERROR: API_BASE_URL required")
		os.Exit(1)
	}
	if secret := os.Getenv("ADMIN_JWT_SECRET"); secret != "" {
		var err error
		token, err = httpmiddleware.IssueAdminToken(secret, "e2e", time.Hour)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: issue admin token: %v\n", err)
			os.Exit(1)
		}
	}

	scenarios := []scenario{
		{"service-info", scenarioServiceInfo},
		{"hours-location", scenarioHoursAndLocation},
		{"booking-flow", scenarioBookingFlow},
		{"cancel", scenarioCancelMidFlow},
		{"admin", scenarioAdmin},
	}

	filter := ""
	if len(os.Args) > 1 {
		filter = os.Args[1]
	}

	totalPassed, totalFailed := 0, 0
	var results []string
	for _, s := range scenarios {
		if filter != "" && s.Name != filter {
			continue
		}
		fmt.Printf("\n========================================\n")
		fmt.Printf("SCENARIO: %s\n", s.Name)
		fmt.Printf("========================================\n")

		t := &T{name: s.Name}
		s.Fn(t)
		totalPassed += t.passed
		totalFailed += t.failed

		status := "ok"
		if t.failed > 0 {
			status = "FAILED"
		}
		results = append(results, fmt.Sprintf("  %-6s %s (%d passed, %d failed)", status, s.Name, t.passed, t.failed))
	}

	fmt.Printf("\n========================================\n")
	fmt.Println("SUMMARY")
	fmt.Printf("========================================\n")
	for _, r := range results {
		fmt.Println(r)
	}
	fmt.Printf("\nTotal: %d passed, %d failed\n", totalPassed, totalFailed)
	if totalFailed > 0 {
		os.Exit(1)
	}
}
