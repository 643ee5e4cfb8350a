package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := New(Options{
		BaseURL:   baseURL,
		Timeout:   500 * time.Millisecond,
		LocalPath: filepath.Join(t.TempDir(), "mirror.db"),
	})
	if err != nil {
		t.Fatalf("open client: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

// 127.0.0.1:1 基本必然拒绝连接，模拟网络故障
const deadURL = "http://127.0.0.1:1"

func TestFallbackOnNetworkFailure(t *testing.T) {
	c := newTestClient(t, deadURL)
	if !c.Online() {
		t.Fatal("fresh client should start online")
	}

	page, err := c.ListJobs(context.Background(), ListOptions{})
	if err != nil {
		t.Fatalf("list jobs: %v", err)
	}
	if c.Online() {
		t.Fatal("mode should have flipped to local")
	}
	// 空镜像返回种子数据
	if len(page.Jobs) != 3 {
		t.Fatalf("seed jobs = %d, want 3", len(page.Jobs))
	}
	found := false
	for _, j := range page.Jobs {
		if j.Title == "Курьер на день" {
			found = true
			if j.SalaryAmount != 1000 {
				t.Fatalf("salary_amount = %d, want 1000", j.SalaryAmount)
			}
		}
	}
	if !found {
		t.Fatal("seed job missing")
	}
}

func TestOfflineApplyEnforcesDuplicateAndSelfApply(t *testing.T) {
	c := newTestClient(t, deadURL)
	ctx := context.Background()

	// 登录种子工人（离线回放）
	s, err := c.Login(ctx, "worker@demo.kg", "demo123")
	if err != nil {
		t.Fatalf("offline login: %v", err)
	}
	if !strings.Contains(s.Message, "демо-режим") {
		t.Fatalf("message = %q, want demo suffix", s.Message)
	}

	res, err := c.Apply(ctx, "demo-job-0001", "возьмите меня")
	if err != nil {
		t.Fatalf("first offline apply: %v", err)
	}
	if res.Application.Status != "pending" {
		t.Fatalf("status = %q", res.Application.Status)
	}
	if !strings.Contains(res.Message, "демо-режим") {
		t.Fatalf("message = %q", res.Message)
	}

	// 第二次投递同一职位必须失败，离线在线判定一致
	_, err = c.Apply(ctx, "demo-job-0001", "")
	apiErr, ok := err.(*APIError)
	if !ok || apiErr.Kind != "conflict" {
		t.Fatalf("second apply err = %v, want conflict APIError", err)
	}

	// 雇主给自己的职位投递
	if _, err := c.Login(ctx, "employer@demo.kg", "demo123"); err != nil {
		t.Fatalf("employer login: %v", err)
	}
	_, err = c.Apply(ctx, "demo-job-0001", "")
	apiErr, ok = err.(*APIError)
	if !ok || apiErr.Kind != "validation" {
		t.Fatalf("self apply err = %v, want validation APIError", err)
	}
}

func TestBusinessErrorDoesNotTriggerFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "you have already applied for this job",
			"kind":  "conflict",
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Apply(context.Background(), "j1", "")
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("err = %v, want APIError", err)
	}
	if apiErr.Kind != "conflict" || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("apiErr = %+v", apiErr)
	}
	if !c.Online() {
		t.Fatal("business error must not flip the mode")
	}
}

func TestHTMLBodyTriggersFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body>502 Bad Gateway</body></html>"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if _, err := c.ListJobs(context.Background(), ListOptions{}); err != nil {
		t.Fatalf("list jobs: %v", err)
	}
	if c.Online() {
		t.Fatal("HTML body should flip to local mode")
	}
}

func TestHealthProbeFlipsBackOnline(t *testing.T) {
	var healthy atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"status": "ok", "db": true})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	ctx := context.Background()

	if _, err := c.ListJobs(ctx, ListOptions{}); err != nil {
		t.Fatalf("list jobs: %v", err)
	}
	if c.Online() {
		t.Fatal("502 should flip to local mode")
	}

	if c.Health(ctx) {
		t.Fatal("health should fail while remote is down")
	}
	healthy.Store(true)
	if !c.Health(ctx) {
		t.Fatal("health should succeed")
	}
	if !c.Online() {
		t.Fatal("successful probe should flip back online")
	}
}

func TestModePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mirror.db")
	c, err := New(Options{BaseURL: deadURL, Timeout: 200 * time.Millisecond, LocalPath: path})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := c.ListJobs(context.Background(), ListOptions{}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if c.Online() {
		t.Fatal("should be offline")
	}
	c.Close()

	c2, err := New(Options{BaseURL: deadURL, Timeout: 200 * time.Millisecond, LocalPath: path})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer c2.Close()
	if c2.Online() {
		t.Fatal("offline mode should survive reopen")
	}
}

func TestLocalSetStatusCascade(t *testing.T) {
	c := newTestClient(t, deadURL)
	ctx := context.Background()

	// 两个工人投递同一职位，雇主录用其中一个
	if _, err := c.Register(ctx, RegisterInput{
		Name: "Второй", Email: "w2@demo.kg", Password: "demo123", UserType: "worker",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	res2, err := c.Apply(ctx, "demo-job-0001", "")
	if err != nil {
		t.Fatalf("w2 apply: %v", err)
	}

	if _, err := c.Login(ctx, "worker@demo.kg", "demo123"); err != nil {
		t.Fatalf("w1 login: %v", err)
	}
	res1, err := c.Apply(ctx, "demo-job-0001", "")
	if err != nil {
		t.Fatalf("w1 apply: %v", err)
	}

	if _, err := c.Login(ctx, "employer@demo.kg", "demo123"); err != nil {
		t.Fatalf("employer login: %v", err)
	}
	st, err := c.SetStatus(ctx, res1.Application.ID, "accepted", "добро пожаловать")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if st.Application.Status != "accepted" {
		t.Fatalf("status = %q", st.Application.Status)
	}

	// 落选者应被级联拒绝
	if _, err := c.Login(ctx, "w2@demo.kg", "demo123"); err != nil {
		t.Fatalf("w2 login: %v", err)
	}
	apps, err := c.MyApplications(ctx)
	if err != nil {
		t.Fatalf("my applications: %v", err)
	}
	var found bool
	for _, a := range apps {
		if a.ID == res2.Application.ID {
			found = true
			if a.Status != "rejected" {
				t.Fatalf("sibling status = %q, want rejected", a.Status)
			}
			if a.EmployerComment == "" {
				t.Fatal("system comment missing")
			}
		}
	}
	if !found {
		t.Fatal("w2 application not found")
	}
}
