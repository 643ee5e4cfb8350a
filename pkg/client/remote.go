package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 5 * time.Second

// Remote 真实 API 适配器。连通性失败统一归一成 unavailableError，
// 业务错误（带 JSON body 的 400/401/403/409）原样透传。
type Remote struct {
	baseURL string
	http    *http.Client
	token   string
}

func NewRemote(baseURL string, timeout time.Duration) *Remote {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (r *Remote) SetToken(token string) { r.token = token }

func (r *Remote) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	res, err := r.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return unavailable("request failed", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return unavailable("read body failed", err)
	}

	// HTML 错误页（反向代理挂了等情况）按连通性失败处理
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "<") {
		return unavailable("non-JSON response body", nil)
	}

	if res.StatusCode == http.StatusNotFound || res.StatusCode >= 500 {
		return unavailable(fmt.Sprintf("http status %d", res.StatusCode), nil)
	}
	if res.StatusCode >= 400 {
		apiErr := &APIError{Status: res.StatusCode}
		if err := json.Unmarshal(raw, apiErr); err != nil {
			return unavailable("malformed error body", err)
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return unavailable("malformed response body", err)
	}
	return nil
}

func (r *Remote) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	var s Session
	if err := r.do(ctx, http.MethodPost, "/api/users/register", in, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Remote) Login(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	body := map[string]string{"email": email, "password": password}
	if err := r.do(ctx, http.MethodPost, "/api/users/login", body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Remote) ListJobs(ctx context.Context, opt ListOptions) (*JobPage, error) {
	q := url.Values{}
	if opt.Page > 0 {
		q.Set("page", strconv.Itoa(opt.Page))
	}
	if opt.Limit > 0 {
		q.Set("limit", strconv.Itoa(opt.Limit))
	}
	if opt.Category != "" {
		q.Set("category", opt.Category)
	}
	if opt.Location != "" {
		q.Set("location", opt.Location)
	}
	if opt.Search != "" {
		q.Set("search", opt.Search)
	}
	path := "/api/jobs"
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}
	var page JobPage
	if err := r.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *Remote) GetJob(ctx context.Context, id string) (*Job, error) {
	var wrap struct {
		Job Job `json:"job"`
	}
	if err := r.do(ctx, http.MethodGet, "/api/jobs/"+url.PathEscape(id), nil, &wrap); err != nil {
		return nil, err
	}
	return &wrap.Job, nil
}

func (r *Remote) CreateJob(ctx context.Context, in JobInput) (*Job, error) {
	var wrap struct {
		Job Job `json:"job"`
	}
	if err := r.do(ctx, http.MethodPost, "/api/jobs", in, &wrap); err != nil {
		return nil, err
	}
	return &wrap.Job, nil
}

func (r *Remote) Apply(ctx context.Context, jobID, coverLetter string) (*ApplyResult, error) {
	body := map[string]string{"job_id": jobID, "cover_letter": coverLetter}
	var wrap struct {
		Application Application `json:"application"`
	}
	if err := r.do(ctx, http.MethodPost, "/api/applications", body, &wrap); err != nil {
		return nil, err
	}
	return &ApplyResult{Message: "Заявка отправлена", Application: wrap.Application}, nil
}

func (r *Remote) MyApplications(ctx context.Context) ([]Application, error) {
	var wrap struct {
		Applications []Application `json:"applications"`
	}
	if err := r.do(ctx, http.MethodGet, "/api/applications/my", nil, &wrap); err != nil {
		return nil, err
	}
	return wrap.Applications, nil
}

func (r *Remote) SetStatus(ctx context.Context, appID, status, comment string) (*StatusResult, error) {
	body := map[string]string{"status": status, "employer_comment": comment}
	var wrap struct {
		Application Application `json:"application"`
	}
	if err := r.do(ctx, http.MethodPut, "/api/applications/"+url.PathEscape(appID), body, &wrap); err != nil {
		return nil, err
	}
	return &StatusResult{Message: "Статус обновлён", Application: wrap.Application}, nil
}

func (r *Remote) Withdraw(ctx context.Context, appID string) (*WithdrawResult, error) {
	var wrap struct {
		Message string `json:"message"`
	}
	if err := r.do(ctx, http.MethodDelete, "/api/applications/"+url.PathEscape(appID), nil, &wrap); err != nil {
		return nil, err
	}
	return &WithdrawResult{Message: "Заявка отозвана"}, nil
}

// Health 探活，成功即可切回在线模式
func (r *Remote) Health(ctx context.Context) error {
	return r.do(ctx, http.MethodGet, "/api/health", nil, nil)
}
